package scoring

import (
	"fmt"
	"math"
	"sort"

	"github.com/agrosense/crop-advisor/internal/model"
	"github.com/agrosense/crop-advisor/internal/refdata"
)

// Rationale thresholds. A factor contributes a human-readable reason only
// when its score clears the bar, so weak candidates surface with sparse
// rationales rather than padded ones.
const (
	rationaleSoilBar    = 0.8
	rationaleWeatherBar = 0.7
	rationalePriceBar   = 0.7
	rationaleCostBar    = 0.8
	rationaleHistoryBar = 0.7
)

// ScoredCrop pairs a crop's score breakdown with its profit estimate before
// ranking collapses both into a Recommendation.
type ScoredCrop struct {
	Crop      *refdata.CropProfile
	Breakdown model.ScoreBreakdown
	Profit    model.ProfitEstimate
}

// Rank orders candidates by composite score descending, breaking exact ties
// by expected profit descending, and returns at most topN recommendations.
// The sort is stable so equally scored, equally profitable crops keep their
// input (dataset) order.
func Rank(candidates []ScoredCrop, topN int) []model.Recommendation {
	ranked := make([]ScoredCrop, len(candidates))
	copy(ranked, candidates)

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Breakdown.CompositeScore != ranked[j].Breakdown.CompositeScore {
			return ranked[i].Breakdown.CompositeScore > ranked[j].Breakdown.CompositeScore
		}
		return ranked[i].Profit.ExpectedProfit > ranked[j].Profit.ExpectedProfit
	})

	if topN > 0 && len(ranked) > topN {
		ranked = ranked[:topN]
	}

	recs := make([]model.Recommendation, 0, len(ranked))
	for _, sc := range ranked {
		recs = append(recs, model.Recommendation{
			CropID:              sc.Crop.ID,
			CropName:            sc.Crop.Name,
			CompositeScore:      round2(sc.Breakdown.CompositeScore),
			ExpectedRevenue:     sc.Profit.ExpectedRevenue,
			ExpectedProfit:      sc.Profit.ExpectedProfit,
			ProfitMarginPercent: sc.Profit.ProfitMarginPercent,
			Rationale:           rationaleFor(sc),
		})
	}
	return recs
}

// rationaleFor renders the factors that actually pulled a crop up the
// ranking. Order is fixed: soil, weather, price, cost, history, profit.
func rationaleFor(sc ScoredCrop) []string {
	b := sc.Breakdown
	var reasons []string

	if b.SoilScore >= rationaleSoilBar {
		reasons = append(reasons, "excellent soil compatibility")
	}
	if b.WeatherScore >= rationaleWeatherBar {
		reasons = append(reasons, "favorable weather conditions for the growing cycle")
	}
	if b.PriceScore >= rationalePriceBar {
		reasons = append(reasons, "market prices trending upward")
	}
	if b.CostEfficiencyScore >= rationaleCostBar {
		reasons = append(reasons, "low input cost relative to comparable crops")
	}
	if b.HistoricalScore >= rationaleHistoryBar {
		reasons = append(reasons, "strong recent performance in this region")
	}
	if sc.Profit.ExpectedProfit > 0 {
		reasons = append(reasons, fmt.Sprintf("expected profit of ₹%.0f per acre", sc.Profit.ExpectedProfit))
	}
	if len(reasons) == 0 {
		reasons = append(reasons, "viable option for the selected season")
	}
	return reasons
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
