package scoring

import (
	"math"
	"strings"

	"github.com/agrosense/crop-advisor/internal/model"
	"github.com/agrosense/crop-advisor/internal/refdata"
)

// neutralScore substitutes for any factor whose input data is missing, so
// the weight table still sums correctly and no crop is penalized for gaps
// in acquisition.
const neutralScore = 0.5

// Factor floors and band scores.
const (
	soilBaselineScore = 0.25 // preferred-soil miss; never 0 so marginal options survive
	costFloorScore    = 0.05
	durationShortDays = 110
	durationLongDays  = 160
)

// Inputs carries the normalized signals for one scoring pass. Nil or
// zero-valued fields mean "data missing" and score neutrally.
type Inputs struct {
	SoilType string
	Weather  *model.WeatherSnapshot
	Trend    *model.PriceTrend
}

// Engine computes per-crop score breakdowns.
type Engine struct {
	weights     Weights
	costCeiling float64
}

// NewEngine creates an engine. The weight table must already be validated;
// costCeiling is the reference input cost against which efficiency is
// measured (₹/acre).
func NewEngine(weights Weights, costCeiling float64) *Engine {
	return &Engine{weights: weights, costCeiling: costCeiling}
}

// Weights returns the engine's weight table.
func (e *Engine) Weights() Weights { return e.weights }

// Score computes the six factor scores and the weighted composite for one
// crop. Every factor and the composite land in [0, 1].
func (e *Engine) Score(c *refdata.CropProfile, in Inputs) model.ScoreBreakdown {
	b := model.ScoreBreakdown{
		CropID:              c.ID,
		SoilScore:           e.soilScore(c, in.SoilType),
		WeatherScore:        e.weatherScore(c, in.Weather),
		PriceScore:          e.priceScore(in.Trend),
		CostEfficiencyScore: e.costScore(c.InputCostPerAcre),
		DurationScore:       durationScore(c.DurationDays),
		HistoricalScore:     historyScore(c.PerformanceTrend),
		Weights:             e.weights.Map(),
	}

	b.CompositeScore = clamp01(
		b.WeatherScore*e.weights.Weather +
			b.PriceScore*e.weights.Price +
			b.SoilScore*e.weights.Soil +
			b.CostEfficiencyScore*e.weights.Cost +
			b.DurationScore*e.weights.Duration +
			b.HistoricalScore*e.weights.History,
	)
	return b
}

// soilScore is 1.0 on a preferred-soil match, a low baseline otherwise,
// and neutral when the caller did not supply a soil type.
func (e *Engine) soilScore(c *refdata.CropProfile, soil string) float64 {
	soil = strings.ToLower(strings.TrimSpace(soil))
	if soil == "" {
		return neutralScore
	}
	for _, pref := range c.SoilPreferences {
		if strings.EqualFold(pref, soil) {
			return 1.0
		}
	}
	return soilBaselineScore
}

// weatherScore blends temperature, rainfall, and humidity fit. Sub-weights
// favor temperature; each fit degrades linearly outside the crop's range
// rather than cutting off.
func (e *Engine) weatherScore(c *refdata.CropProfile, snap *model.WeatherSnapshot) float64 {
	if snap == nil {
		return neutralScore
	}

	tempFit := rangeFit(snap.Current.Temperature, c.TempRangeC)

	// Extrapolate the forecast week's rainfall across the crop cycle for
	// comparison against the crop's seasonal requirement.
	var weekRain float64
	for _, d := range snap.Forecast {
		weekRain += d.RainfallMM
	}
	rainFit := neutralScore
	if len(snap.Forecast) > 0 {
		cycleRain := weekRain / float64(len(snap.Forecast)) * float64(c.DurationDays)
		rainFit = rangeFit(cycleRain, c.RainfallRangeMM)
	}

	humidityFit := rangeFit(snap.Current.Humidity, refdata.Range{Min: 40, Max: 80})

	return clamp01(0.5*tempFit + 0.3*rainFit + 0.2*humidityFit)
}

// priceScore maps trend direction and strength into [0,1]: rising trends
// reward up to 1.0, falling trends sink toward a floor, stable sits at 0.6.
func (e *Engine) priceScore(trend *model.PriceTrend) float64 {
	if trend == nil {
		return neutralScore
	}
	strength := clamp01(trend.Strength)
	switch trend.Direction {
	case model.TrendIncreasing:
		return clamp01(0.7 + 0.3*strength)
	case model.TrendDecreasing:
		return math.Max(0.1, 0.4-0.3*strength)
	default:
		return 0.6
	}
}

// costScore rewards crops cheaper than the reference ceiling. A zero or
// negative recorded cost scores the cap rather than dividing by zero.
func (e *Engine) costScore(inputCost float64) float64 {
	if inputCost <= 0 {
		return 1.0
	}
	return math.Max(costFloorScore, math.Min(1.0, e.costCeiling/inputCost))
}

// durationScore banded by cycle length: short cycles enable more harvests
// per year.
func durationScore(days int) float64 {
	switch {
	case days <= durationShortDays:
		return 0.8
	case days <= durationLongDays:
		return 0.6
	default:
		return 0.4
	}
}

// historyScore maps the performance-trend label to a fixed score.
func historyScore(trend string) float64 {
	switch trend {
	case "improving":
		return 0.8
	case "stable":
		return 0.6
	case "declining":
		return 0.3
	default:
		return neutralScore
	}
}

// rangeFit is 1.0 inside the range, degrading linearly with distance
// outside it; zero credit at one full range-width away.
func rangeFit(v float64, r refdata.Range) float64 {
	if r.Contains(v) {
		return 1.0
	}
	width := r.Width()
	if width <= 0 {
		return 0
	}
	var dist float64
	if v < r.Min {
		dist = r.Min - v
	} else {
		dist = v - r.Max
	}
	return math.Max(0, 1.0-dist/width)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
