package market

import (
	"math"
	"time"

	"github.com/agrosense/crop-advisor/internal/model"
	"github.com/agrosense/crop-advisor/internal/refdata"
)

// trendFlatBand is the relative premium change below which the trend is
// called stable.
const trendFlatBand = 0.02

// trendFullStrength is the relative change that maps to strength 1.0.
const trendFullStrength = 0.10

// TrendFor classifies a crop's near-term price direction by comparing the
// seasonal premium expected over the next two months against the current
// month. Deterministic by construction: it reads only the reference table.
func TrendFor(c *refdata.CropProfile, month time.Month) model.PriceTrend {
	cur := c.SeasonalPremium[month-1]
	next1 := c.SeasonalPremium[month%12]
	next2 := c.SeasonalPremium[(month+1)%12]
	ahead := (next1 + next2) / 2

	delta := (ahead - cur) / cur
	strength := math.Min(1, math.Abs(delta)/trendFullStrength)

	switch {
	case delta > trendFlatBand:
		return model.PriceTrend{Direction: model.TrendIncreasing, Strength: strength}
	case delta < -trendFlatBand:
		return model.PriceTrend{Direction: model.TrendDecreasing, Strength: strength}
	default:
		return model.PriceTrend{Direction: model.TrendStable, Strength: strength}
	}
}
