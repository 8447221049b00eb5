package scoring

import (
	"math"

	"github.com/agrosense/crop-advisor/internal/model"
	"github.com/agrosense/crop-advisor/internal/refdata"
)

// EstimateProfit computes expected per-acre revenue and profit for a crop on
// the given soil at the forecast modal price (₹/quintal). Yield falls back
// to the crop default when no soil-specific figure exists; a zero input cost
// yields a zero margin rather than a division blowup.
func EstimateProfit(c *refdata.CropProfile, soilType string, forecastPrice float64) model.ProfitEstimate {
	yield := c.YieldForSoil(soilType)
	revenue := yield * forecastPrice
	profit := revenue - c.InputCostPerAcre

	var margin float64
	if c.InputCostPerAcre > 0 {
		margin = profit / c.InputCostPerAcre * 100
	}

	return model.ProfitEstimate{
		ExpectedRevenue:     math.Round(revenue),
		ExpectedProfit:      math.Round(profit),
		ProfitMarginPercent: math.Round(margin*10) / 10,
	}
}
