package model

import "math"

// PriceUnit is the quotation unit for all mandi prices.
const PriceUnit = "₹/quintal"

// MarketPriceQuote is the normalized mandi price record.
// Invariant: MinPrice <= ModalPrice <= MaxPrice.
type MarketPriceQuote struct {
	CropName    string  `json:"crop_name"`
	MandiName   string  `json:"mandi_name"`
	MinPrice    float64 `json:"min_price"`
	ModalPrice  float64 `json:"modal_price"`
	MaxPrice    float64 `json:"max_price"`
	MSP         float64 `json:"msp"`
	ProfitVsMSP float64 `json:"profit_vs_msp"`
	Unit        string  `json:"unit"`
	Date        string  `json:"date"`
	Status      Status  `json:"status"`
}

// ProfitVsMSP returns the percentage premium of a modal price over the
// MSP, rounded to one decimal. Zero MSP yields zero rather than an error.
func ProfitVsMSP(modal, msp float64) float64 {
	if msp == 0 {
		return 0
	}
	return math.Round((modal-msp)/msp*1000) / 10
}

// TrendDirection labels the direction of a price trend.
type TrendDirection string

const (
	TrendIncreasing TrendDirection = "increasing"
	TrendStable     TrendDirection = "stable"
	TrendDecreasing TrendDirection = "decreasing"
)

// PriceTrend is the direction and strength (0..1) of a crop's price movement.
type PriceTrend struct {
	Direction TrendDirection `json:"direction"`
	Strength  float64        `json:"strength"`
}
