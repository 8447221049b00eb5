package model

// ScoreBreakdown holds the six per-factor scores for one crop, the weight
// table used, and the weighted composite. All factor scores and the
// composite are in [0, 1].
type ScoreBreakdown struct {
	CropID              string             `json:"crop_id"`
	SoilScore           float64            `json:"soil_score"`
	WeatherScore        float64            `json:"weather_score"`
	PriceScore          float64            `json:"price_score"`
	CostEfficiencyScore float64            `json:"cost_efficiency_score"`
	DurationScore       float64            `json:"duration_score"`
	HistoricalScore     float64            `json:"historical_score"`
	Weights             map[string]float64 `json:"weights"`
	CompositeScore      float64            `json:"composite_score"`
}

// ProfitEstimate is the per-acre economics for one crop, computed
// independently of the composite score.
type ProfitEstimate struct {
	ExpectedRevenue     float64 `json:"expected_revenue"`
	ExpectedProfit      float64 `json:"expected_profit"`
	ProfitMarginPercent float64 `json:"profit_margin_percent"`
}

// Recommendation is one ranked crop candidate returned to the caller.
// Created fresh per request, never persisted by the core.
type Recommendation struct {
	CropID              string   `json:"crop_id"`
	CropName            string   `json:"crop_name"`
	CompositeScore      float64  `json:"composite_score"`
	ExpectedRevenue     float64  `json:"expected_revenue"`
	ExpectedProfit      float64  `json:"expected_profit"`
	ProfitMarginPercent float64  `json:"profit_margin_percent"`
	Rationale           []string `json:"rationale"`
}
