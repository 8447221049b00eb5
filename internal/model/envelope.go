package model

import "time"

// Envelope is the outward response contract shared by every signal surface:
// provenance, degradation status, and an ISO-8601 timestamp. The web layer
// consuming the core renders these fields as-is.
type Envelope struct {
	Status     Status `json:"status"`
	DataSource string `json:"data_source"`
	Timestamp  string `json:"timestamp"`
}

// NewEnvelope stamps an envelope with the given provenance at time now.
func NewEnvelope(status Status, dataSource string, now time.Time) Envelope {
	return Envelope{
		Status:     status,
		DataSource: dataSource,
		Timestamp:  now.UTC().Format(time.RFC3339),
	}
}

// WeatherResponse is the weather signal payload plus envelope.
type WeatherResponse struct {
	Envelope
	Location      Location        `json:"location"`
	Current       CurrentWeather  `json:"current"`
	Forecast7Day  []DailyForecast `json:"forecast_7day"`
	FarmingAlerts []string        `json:"farming_alerts"`
}

// PricesResponse is the mandi price payload plus envelope.
type PricesResponse struct {
	Envelope
	Location Location           `json:"location"`
	TopCrops []MarketPriceQuote `json:"top_crops"`
}

// RecommendationResponse is the full ranked recommendation payload.
type RecommendationResponse struct {
	Envelope
	Location        Location         `json:"location"`
	Season          string           `json:"season"`
	SoilType        string           `json:"soil_type"`
	Recommendations []Recommendation `json:"recommendations"`
}
