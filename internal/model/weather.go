package model

import "time"

// Status marks whether a record came from a live source or the
// deterministic synthetic fallback.
type Status string

const (
	StatusSuccess  Status = "success"
	StatusFallback Status = "fallback"
)

// MaxForecastDays bounds the daily forecast carried in a WeatherSnapshot.
const MaxForecastDays = 7

// CurrentWeather holds present conditions at a location.
type CurrentWeather struct {
	Temperature   float64 `json:"temperature"`
	Humidity      float64 `json:"humidity"`
	RainfallMM    float64 `json:"rainfall_mm"`
	WindSpeed     float64 `json:"wind_speed"`
	ConditionCode int     `json:"condition_code"`
	Condition     string  `json:"condition"`
}

// DailyForecast is one day of the forward forecast, chronological order.
type DailyForecast struct {
	Date            string  `json:"date"`
	MaxTemp         float64 `json:"max_temp"`
	MinTemp         float64 `json:"min_temp"`
	RainfallMM      float64 `json:"rainfall_mm"`
	RainProbability float64 `json:"rain_probability"`
	WindSpeed       float64 `json:"wind_speed"`
	UVIndex         float64 `json:"uv_index"`
	Condition       string  `json:"condition"`
	FarmingAdvice   string  `json:"farming_advice"`
}

// WeatherSnapshot is the normalized weather record produced by every
// weather adapter and by the synthetic fallback. Forecast holds at most
// MaxForecastDays entries; Status == StatusFallback implies DataSource
// names the synthetic generator.
type WeatherSnapshot struct {
	Location      Location        `json:"location"`
	Current       CurrentWeather  `json:"current"`
	Forecast      []DailyForecast `json:"forecast_7day"`
	FarmingAlerts []string        `json:"farming_alerts"`
	DataSource    string          `json:"data_source"`
	Status        Status          `json:"status"`
	Timestamp     time.Time       `json:"timestamp"`
}
