// Package weather acquires normalized weather snapshots through the
// fallback chain: Open-Meteo primary, a wttr-style secondary, and a
// deterministic seasonal-normals generator when every live source fails.
package weather

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/agrosense/crop-advisor/internal/fetch"
	"github.com/agrosense/crop-advisor/internal/model"
	"github.com/agrosense/crop-advisor/internal/source"
)

// OpenMeteoBaseURL is the default forecast endpoint. No API key required.
const OpenMeteoBaseURL = "https://api.open-meteo.com/v1/forecast"

// OpenMeteo is the primary weather adapter.
type OpenMeteo struct {
	client  *fetch.Client
	baseURL string
}

// NewOpenMeteo creates the adapter. A nil client gets a default one.
func NewOpenMeteo(client *fetch.Client, baseURL string) *OpenMeteo {
	if client == nil {
		client = fetch.NewClient()
	}
	if baseURL == "" {
		baseURL = OpenMeteoBaseURL
	}
	return &OpenMeteo{client: client, baseURL: baseURL}
}

// Name implements source.Adapter.
func (o *OpenMeteo) Name() string { return "open-meteo" }

// openMeteoResponse mirrors the provider's JSON shape.
type openMeteoResponse struct {
	Current struct {
		Temperature float64 `json:"temperature_2m"`
		Humidity    float64 `json:"relative_humidity_2m"`
		Rainfall    float64 `json:"precipitation"`
		WindSpeed   float64 `json:"wind_speed_10m"`
		WeatherCode int     `json:"weather_code"`
	} `json:"current"`
	Daily struct {
		Time            []string  `json:"time"`
		TempMax         []float64 `json:"temperature_2m_max"`
		TempMin         []float64 `json:"temperature_2m_min"`
		RainSum         []float64 `json:"precipitation_sum"`
		RainProbability []float64 `json:"precipitation_probability_max"`
		WindMax         []float64 `json:"wind_speed_10m_max"`
		UVMax           []float64 `json:"uv_index_max"`
		WeatherCode     []int     `json:"weather_code"`
	} `json:"daily"`
}

// Fetch implements source.Adapter.
func (o *OpenMeteo) Fetch(ctx context.Context, loc model.Location, _ source.Params) (model.WeatherSnapshot, error) {
	q := url.Values{}
	q.Set("latitude", fmt.Sprintf("%.4f", loc.Latitude))
	q.Set("longitude", fmt.Sprintf("%.4f", loc.Longitude))
	q.Set("current", "temperature_2m,relative_humidity_2m,precipitation,wind_speed_10m,weather_code")
	q.Set("daily", "temperature_2m_max,temperature_2m_min,precipitation_sum,precipitation_probability_max,wind_speed_10m_max,uv_index_max,weather_code")
	q.Set("forecast_days", fmt.Sprintf("%d", model.MaxForecastDays))
	q.Set("timezone", "auto")

	var resp openMeteoResponse
	if err := o.client.GetJSON(ctx, o.baseURL+"?"+q.Encode(), nil, &resp); err != nil {
		return model.WeatherSnapshot{}, eris.Wrap(err, "openmeteo: fetch")
	}
	if len(resp.Daily.Time) == 0 {
		return model.WeatherSnapshot{}, eris.New("openmeteo: empty daily block")
	}

	snap := model.WeatherSnapshot{
		Location: loc,
		Current: model.CurrentWeather{
			Temperature:   resp.Current.Temperature,
			Humidity:      resp.Current.Humidity,
			RainfallMM:    resp.Current.Rainfall,
			WindSpeed:     resp.Current.WindSpeed,
			ConditionCode: resp.Current.WeatherCode,
			Condition:     conditionForWMO(resp.Current.WeatherCode),
		},
		Timestamp: time.Now().UTC(),
	}

	days := len(resp.Daily.Time)
	if days > model.MaxForecastDays {
		days = model.MaxForecastDays
	}
	for i := 0; i < days; i++ {
		day := model.DailyForecast{
			Date:            resp.Daily.Time[i],
			MaxTemp:         at(resp.Daily.TempMax, i),
			MinTemp:         at(resp.Daily.TempMin, i),
			RainfallMM:      at(resp.Daily.RainSum, i),
			RainProbability: at(resp.Daily.RainProbability, i),
			WindSpeed:       at(resp.Daily.WindMax, i),
			UVIndex:         at(resp.Daily.UVMax, i),
		}
		if i < len(resp.Daily.WeatherCode) {
			day.Condition = conditionForWMO(resp.Daily.WeatherCode[i])
		}
		day.FarmingAdvice = adviceFor(day)
		snap.Forecast = append(snap.Forecast, day)
	}

	snap.FarmingAlerts = alertsFor(snap.Current, snap.Forecast)
	return snap, nil
}

// at indexes a provider array defensively; daily arrays are expected to be
// parallel but providers occasionally truncate one.
func at(vals []float64, i int) float64 {
	if i < len(vals) {
		return vals[i]
	}
	return 0
}

// conditionForWMO maps WMO weather interpretation codes to short labels.
func conditionForWMO(code int) string {
	switch {
	case code == 0:
		return "clear"
	case code <= 3:
		return "partly cloudy"
	case code <= 48:
		return "fog"
	case code <= 57:
		return "drizzle"
	case code <= 67:
		return "rain"
	case code <= 77:
		return "snow"
	case code <= 82:
		return "rain showers"
	case code <= 86:
		return "snow showers"
	default:
		return "thunderstorm"
	}
}

// normalizeCondition lowercases free-text provider conditions.
func normalizeCondition(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
