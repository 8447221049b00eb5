package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrosense/crop-advisor/internal/fetch"
	"github.com/agrosense/crop-advisor/internal/model"
)

func TestOpenMeteoFetchMapsResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "21.1458", r.URL.Query().Get("latitude"))
		assert.Equal(t, "79.0882", r.URL.Query().Get("longitude"))
		assert.Equal(t, "7", r.URL.Query().Get("forecast_days"))
		w.Write([]byte(`{
			"current": {"temperature_2m": 31.5, "relative_humidity_2m": 65, "precipitation": 0.2,
			            "wind_speed_10m": 12.5, "weather_code": 2},
			"daily": {
				"time": ["2026-07-10", "2026-07-11"],
				"temperature_2m_max": [33.1, 32.4],
				"temperature_2m_min": [25.0, 24.2],
				"precipitation_sum": [12.0, 55.0],
				"precipitation_probability_max": [60, 85],
				"wind_speed_10m_max": [18, 22],
				"uv_index_max": [7, 6],
				"weather_code": [80, 63]
			}
		}`))
	}))
	defer srv.Close()

	adapter := NewOpenMeteo(fetch.NewClient(), srv.URL)
	snap, err := adapter.Fetch(context.Background(), nagpur(), nil)
	require.NoError(t, err)

	assert.Equal(t, 31.5, snap.Current.Temperature)
	assert.Equal(t, 65.0, snap.Current.Humidity)
	assert.Equal(t, "partly cloudy", snap.Current.Condition)

	require.Len(t, snap.Forecast, 2)
	assert.Equal(t, "2026-07-10", snap.Forecast[0].Date)
	assert.Equal(t, 33.1, snap.Forecast[0].MaxTemp)
	assert.Equal(t, "rain showers", snap.Forecast[0].Condition)
	assert.Equal(t, "rain", snap.Forecast[1].Condition)
	assert.NotEmpty(t, snap.Forecast[0].FarmingAdvice)

	// 55 mm on the second day crosses the heavy-rain threshold.
	assert.NotEmpty(t, snap.FarmingAlerts)
}

func TestOpenMeteoFetchTruncatesLongForecast(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"current": {"temperature_2m": 30},
			"daily": {
				"time": ["d1","d2","d3","d4","d5","d6","d7","d8","d9","d10"],
				"temperature_2m_max": [30,30,30,30,30,30,30,30,30,30],
				"temperature_2m_min": [20,20,20,20,20,20,20,20,20,20],
				"precipitation_sum": [0,0,0,0,0,0,0,0,0,0],
				"precipitation_probability_max": [0,0,0,0,0,0,0,0,0,0],
				"wind_speed_10m_max": [5,5,5,5,5,5,5,5,5,5],
				"uv_index_max": [5,5,5,5,5,5,5,5,5,5],
				"weather_code": [0,0,0,0,0,0,0,0,0,0]
			}
		}`))
	}))
	defer srv.Close()

	adapter := NewOpenMeteo(fetch.NewClient(), srv.URL)
	snap, err := adapter.Fetch(context.Background(), nagpur(), nil)
	require.NoError(t, err)
	assert.Len(t, snap.Forecast, model.MaxForecastDays)
}

func TestOpenMeteoFetchRejectsEmptyDaily(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"current": {"temperature_2m": 30}, "daily": {"time": []}}`))
	}))
	defer srv.Close()

	adapter := NewOpenMeteo(fetch.NewClient(), srv.URL)
	_, err := adapter.Fetch(context.Background(), nagpur(), nil)
	assert.Error(t, err)
}

func TestOpenMeteoFetchPropagatesHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	adapter := NewOpenMeteo(fetch.NewClient(), srv.URL)
	_, err := adapter.Fetch(context.Background(), nagpur(), nil)
	assert.Error(t, err)
}

func TestConditionForWMO(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{0, "clear"},
		{2, "partly cloudy"},
		{45, "fog"},
		{55, "drizzle"},
		{63, "rain"},
		{71, "snow"},
		{81, "rain showers"},
		{95, "thunderstorm"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, conditionForWMO(tt.code), "code %d", tt.code)
	}
}

func TestAtDefensiveIndex(t *testing.T) {
	vals := []float64{1, 2}
	assert.Equal(t, 2.0, at(vals, 1))
	assert.Equal(t, 0.0, at(vals, 5))
	assert.Equal(t, 0.0, at(nil, 0))
}
