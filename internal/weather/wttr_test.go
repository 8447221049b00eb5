package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrosense/crop-advisor/internal/fetch"
)

func TestWttrFetchAggregatesHourly(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "j1", r.URL.Query().Get("format"))
		w.Write([]byte(`{
			"current_condition": [
				{"temp_C": "29", "humidity": "70", "precipMM": "0.4", "windspeedKmph": "11",
				 "weatherDesc": [{"value": "Partly Cloudy"}]}
			],
			"weather": [
				{"date": "2026-07-10", "maxtempC": "33", "mintempC": "25", "uvIndex": "6",
				 "hourly": [
					{"precipMM": "2.5", "chanceofrain": "60", "windspeedKmph": "14", "weatherDesc": [{"value": "Light Rain"}]},
					{"precipMM": "4.0", "chanceofrain": "85", "windspeedKmph": "20", "weatherDesc": [{"value": "Rain"}]}
				 ]},
				{"date": "2026-07-11", "maxtempC": "31", "mintempC": "24", "uvIndex": "5",
				 "hourly": [{"precipMM": "0", "chanceofrain": "10", "windspeedKmph": "8", "weatherDesc": [{"value": "Sunny"}]}]}
			]
		}`))
	}))
	defer srv.Close()

	adapter := NewWttr(fetch.NewClient(), srv.URL)
	snap, err := adapter.Fetch(context.Background(), nagpur(), nil)
	require.NoError(t, err)

	assert.Equal(t, 29.0, snap.Current.Temperature)
	assert.Equal(t, "partly cloudy", snap.Current.Condition)

	require.Len(t, snap.Forecast, 2)
	d := snap.Forecast[0]
	assert.Equal(t, "2026-07-10", d.Date)
	assert.InDelta(t, 6.5, d.RainfallMM, 1e-9, "hourly precip sums")
	assert.Equal(t, 85.0, d.RainProbability, "peak chance of rain")
	assert.Equal(t, 20.0, d.WindSpeed, "peak wind")
	assert.Equal(t, "light rain", d.Condition)
}

func TestWttrFetchRejectsMissingBlocks(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no current condition", `{"current_condition": [], "weather": []}`},
		{"no forecast days", `{"current_condition": [{"temp_C": "29"}], "weather": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			adapter := NewWttr(fetch.NewClient(), srv.URL)
			_, err := adapter.Fetch(context.Background(), nagpur(), nil)
			assert.Error(t, err)
		})
	}
}

func TestNum(t *testing.T) {
	assert.Equal(t, 29.5, num("29.5"))
	assert.Equal(t, 0.0, num(""))
	assert.Equal(t, 0.0, num("n/a"))
}
