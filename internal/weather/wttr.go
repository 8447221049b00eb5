package weather

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/rotisserie/eris"

	"github.com/agrosense/crop-advisor/internal/fetch"
	"github.com/agrosense/crop-advisor/internal/model"
	"github.com/agrosense/crop-advisor/internal/source"
)

// WttrBaseURL is the default secondary provider endpoint.
const WttrBaseURL = "https://wttr.in"

// Wttr is the secondary weather adapter. It reports a shorter forecast
// horizon than the primary (three days), which the normalized snapshot
// carries as-is — the forecast invariant is "at most seven days".
type Wttr struct {
	client  *fetch.Client
	baseURL string
}

// NewWttr creates the adapter. A nil client gets a default one.
func NewWttr(client *fetch.Client, baseURL string) *Wttr {
	if client == nil {
		client = fetch.NewClient()
	}
	if baseURL == "" {
		baseURL = WttrBaseURL
	}
	return &Wttr{client: client, baseURL: baseURL}
}

// Name implements source.Adapter.
func (w *Wttr) Name() string { return "wttr" }

// wttrResponse mirrors the j1 JSON format. All numbers arrive as strings.
type wttrResponse struct {
	CurrentCondition []struct {
		TempC       string `json:"temp_C"`
		Humidity    string `json:"humidity"`
		PrecipMM    string `json:"precipMM"`
		WindspeedKm string `json:"windspeedKmph"`
		WeatherDesc []struct {
			Value string `json:"value"`
		} `json:"weatherDesc"`
	} `json:"current_condition"`
	Weather []struct {
		Date     string `json:"date"`
		MaxTempC string `json:"maxtempC"`
		MinTempC string `json:"mintempC"`
		UVIndex  string `json:"uvIndex"`
		Hourly   []struct {
			PrecipMM     string `json:"precipMM"`
			ChanceOfRain string `json:"chanceofrain"`
			WindspeedKm  string `json:"windspeedKmph"`
			WeatherDesc  []struct {
				Value string `json:"value"`
			} `json:"weatherDesc"`
		} `json:"hourly"`
	} `json:"weather"`
}

// Fetch implements source.Adapter.
func (w *Wttr) Fetch(ctx context.Context, loc model.Location, _ source.Params) (model.WeatherSnapshot, error) {
	endpoint := fmt.Sprintf("%s/%.4f,%.4f?format=j1", w.baseURL, loc.Latitude, loc.Longitude)

	var resp wttrResponse
	if err := w.client.GetJSON(ctx, endpoint, nil, &resp); err != nil {
		return model.WeatherSnapshot{}, eris.Wrap(err, "wttr: fetch")
	}
	if len(resp.CurrentCondition) == 0 {
		return model.WeatherSnapshot{}, eris.New("wttr: missing current_condition")
	}

	cur := resp.CurrentCondition[0]
	snap := model.WeatherSnapshot{
		Location: loc,
		Current: model.CurrentWeather{
			Temperature: num(cur.TempC),
			Humidity:    num(cur.Humidity),
			RainfallMM:  num(cur.PrecipMM),
			WindSpeed:   num(cur.WindspeedKm),
		},
		Timestamp: time.Now().UTC(),
	}
	if len(cur.WeatherDesc) > 0 {
		snap.Current.Condition = normalizeCondition(cur.WeatherDesc[0].Value)
	}

	for i, d := range resp.Weather {
		if i >= model.MaxForecastDays {
			break
		}
		day := model.DailyForecast{
			Date:    d.Date,
			MaxTemp: num(d.MaxTempC),
			MinTemp: num(d.MinTempC),
			UVIndex: num(d.UVIndex),
		}
		// Aggregate the hourly blocks into daily figures.
		var rainPeak, windPeak float64
		for _, h := range d.Hourly {
			day.RainfallMM += num(h.PrecipMM)
			if p := num(h.ChanceOfRain); p > rainPeak {
				rainPeak = p
			}
			if ws := num(h.WindspeedKm); ws > windPeak {
				windPeak = ws
			}
			if day.Condition == "" && len(h.WeatherDesc) > 0 {
				day.Condition = normalizeCondition(h.WeatherDesc[0].Value)
			}
		}
		day.RainProbability = rainPeak
		day.WindSpeed = windPeak
		day.FarmingAdvice = adviceFor(day)
		snap.Forecast = append(snap.Forecast, day)
	}
	if len(snap.Forecast) == 0 {
		return model.WeatherSnapshot{}, eris.New("wttr: missing forecast days")
	}

	snap.FarmingAlerts = alertsFor(snap.Current, snap.Forecast)
	return snap, nil
}

// num parses wttr's stringified numbers, returning 0 for blanks.
func num(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
