package weather

import (
	"time"

	"github.com/agrosense/crop-advisor/internal/model"
	"github.com/agrosense/crop-advisor/internal/source"
)

// SyntheticName identifies the fallback generator in data_source fields.
const SyntheticName = "seasonal-normals"

// FallbackAlert is always present on synthetic snapshots so callers can
// tell users that live data was unavailable.
const FallbackAlert = "Live weather data unavailable; showing seasonal averages for this month."

// monthNormal is a climatological normal for one calendar month over the
// central Indian plains.
type monthNormal struct {
	maxTemp   float64
	minTemp   float64
	humidity  float64
	rainMM    float64 // typical mm per rainy day
	rainProb  float64
	windSpeed float64
	uvIndex   float64
	condition string
}

// monthNormals is indexed by time.Month - 1. Static reference data; the
// synthetic path reads it and nothing else.
var monthNormals = [12]monthNormal{
	{24, 10, 55, 0.5, 10, 8, 5, "clear"},           // January
	{28, 13, 45, 0.3, 8, 9, 6, "clear"},            // February
	{33, 18, 35, 0.2, 6, 10, 8, "clear"},           // March
	{38, 23, 30, 0.2, 5, 12, 9, "clear"},           // April
	{41, 27, 32, 1.0, 12, 14, 10, "partly cloudy"}, // May
	{37, 26, 60, 6.0, 45, 16, 8, "rain showers"},   // June
	{31, 24, 80, 10.0, 70, 14, 6, "rain"},          // July
	{30, 24, 82, 9.0, 68, 12, 6, "rain"},           // August
	{31, 23, 75, 6.0, 50, 10, 7, "rain showers"},   // September
	{32, 19, 60, 2.0, 20, 8, 7, "partly cloudy"},   // October
	{29, 14, 55, 0.5, 10, 7, 6, "clear"},           // November
	{25, 11, 58, 0.3, 8, 7, 5, "clear"},            // December
}

// dayOffsets perturbs the forecast around the monthly normal so the seven
// days are not identical. Fixed table, never random.
var dayOffsets = [model.MaxForecastDays]float64{0, 0.8, -0.6, 1.2, -1.0, 0.4, -0.2}

// Synthetic is the terminal stage of the weather chain.
type Synthetic struct{}

// NewSynthetic creates the generator.
func NewSynthetic() *Synthetic { return &Synthetic{} }

// Name implements source.Synthesizer.
func (s *Synthetic) Name() string { return SyntheticName }

// Synthesize returns a plausible snapshot for the location's month.
// Pure: identical inputs on the same calendar day give identical output.
func (s *Synthetic) Synthesize(loc model.Location, _ source.Params, asOf time.Time) model.WeatherSnapshot {
	normal := monthNormals[asOf.Month()-1]

	snap := model.WeatherSnapshot{
		Location: loc,
		Current: model.CurrentWeather{
			Temperature: (normal.maxTemp + normal.minTemp) / 2,
			Humidity:    normal.humidity,
			RainfallMM:  normal.rainMM,
			WindSpeed:   normal.windSpeed,
			Condition:   normal.condition,
		},
		Timestamp: time.Date(asOf.Year(), asOf.Month(), asOf.Day(), 0, 0, 0, 0, time.UTC),
	}

	for i := 0; i < model.MaxForecastDays; i++ {
		date := snap.Timestamp.AddDate(0, 0, i)
		n := monthNormals[date.Month()-1]
		day := model.DailyForecast{
			Date:            date.Format("2006-01-02"),
			MaxTemp:         n.maxTemp + dayOffsets[i],
			MinTemp:         n.minTemp + dayOffsets[i]/2,
			RainfallMM:      n.rainMM,
			RainProbability: n.rainProb,
			WindSpeed:       n.windSpeed,
			UVIndex:         n.uvIndex,
			Condition:       n.condition,
		}
		day.FarmingAdvice = adviceFor(day)
		snap.Forecast = append(snap.Forecast, day)
	}

	snap.FarmingAlerts = append([]string{FallbackAlert}, alertsFor(snap.Current, snap.Forecast)...)
	return snap
}
