package weather

import (
	"fmt"

	"github.com/agrosense/crop-advisor/internal/model"
)

// Alert thresholds. Temperatures °C, rain mm/day, wind km/h.
const (
	heatAlertTemp   = 40.0
	coldAlertTemp   = 5.0
	heavyRainMM     = 50.0
	highWindSpeed   = 40.0
	sprayWindCeil   = 20.0
	irrigationRain  = 2.0
	highUVThreshold = 9.0
)

// adviceFor derives a one-line farming advisory from a forecast day.
// Threshold-driven and deterministic so fallback output stays reproducible.
func adviceFor(d model.DailyForecast) string {
	switch {
	case d.RainfallMM >= heavyRainMM:
		return "Heavy rain expected; ensure field drainage and postpone fertilizer application."
	case d.RainProbability >= 70:
		return "High chance of rain; delay spraying and plan harvest around showers."
	case d.MaxTemp >= heatAlertTemp:
		return "Extreme heat; irrigate in early morning or evening to reduce evaporation loss."
	case d.MinTemp <= coldAlertTemp:
		return "Cold snap possible; protect seedlings and nurseries overnight."
	case d.WindSpeed >= highWindSpeed:
		return "Strong winds forecast; stake tall crops and avoid spraying."
	case d.UVIndex >= highUVThreshold:
		return "Very high UV; schedule field work outside midday hours."
	case d.RainfallMM < irrigationRain:
		return "Dry day ahead; good window for spraying and irrigation as needed."
	default:
		return "Conditions normal; proceed with routine field operations."
	}
}

// alertsFor scans current conditions plus the forecast for farming alerts.
func alertsFor(cur model.CurrentWeather, forecast []model.DailyForecast) []string {
	var alerts []string

	if cur.Temperature >= heatAlertTemp {
		alerts = append(alerts, fmt.Sprintf("Heat alert: current temperature %.1f°C; avoid midday field work.", cur.Temperature))
	}
	if cur.WindSpeed >= highWindSpeed {
		alerts = append(alerts, fmt.Sprintf("Wind alert: current wind speed %.0f km/h; do not spray.", cur.WindSpeed))
	}

	var rainDays int
	var totalRain float64
	for _, d := range forecast {
		totalRain += d.RainfallMM
		if d.RainfallMM >= heavyRainMM {
			alerts = append(alerts, fmt.Sprintf("Heavy rain alert for %s: %.0f mm expected.", d.Date, d.RainfallMM))
		}
		if d.RainProbability >= 70 {
			rainDays++
		}
	}
	if rainDays >= 3 {
		alerts = append(alerts, fmt.Sprintf("Wet spell ahead: rain likely on %d of the next %d days.", rainDays, len(forecast)))
	}
	if len(forecast) >= 5 && totalRain < 1 {
		alerts = append(alerts, "Dry spell ahead: plan irrigation for the coming week.")
	}

	return alerts
}
