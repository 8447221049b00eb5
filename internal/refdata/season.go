package refdata

import (
	"strings"
	"time"
)

// Season is one of the three Indian cropping seasons.
type Season string

const (
	Kharif Season = "kharif" // monsoon, sown Jun–Sep
	Rabi   Season = "rabi"   // winter, sown Oct–Feb
	Zaid   Season = "zaid"   // short summer, sown Mar–May
)

// seasonAliases maps common spellings to canonical seasons.
var seasonAliases = map[string]Season{
	"kharif":  Kharif,
	"monsoon": Kharif,
	"rabi":    Rabi,
	"winter":  Rabi,
	"zaid":    Zaid,
	"zayad":   Zaid,
	"summer":  Zaid,
}

// ParseSeason resolves a free-text season name. Empty input parses to the
// empty season ("all seasons") successfully.
func ParseSeason(s string) (Season, bool) {
	trimmed := strings.ToLower(strings.TrimSpace(s))
	if trimmed == "" {
		return "", true
	}
	season, ok := seasonAliases[trimmed]
	return season, ok
}

// SeasonForMonth returns the cropping season a calendar month falls in.
func SeasonForMonth(m time.Month) Season {
	switch {
	case m >= time.June && m <= time.September:
		return Kharif
	case m >= time.March && m <= time.May:
		return Zaid
	default:
		return Rabi
	}
}
