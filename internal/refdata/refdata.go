// Package refdata holds the static crop reference dataset: soil
// preferences, climate ranges, duration calendars, base yields, input
// costs, MSPs, and per-month seasonal price premiums. The dataset is a
// single versioned YAML document embedded in the binary and loaded once
// at startup; it is read-only at runtime.
package refdata

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

//go:embed crops.yaml
var cropsYAML []byte

// Range is a closed numeric interval.
type Range struct {
	Min float64 `yaml:"min" json:"min"`
	Max float64 `yaml:"max" json:"max"`
}

// Contains reports whether v lies inside the interval.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Width returns the interval width.
func (r Range) Width() float64 {
	return r.Max - r.Min
}

// CropProfile is the static reference record for one crop. Prices are
// ₹/quintal, yields quintal/acre, costs ₹/acre.
type CropProfile struct {
	ID               string             `yaml:"id" json:"id"`
	Name             string             `yaml:"name" json:"name"`
	Seasons          []string           `yaml:"seasons" json:"seasons"`
	SoilPreferences  []string           `yaml:"soil_preferences" json:"soil_preferences"`
	PHRange          Range              `yaml:"ph_range" json:"ph_range"`
	TempRangeC       Range              `yaml:"temp_range_c" json:"temp_range_c"`
	RainfallRangeMM  Range              `yaml:"rainfall_range_mm" json:"rainfall_range_mm"`
	DurationDays     int                `yaml:"duration_days" json:"duration_days"`
	BaseYieldBySoil  map[string]float64 `yaml:"base_yield_by_soil" json:"base_yield_by_soil"`
	DefaultYield     float64            `yaml:"default_yield" json:"default_yield"`
	InputCostPerAcre float64            `yaml:"input_cost_per_acre" json:"input_cost_per_acre"`
	MSP              float64            `yaml:"msp" json:"msp"`
	// ReferencePrice backs the synthetic price generator for crops without
	// an MSP. Zero means "use MSP".
	ReferencePrice   float64   `yaml:"reference_price" json:"reference_price,omitempty"`
	SeasonalPremium  []float64 `yaml:"seasonal_premium" json:"seasonal_premium"`
	PerformanceTrend string    `yaml:"performance_trend" json:"performance_trend"`
}

// BasePrice returns the government-published reference price used by the
// synthetic generator: the MSP when announced, otherwise ReferencePrice.
func (c *CropProfile) BasePrice() float64 {
	if c.MSP > 0 {
		return c.MSP
	}
	return c.ReferencePrice
}

// YieldForSoil returns the expected yield on the given soil type,
// falling back to the crop's default yield for unlisted soils.
func (c *CropProfile) YieldForSoil(soil string) float64 {
	if y, ok := c.BaseYieldBySoil[strings.ToLower(strings.TrimSpace(soil))]; ok {
		return y
	}
	return c.DefaultYield
}

// GrowsIn reports whether the crop's sowing calendar includes the season.
func (c *CropProfile) GrowsIn(s Season) bool {
	for _, cs := range c.Seasons {
		if Season(cs) == s {
			return true
		}
	}
	return false
}

// Dataset is the loaded reference table.
type Dataset struct {
	Version            int           `yaml:"version"`
	CostCeilingPerAcre float64       `yaml:"cost_ceiling_per_acre"`
	Crops              []CropProfile `yaml:"crops"`

	byID map[string]*CropProfile
}

// Load parses and validates the embedded dataset.
func Load() (*Dataset, error) {
	return load(cropsYAML)
}

func load(raw []byte) (*Dataset, error) {
	var ds Dataset
	if err := yaml.Unmarshal(raw, &ds); err != nil {
		return nil, eris.Wrap(err, "refdata: parse dataset")
	}
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	ds.byID = make(map[string]*CropProfile, len(ds.Crops))
	for i := range ds.Crops {
		ds.byID[ds.Crops[i].ID] = &ds.Crops[i]
	}
	return &ds, nil
}

var (
	defaultOnce sync.Once
	defaultDS   *Dataset
	defaultErr  error
)

// Default returns the process-wide dataset, loading it on first use.
func Default() (*Dataset, error) {
	defaultOnce.Do(func() {
		defaultDS, defaultErr = Load()
	})
	return defaultDS, defaultErr
}

// Validate checks the dataset invariants: 12-entry premium tables,
// positive base prices, sane ranges, non-empty soil preferences.
func (d *Dataset) Validate() error {
	if d.Version <= 0 {
		return eris.New("refdata: dataset version missing")
	}
	if d.CostCeilingPerAcre <= 0 {
		return eris.New("refdata: cost ceiling must be positive")
	}
	if len(d.Crops) == 0 {
		return eris.New("refdata: no crops defined")
	}

	var errs []string
	seen := make(map[string]bool)
	for i := range d.Crops {
		c := &d.Crops[i]
		if c.ID == "" {
			errs = append(errs, fmt.Sprintf("crop %d: missing id", i))
			continue
		}
		if seen[c.ID] {
			errs = append(errs, fmt.Sprintf("%s: duplicate id", c.ID))
		}
		seen[c.ID] = true

		if len(c.SeasonalPremium) != 12 {
			errs = append(errs, fmt.Sprintf("%s: seasonal_premium must have 12 entries, got %d", c.ID, len(c.SeasonalPremium)))
		}
		for m, p := range c.SeasonalPremium {
			if p <= 0 {
				errs = append(errs, fmt.Sprintf("%s: seasonal_premium[%d] must be positive", c.ID, m))
			}
		}
		if c.BasePrice() <= 0 {
			errs = append(errs, fmt.Sprintf("%s: needs msp or reference_price", c.ID))
		}
		if len(c.SoilPreferences) == 0 {
			errs = append(errs, fmt.Sprintf("%s: soil_preferences empty", c.ID))
		}
		if c.DurationDays <= 0 {
			errs = append(errs, fmt.Sprintf("%s: duration_days must be positive", c.ID))
		}
		if c.DefaultYield <= 0 {
			errs = append(errs, fmt.Sprintf("%s: default_yield must be positive", c.ID))
		}
		if c.TempRangeC.Width() <= 0 || c.RainfallRangeMM.Width() <= 0 || c.PHRange.Width() <= 0 {
			errs = append(errs, fmt.Sprintf("%s: degenerate range", c.ID))
		}
		for _, s := range c.Seasons {
			if _, ok := ParseSeason(s); !ok {
				errs = append(errs, fmt.Sprintf("%s: unknown season %q", c.ID, s))
			}
		}
		switch c.PerformanceTrend {
		case "improving", "stable", "declining":
		default:
			errs = append(errs, fmt.Sprintf("%s: unknown performance_trend %q", c.ID, c.PerformanceTrend))
		}
	}
	if len(errs) > 0 {
		return eris.Errorf("refdata: dataset validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Crop returns the profile for an id, or nil if unknown.
func (d *Dataset) Crop(id string) *CropProfile {
	return d.byID[strings.ToLower(strings.TrimSpace(id))]
}

// Match resolves a free-text commodity name (id, display name, or a
// provider spelling containing one of those) to a profile.
func (d *Dataset) Match(name string) *CropProfile {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return nil
	}
	if c, ok := d.byID[needle]; ok {
		return c
	}
	for i := range d.Crops {
		c := &d.Crops[i]
		lower := strings.ToLower(c.Name)
		if lower == needle || strings.Contains(needle, c.ID) || strings.Contains(lower, needle) {
			return c
		}
	}
	return nil
}

// ForSeason returns profiles whose sowing calendar includes the season.
// The empty season returns all crops.
func (d *Dataset) ForSeason(s Season) []*CropProfile {
	var out []*CropProfile
	for i := range d.Crops {
		if s == "" || d.Crops[i].GrowsIn(s) {
			out = append(out, &d.Crops[i])
		}
	}
	return out
}
