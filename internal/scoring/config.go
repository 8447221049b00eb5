// Package scoring implements the multi-factor suitability engine: six
// per-crop factor scores combined by a fixed weight table into a composite
// in [0,1], an independent expected-profit estimate, and the ranked,
// explainable recommendation list.
package scoring

import (
	"fmt"
	"math"
	"strings"

	"github.com/rotisserie/eris"
)

// weightTolerance is the allowed floating-point drift in the weight sum.
const weightTolerance = 1e-9

// Weights is the factor weight table. It must sum to exactly 1.0 so a
// missing factor substituted with the neutral 0.5 cannot skew the
// composite.
type Weights struct {
	Weather  float64 `yaml:"weather" mapstructure:"weather" json:"weather"`
	Price    float64 `yaml:"price" mapstructure:"price" json:"price"`
	Soil     float64 `yaml:"soil" mapstructure:"soil" json:"soil"`
	Cost     float64 `yaml:"cost" mapstructure:"cost" json:"cost"`
	Duration float64 `yaml:"duration" mapstructure:"duration" json:"duration"`
	History  float64 `yaml:"history" mapstructure:"history" json:"history"`
}

// DefaultWeights returns the standard allocation.
func DefaultWeights() Weights {
	return Weights{
		Weather:  0.25,
		Price:    0.25,
		Soil:     0.20,
		Cost:     0.15,
		Duration: 0.10,
		History:  0.05,
	}
}

// Sum returns the total of all component weights.
func (w Weights) Sum() float64 {
	return w.Weather + w.Price + w.Soil + w.Cost + w.Duration + w.History
}

// Map returns the weight table keyed by factor name, as carried on every
// ScoreBreakdown.
func (w Weights) Map() map[string]float64 {
	return map[string]float64{
		"weather":  w.Weather,
		"price":    w.Price,
		"soil":     w.Soil,
		"cost":     w.Cost,
		"duration": w.Duration,
		"history":  w.History,
	}
}

// Validate checks that the table is usable: non-negative components
// summing to 1.0 within tolerance.
func (w Weights) Validate() error {
	var errs []string
	for name, v := range w.Map() {
		if v < 0 {
			errs = append(errs, fmt.Sprintf("%s weight must be >= 0", name))
		}
	}
	if sum := w.Sum(); math.Abs(sum-1.0) > weightTolerance {
		errs = append(errs, fmt.Sprintf("weights must sum to 1.0, got %.12f", sum))
	}
	if len(errs) > 0 {
		return eris.Errorf("scoring: weight validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
