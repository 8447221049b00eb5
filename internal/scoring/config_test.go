package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultWeightsSumToOne(t *testing.T) {
	w := DefaultWeights()
	assert.InDelta(t, 1.0, w.Sum(), 1e-9)
	assert.NoError(t, w.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		weights Weights
		wantErr bool
	}{
		{"defaults", DefaultWeights(), false},
		{"custom valid", Weights{Weather: 0.3, Price: 0.3, Soil: 0.2, Cost: 0.1, Duration: 0.05, History: 0.05}, false},
		{"sum too high", Weights{Weather: 0.5, Price: 0.5, Soil: 0.2}, true},
		{"sum too low", Weights{Weather: 0.5}, true},
		{"negative component", Weights{Weather: 0.5, Price: 0.5, Soil: 0.2, Cost: -0.2}, true},
		{"all zero", Weights{}, true},
		{"within tolerance", Weights{Weather: 0.25, Price: 0.25, Soil: 0.2, Cost: 0.15, Duration: 0.1, History: 0.05}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.weights.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMapCarriesAllFactors(t *testing.T) {
	m := DefaultWeights().Map()
	assert.Len(t, m, 6)
	for _, key := range []string{"weather", "price", "soil", "cost", "duration", "history"} {
		assert.Contains(t, m, key)
	}
}
