package weather

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/agrosense/crop-advisor/internal/cache"
	"github.com/agrosense/crop-advisor/internal/model"
	"github.com/agrosense/crop-advisor/internal/source"
)

type fixedAdapter struct {
	fetches int
	snap    model.WeatherSnapshot
}

func (a *fixedAdapter) Name() string { return "fixed" }

func (a *fixedAdapter) Fetch(ctx context.Context, loc model.Location, params source.Params) (model.WeatherSnapshot, error) {
	a.fetches++
	return a.snap, nil
}

func TestServiceSnapshotCachesByCoordinates(t *testing.T) {
	adapter := &fixedAdapter{snap: model.WeatherSnapshot{Current: model.CurrentWeather{Temperature: 31}}}
	chain := source.NewChain[model.WeatherSnapshot](NewSynthetic(), adapter)
	svc := NewService(chain, cache.New[model.WeatherSnapshot](8, time.Minute))

	loc := nagpur()
	first := svc.Snapshot(context.Background(), loc)
	assert.Equal(t, "fixed", first.DataSource)
	assert.Equal(t, model.StatusSuccess, first.Status)
	assert.Equal(t, 31.0, first.Current.Temperature)

	svc.Snapshot(context.Background(), loc)
	assert.Equal(t, 1, adapter.fetches, "repeat lookup must come from cache")

	// Nearby coordinates rounding to the same key share the entry.
	nearby := loc
	nearby.Latitude += 0.0004
	svc.Snapshot(context.Background(), nearby)
	assert.Equal(t, 1, adapter.fetches)

	// A genuinely different location misses.
	pune := model.Location{Latitude: 18.5204, Longitude: 73.8567, ResolvedName: "Pune"}
	svc.Snapshot(context.Background(), pune)
	assert.Equal(t, 2, adapter.fetches)
}

func TestServiceSnapshotFallbackStamping(t *testing.T) {
	chain := source.NewChain[model.WeatherSnapshot](NewSynthetic())
	svc := NewService(chain, cache.New[model.WeatherSnapshot](8, time.Minute))

	snap := svc.Snapshot(context.Background(), nagpur())
	assert.Equal(t, SyntheticName, snap.DataSource)
	assert.Equal(t, model.StatusFallback, snap.Status)
	assert.Len(t, snap.Forecast, model.MaxForecastDays)
}
