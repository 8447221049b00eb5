package weather

import (
	"context"
	"fmt"
	"time"

	"github.com/agrosense/crop-advisor/internal/cache"
	"github.com/agrosense/crop-advisor/internal/model"
	"github.com/agrosense/crop-advisor/internal/source"
)

// Service is the cached weather surface: ResponseCache in front of the
// fallback chain. Snapshot never fails — the chain's terminal stage is the
// synthetic generator.
type Service struct {
	chain *source.Chain[model.WeatherSnapshot]
	cache *cache.Cache[model.WeatherSnapshot]
}

// NewService wires a chain behind a cache.
func NewService(chain *source.Chain[model.WeatherSnapshot], c *cache.Cache[model.WeatherSnapshot]) *Service {
	return &Service{chain: chain, cache: c}
}

// DefaultCache returns the weather response cache: longer TTL than market
// prices since forecasts move slowly.
func DefaultCache(maxEntries int, ttl time.Duration) *cache.Cache[model.WeatherSnapshot] {
	if maxEntries <= 0 {
		maxEntries = 512
	}
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return cache.New[model.WeatherSnapshot](maxEntries, ttl)
}

// Snapshot returns the weather for a location, cached by coordinates.
func (s *Service) Snapshot(ctx context.Context, loc model.Location) model.WeatherSnapshot {
	key := cacheKey(loc)
	snap, err := s.cache.GetOrFetch(ctx, key, func(ctx context.Context) (model.WeatherSnapshot, error) {
		rec, res := s.chain.Resolve(ctx, loc, nil)
		rec.DataSource = res.Source
		rec.Status = res.Status
		return rec, nil
	})
	if err != nil {
		// Unreachable: the chain never errors. Kept for interface symmetry.
		rec, res := s.chain.Resolve(ctx, loc, nil)
		rec.DataSource = res.Source
		rec.Status = res.Status
		return rec
	}
	return snap
}

// Stats exposes cache statistics for the health surface.
func (s *Service) Stats() cache.Stats {
	return s.cache.Stats()
}

// cacheKey composes the signal type with the resolved coordinates, rounded
// so nearby lookups for the same town share an entry.
func cacheKey(loc model.Location) string {
	return fmt.Sprintf("weather|%.3f|%.3f", loc.Latitude, loc.Longitude)
}
