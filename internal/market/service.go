package market

import (
	"context"
	"fmt"
	"time"

	"github.com/agrosense/crop-advisor/internal/cache"
	"github.com/agrosense/crop-advisor/internal/model"
	"github.com/agrosense/crop-advisor/internal/source"
)

// Result is a priced quote set with its provenance.
type Result struct {
	Quotes     []model.MarketPriceQuote
	DataSource string
	Status     model.Status
}

// Service is the cached market price surface.
type Service struct {
	chain *source.Chain[[]model.MarketPriceQuote]
	cache *cache.Cache[Result]
}

// NewService wires a chain behind a cache.
func NewService(chain *source.Chain[[]model.MarketPriceQuote], c *cache.Cache[Result]) *Service {
	return &Service{chain: chain, cache: c}
}

// DefaultCache returns the market response cache: a short TTL because
// mandi prices move intraday.
func DefaultCache(maxEntries int, ttl time.Duration) *cache.Cache[Result] {
	if maxEntries <= 0 {
		maxEntries = 512
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return cache.New[Result](maxEntries, ttl)
}

// Quotes returns mandi prices for a location, optionally filtered by crop
// and mandi name. Never fails: the chain's terminal stage always answers.
func (s *Service) Quotes(ctx context.Context, loc model.Location, crop, mandi string) Result {
	params := source.Params{}
	if crop != "" {
		params["crop"] = crop
	}
	if mandi != "" {
		params["mandi"] = mandi
	}

	key := cacheKey(loc, crop, mandi)
	res, err := s.cache.GetOrFetch(ctx, key, func(ctx context.Context) (Result, error) {
		quotes, resolution := s.chain.Resolve(ctx, loc, params)
		return Result{
			Quotes:     stamp(quotes, resolution.Status),
			DataSource: resolution.Source,
			Status:     resolution.Status,
		}, nil
	})
	if err != nil {
		// Unreachable: the chain never errors. Kept for interface symmetry.
		quotes, resolution := s.chain.Resolve(ctx, loc, params)
		return Result{Quotes: stamp(quotes, resolution.Status), DataSource: resolution.Source, Status: resolution.Status}
	}
	return res
}

// Stats exposes cache statistics for the health surface.
func (s *Service) Stats() cache.Stats {
	return s.cache.Stats()
}

func stamp(quotes []model.MarketPriceQuote, status model.Status) []model.MarketPriceQuote {
	for i := range quotes {
		quotes[i].Status = status
	}
	return quotes
}

// cacheKey composes signal type, resolved location, and disambiguators.
func cacheKey(loc model.Location, crop, mandi string) string {
	return fmt.Sprintf("prices|%.3f|%.3f|%s|%s", loc.Latitude, loc.Longitude, crop, mandi)
}
