// Package advisor orchestrates the signal services and the scoring engine
// into ranked crop recommendations. It owns the request-level join timeout:
// signal fetches that overrun it are abandoned in favor of the synthetic
// generators, so a recommendation is always produced.
package advisor

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/agrosense/crop-advisor/internal/cache"
	"github.com/agrosense/crop-advisor/internal/market"
	"github.com/agrosense/crop-advisor/internal/model"
	"github.com/agrosense/crop-advisor/internal/refdata"
	"github.com/agrosense/crop-advisor/internal/scoring"
	"github.com/agrosense/crop-advisor/internal/source"
	"github.com/agrosense/crop-advisor/internal/weather"
	"github.com/agrosense/crop-advisor/pkg/geocode"
)

// DefaultJoinTimeout bounds the combined weather + price acquisition per
// recommendation request. Individual adapter attempts have their own
// shorter timeouts; this is the outer ceiling.
const DefaultJoinTimeout = 12 * time.Second

// DefaultTopN is the number of recommendations returned when the caller
// does not ask for a specific count.
const DefaultTopN = 5

// maxTopCrops caps the quote list on the price surface.
const maxTopCrops = 10

// Query is one recommendation request.
type Query struct {
	Location string
	Season   string
	SoilType string
	TopN     int
}

// Service wires geocoding, the signal services, and the scoring engine.
type Service struct {
	geo     geocode.Client
	weather *weather.Service
	market  *market.Service
	engine  *scoring.Engine
	ref     *refdata.Dataset

	weatherSynth *weather.Synthetic
	marketSynth  *market.Synthetic

	joinTimeout time.Duration
	now         func() time.Time
}

// Option configures the advisor service.
type Option func(*Service)

// WithJoinTimeout overrides the outer acquisition deadline.
func WithJoinTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.joinTimeout = d
		}
	}
}

// WithClock injects a time source for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New creates an advisor service over the given signal services.
func New(geo geocode.Client, ws *weather.Service, ms *market.Service, engine *scoring.Engine, ref *refdata.Dataset, opts ...Option) *Service {
	s := &Service{
		geo:          geo,
		weather:      ws,
		market:       ms,
		engine:       engine,
		ref:          ref,
		weatherSynth: weather.NewSynthetic(),
		marketSynth:  market.NewSynthetic(ref),
		joinTimeout:  DefaultJoinTimeout,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// signals is the joined acquisition result for one request.
type signals struct {
	weather model.WeatherSnapshot
	prices  market.Result
}

// acquire fetches weather and prices in parallel under the join timeout.
// A fetch that overruns the deadline is abandoned and both signals are
// synthesized, so the caller never blocks past the ceiling.
func (s *Service) acquire(ctx context.Context, loc model.Location, crop string) signals {
	done := make(chan signals, 1)

	go func() {
		var sig signals
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			sig.weather = s.weather.Snapshot(gctx, loc)
			return nil
		})
		g.Go(func() error {
			sig.prices = s.market.Quotes(gctx, loc, crop, "")
			return nil
		})
		g.Wait()
		done <- sig
	}()

	select {
	case sig := <-done:
		return sig
	case <-time.After(s.joinTimeout):
	case <-ctx.Done():
	}

	zap.L().Warn("advisor: acquisition overran join timeout, synthesizing signals",
		zap.String("location", loc.ResolvedName),
		zap.Duration("timeout", s.joinTimeout),
	)
	asOf := s.now()
	snap := s.weatherSynth.Synthesize(loc, nil, asOf)
	snap.DataSource = weather.SyntheticName
	snap.Status = model.StatusFallback

	params := source.Params{}
	if crop != "" {
		params["crop"] = crop
	}
	quotes := s.marketSynth.Synthesize(loc, params, asOf)
	for i := range quotes {
		quotes[i].Status = model.StatusFallback
	}
	return signals{
		weather: snap,
		prices: market.Result{
			Quotes:     quotes,
			DataSource: market.SyntheticName,
			Status:     model.StatusFallback,
		},
	}
}

// Recommend produces ranked crop recommendations for a query. The only
// error path is an unparseable season; signal degradation is reported via
// the envelope, never as an error.
func (s *Service) Recommend(ctx context.Context, q Query) (model.RecommendationResponse, error) {
	season, ok := refdata.ParseSeason(q.Season)
	if !ok {
		return model.RecommendationResponse{}, eris.Errorf("advisor: unknown season %q", q.Season)
	}
	now := s.now()
	if season == "" {
		season = refdata.SeasonForMonth(now.Month())
	}

	topN := q.TopN
	if topN <= 0 {
		topN = DefaultTopN
	}

	loc := s.geo.Resolve(ctx, q.Location)
	sig := s.acquire(ctx, loc, "")

	candidates := s.score(loc, season, q.SoilType, sig, now)
	recs := scoring.Rank(candidates, topN)

	resp := model.RecommendationResponse{
		Envelope:        model.NewEnvelope(joinStatus(sig), joinSource(sig), now),
		Location:        loc,
		Season:          string(season),
		SoilType:        strings.ToLower(strings.TrimSpace(q.SoilType)),
		Recommendations: recs,
	}
	return resp, nil
}

// score builds a scored candidate per season-eligible crop, pairing live
// quotes with reference-derived trends and profit projections.
func (s *Service) score(loc model.Location, season refdata.Season, soilType string, sig signals, now time.Time) []scoring.ScoredCrop {
	quotesByCrop := make(map[string]model.MarketPriceQuote, len(sig.prices.Quotes))
	for _, q := range sig.prices.Quotes {
		key := strings.ToLower(q.CropName)
		if _, seen := quotesByCrop[key]; !seen {
			quotesByCrop[key] = q
		}
	}

	crops := s.ref.ForSeason(season)
	candidates := make([]scoring.ScoredCrop, 0, len(crops))
	for _, c := range crops {
		trend := market.TrendFor(c, now.Month())
		breakdown := s.engine.Score(c, scoring.Inputs{
			SoilType: soilType,
			Weather:  &sig.weather,
			Trend:    &trend,
		})

		price := s.forecastPrice(c, quotesByCrop, loc, now)
		profit := scoring.EstimateProfit(c, soilType, price)

		candidates = append(candidates, scoring.ScoredCrop{
			Crop:      c,
			Breakdown: breakdown,
			Profit:    profit,
		})
	}
	return candidates
}

// forecastPrice is the modal price used for revenue projection: the live
// quote when the mandi feed carried one for this crop, otherwise the
// synthetic reference quote.
func (s *Service) forecastPrice(c *refdata.CropProfile, quotes map[string]model.MarketPriceQuote, loc model.Location, now time.Time) float64 {
	if q, ok := quotes[strings.ToLower(c.Name)]; ok && q.ModalPrice > 0 {
		return q.ModalPrice
	}
	return s.marketSynth.QuoteFor(c, loc, now).ModalPrice
}

// Weather resolves a location and returns its weather surface.
func (s *Service) Weather(ctx context.Context, location string) model.WeatherResponse {
	loc := s.geo.Resolve(ctx, location)
	snap := s.weather.Snapshot(ctx, loc)
	resp := model.WeatherResponse{
		Envelope:      model.NewEnvelope(snap.Status, snap.DataSource, s.now()),
		Location:      loc,
		Current:       snap.Current,
		Forecast7Day:  snap.Forecast,
		FarmingAlerts: snap.FarmingAlerts,
	}
	return resp
}

// Prices resolves a location and returns its mandi price surface, quotes
// ordered by premium over MSP.
func (s *Service) Prices(ctx context.Context, location, crop, mandi string) model.PricesResponse {
	loc := s.geo.Resolve(ctx, location)
	res := s.market.Quotes(ctx, loc, crop, mandi)

	quotes := make([]model.MarketPriceQuote, len(res.Quotes))
	copy(quotes, res.Quotes)
	sort.SliceStable(quotes, func(i, j int) bool {
		return quotes[i].ProfitVsMSP > quotes[j].ProfitVsMSP
	})
	if len(quotes) > maxTopCrops {
		quotes = quotes[:maxTopCrops]
	}

	return model.PricesResponse{
		Envelope: model.NewEnvelope(res.Status, res.DataSource, s.now()),
		Location: loc,
		TopCrops: quotes,
	}
}

// CacheStats reports per-signal cache statistics for the health surface.
func (s *Service) CacheStats() map[string]cache.Stats {
	return map[string]cache.Stats{
		"weather": s.weather.Stats(),
		"prices":  s.market.Stats(),
	}
}

// joinStatus degrades the envelope when either signal fell back.
func joinStatus(sig signals) model.Status {
	if sig.weather.Status == model.StatusFallback || sig.prices.Status == model.StatusFallback {
		return model.StatusFallback
	}
	return model.StatusSuccess
}

// joinSource names both contributing sources.
func joinSource(sig signals) string {
	return "weather=" + sig.weather.DataSource + ",prices=" + sig.prices.DataSource
}
