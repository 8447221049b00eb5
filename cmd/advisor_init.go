package main

import (
	"time"

	"github.com/agrosense/crop-advisor/internal/advisor"
	"github.com/agrosense/crop-advisor/internal/fetch"
	"github.com/agrosense/crop-advisor/internal/market"
	"github.com/agrosense/crop-advisor/internal/model"
	"github.com/agrosense/crop-advisor/internal/refdata"
	"github.com/agrosense/crop-advisor/internal/scoring"
	"github.com/agrosense/crop-advisor/internal/source"
	"github.com/agrosense/crop-advisor/internal/weather"
	"github.com/agrosense/crop-advisor/pkg/geocode"
)

// initAdvisor wires the geocoder, both signal chains with their caches, and
// the scoring engine into an advisor service from the loaded config.
func initAdvisor() (*advisor.Service, error) {
	ref, err := refdata.Default()
	if err != nil {
		return nil, err
	}

	if err := cfg.Scoring.Validate(); err != nil {
		return nil, err
	}

	client := fetch.NewClient(fetch.WithUserAgent("crop-advisor/1.0"))

	weatherChain := source.NewChain[model.WeatherSnapshot](
		weather.NewSynthetic(),
		weather.NewOpenMeteo(client, cfg.Weather.OpenMeteoURL),
		weather.NewWttr(client, cfg.Weather.WttrURL),
	)
	if secs := cfg.Weather.AttemptTimeoutSecs; secs > 0 {
		weatherChain = weatherChain.WithAttemptTimeout(time.Duration(secs) * time.Second)
	}
	weatherSvc := weather.NewService(weatherChain, weather.DefaultCache(
		cfg.Weather.CacheMaxEntries,
		time.Duration(cfg.Weather.CacheTTLMins)*time.Minute,
	))

	apiKey := cfg.Market.DataGovKey
	if apiKey == "" {
		apiKey = market.SampleAPIKey
	}
	marketAdapters := []source.Adapter[[]model.MarketPriceQuote]{
		market.NewDataGov(client, cfg.Market.DataGovURL, apiKey, ref),
	}
	if cfg.Market.MirrorURL != "" {
		marketAdapters = append(marketAdapters, market.NewMirror(client, cfg.Market.MirrorURL, ref))
	}
	marketChain := source.NewChain[[]model.MarketPriceQuote](market.NewSynthetic(ref), marketAdapters...)
	if secs := cfg.Market.AttemptTimeoutSecs; secs > 0 {
		marketChain = marketChain.WithAttemptTimeout(time.Duration(secs) * time.Second)
	}
	marketSvc := market.NewService(marketChain, market.DefaultCache(
		cfg.Market.CacheMaxEntries,
		time.Duration(cfg.Market.CacheTTLMins)*time.Minute,
	))

	geo := geocode.NewClient(geocode.WithBaseURL(cfg.Geocode.BaseURL))
	engine := scoring.NewEngine(cfg.Scoring, ref.CostCeilingPerAcre)

	var opts []advisor.Option
	if secs := cfg.Advisor.JoinTimeoutSecs; secs > 0 {
		opts = append(opts, advisor.WithJoinTimeout(time.Duration(secs)*time.Second))
	}
	return advisor.New(geo, weatherSvc, marketSvc, engine, ref, opts...), nil
}
