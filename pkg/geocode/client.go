// Package geocode resolves free-text place names to coordinates via an
// OSM-style HTTP provider (primary) with a static gazetteer fallback.
// Resolution never fails: unresolvable input yields a configured default
// location, so downstream code always has coordinates to work with.
package geocode

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/agrosense/crop-advisor/internal/model"
)

// Client resolves location text to coordinates.
type Client interface {
	// Resolve geocodes a free-text location. It never fails; unresolvable
	// input returns the default location.
	Resolve(ctx context.Context, text string) model.Location
}

// DefaultLocation is the hard-coded terminal fallback: Nagpur, the
// approximate geographic centre of India.
var DefaultLocation = model.Location{
	Latitude:     21.1458,
	Longitude:    79.0882,
	ResolvedName: "Nagpur",
	Region:       "Maharashtra",
}

// Option configures the geocoder.
type Option func(*geocoder)

// WithHTTPClient sets a custom HTTP client for provider requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(g *geocoder) { g.httpClient = hc }
}

// WithBaseURL overrides the OSM provider base URL.
func WithBaseURL(u string) Option {
	return func(g *geocoder) { g.baseURL = u }
}

// WithDefault overrides the terminal fallback location.
func WithDefault(loc model.Location) Option {
	return func(g *geocoder) { g.defaultLoc = loc }
}

type geocoder struct {
	httpClient *http.Client
	baseURL    string
	defaultLoc model.Location

	mu    sync.RWMutex
	cache map[string]model.Location
}

// NewClient creates a geocoding Client with the given options.
func NewClient(opts ...Option) Client {
	g := &geocoder{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    "https://nominatim.openstreetmap.org",
		defaultLoc: DefaultLocation,
		cache:      make(map[string]model.Location),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Resolve geocodes text, consulting the in-memory cache first. Name to
// coordinate mappings are stable, so entries never expire.
func (g *geocoder) Resolve(ctx context.Context, text string) model.Location {
	key := strings.ToLower(strings.TrimSpace(text))
	if key == "" {
		return g.defaultLoc
	}

	g.mu.RLock()
	cached, ok := g.cache[key]
	g.mu.RUnlock()
	if ok {
		return cached
	}

	loc, err := g.resolveOSM(ctx, text)
	if err == nil && loc.Region == "" {
		// Display names like "Delhi, India" carry no state component;
		// annotate from the nearest gazetteer entry instead.
		_, loc.Region = NearestPlace(loc.Latitude, loc.Longitude)
	}
	if err != nil {
		zap.L().Debug("geocode: provider lookup failed, trying gazetteer",
			zap.String("query", text),
			zap.Error(err),
		)
		var found bool
		loc, found = gazetteerLookup(key)
		if !found {
			zap.L().Info("geocode: unresolvable location, using default",
				zap.String("query", text),
				zap.String("default", g.defaultLoc.ResolvedName),
			)
			loc = g.defaultLoc
		}
	}

	g.mu.Lock()
	g.cache[key] = loc
	g.mu.Unlock()
	return loc
}
