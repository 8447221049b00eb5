// Package source implements the multi-tier acquisition chain: adapters for
// live providers tried in strict priority order, each under a hard
// per-attempt timeout, with a deterministic synthetic generator as the
// terminal stage. The chain always produces a record.
package source

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/agrosense/crop-advisor/internal/model"
)

// Params carries per-request disambiguators (mandi name, crop filter).
type Params map[string]string

// Get returns the value for key, or "" when absent.
func (p Params) Get(key string) string {
	if p == nil {
		return ""
	}
	return p[key]
}

// Adapter fetches one normalized record from exactly one external
// provider. Implementations must not panic or let transport errors cross
// this boundary untyped: any failure is an ordinary error return, which
// the chain converts into progression to the next adapter.
type Adapter[T any] interface {
	Name() string
	Fetch(ctx context.Context, loc model.Location, params Params) (T, error)
}

// Synthesizer derives a record from static reference tables and the
// current calendar date. It must be pure: identical inputs on the same day
// produce identical output, with no randomness anywhere in the path.
type Synthesizer[T any] interface {
	Name() string
	Synthesize(loc model.Location, params Params, asOf time.Time) T
}

// Resolution describes where a chain result came from.
type Resolution struct {
	Source string
	Status model.Status
}

// Latch marks an adapter as permanently failed for the remainder of the
// process lifetime. Used for configuration errors (missing or rejected
// API key) so the chain never retries a provider that cannot succeed.
type Latch struct {
	tripped atomic.Bool
	reason  atomic.Value // string
}

// Trip latches the permanent failure with a short reason.
func (l *Latch) Trip(reason string) {
	l.reason.Store(reason)
	l.tripped.Store(true)
}

// Tripped reports whether the latch has fired.
func (l *Latch) Tripped() bool {
	return l.tripped.Load()
}

// Reason returns the trip reason, or "" if not tripped.
func (l *Latch) Reason() string {
	if r, ok := l.reason.Load().(string); ok {
		return r
	}
	return ""
}
