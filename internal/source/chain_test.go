package source

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/agrosense/crop-advisor/internal/model"
)

type stubAdapter struct {
	name    string
	value   string
	err     error
	block   bool // sleep until the attempt context is cancelled
	fetches int
}

func (a *stubAdapter) Name() string { return a.name }

func (a *stubAdapter) Fetch(ctx context.Context, loc model.Location, params Params) (string, error) {
	a.fetches++
	if a.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if a.err != nil {
		return "", a.err
	}
	return a.value, nil
}

type stubSynth struct {
	name  string
	calls int
}

func (s *stubSynth) Name() string { return s.name }

func (s *stubSynth) Synthesize(loc model.Location, params Params, asOf time.Time) string {
	s.calls++
	return "synthetic"
}

func testLoc() model.Location {
	return model.Location{Latitude: 21.1458, Longitude: 79.0882, ResolvedName: "Nagpur"}
}

func TestResolveFirstAdapterWins(t *testing.T) {
	primary := &stubAdapter{name: "primary", value: "live"}
	secondary := &stubAdapter{name: "secondary", value: "other"}
	synth := &stubSynth{name: "synth"}

	chain := NewChain[string](synth, primary, secondary)
	v, res := chain.Resolve(context.Background(), testLoc(), nil)

	assert.Equal(t, "live", v)
	assert.Equal(t, "primary", res.Source)
	assert.Equal(t, model.StatusSuccess, res.Status)
	assert.Equal(t, 0, secondary.fetches, "secondary must not be tried")
	assert.Equal(t, 0, synth.calls)
}

func TestResolveFallsThroughToSecondary(t *testing.T) {
	primary := &stubAdapter{name: "primary", err: fmt.Errorf("503")}
	secondary := &stubAdapter{name: "secondary", value: "from-secondary"}
	synth := &stubSynth{name: "synth"}

	chain := NewChain[string](synth, primary, secondary)
	v, res := chain.Resolve(context.Background(), testLoc(), nil)

	assert.Equal(t, "from-secondary", v)
	assert.Equal(t, "secondary", res.Source)
	assert.Equal(t, model.StatusSuccess, res.Status, "a secondary success is still a success")
	assert.Equal(t, 1, primary.fetches)
	assert.Equal(t, 0, synth.calls)
}

func TestResolveExhaustedUsesSynthesizer(t *testing.T) {
	primary := &stubAdapter{name: "primary", err: fmt.Errorf("timeout")}
	secondary := &stubAdapter{name: "secondary", err: fmt.Errorf("bad json")}
	synth := &stubSynth{name: "seasonal-normals"}

	chain := NewChain[string](synth, primary, secondary)
	v, res := chain.Resolve(context.Background(), testLoc(), nil)

	assert.Equal(t, "synthetic", v)
	assert.Equal(t, "seasonal-normals", res.Source)
	assert.Equal(t, model.StatusFallback, res.Status)
	assert.Equal(t, 1, synth.calls)
}

func TestResolveEnforcesAttemptTimeout(t *testing.T) {
	hung := &stubAdapter{name: "hung", block: true}
	secondary := &stubAdapter{name: "secondary", value: "rescued"}
	synth := &stubSynth{name: "synth"}

	chain := NewChain[string](synth, hung, secondary).WithAttemptTimeout(20 * time.Millisecond)

	start := time.Now()
	v, res := chain.Resolve(context.Background(), testLoc(), nil)

	assert.Equal(t, "rescued", v)
	assert.Equal(t, "secondary", res.Source)
	assert.Less(t, time.Since(start), 2*time.Second, "hung adapter must be cut off by the attempt timeout")
}

func TestResolveSynthesizerUsesInjectedClock(t *testing.T) {
	fixed := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	primary := &stubAdapter{name: "primary", err: fmt.Errorf("down")}

	var seen time.Time
	synth := &clockSynth{onSynthesize: func(asOf time.Time) { seen = asOf }}

	chain := NewChain[string](synth, primary).WithClock(func() time.Time { return fixed })
	chain.Resolve(context.Background(), testLoc(), nil)

	assert.Equal(t, fixed, seen)
}

type clockSynth struct {
	onSynthesize func(asOf time.Time)
}

func (s *clockSynth) Name() string { return "clock-synth" }

func (s *clockSynth) Synthesize(loc model.Location, params Params, asOf time.Time) string {
	s.onSynthesize(asOf)
	return "synthetic"
}

func TestLatch(t *testing.T) {
	var l Latch
	assert.False(t, l.Tripped())
	assert.Empty(t, l.Reason())

	l.Trip("api key rejected")
	assert.True(t, l.Tripped())
	assert.Equal(t, "api key rejected", l.Reason())
}

func TestParamsGet(t *testing.T) {
	var nilParams Params
	assert.Empty(t, nilParams.Get("crop"))

	p := Params{"crop": "wheat"}
	assert.Equal(t, "wheat", p.Get("crop"))
	assert.Empty(t, p.Get("mandi"))
}
