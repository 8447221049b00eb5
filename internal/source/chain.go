package source

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/agrosense/crop-advisor/internal/model"
)

// DefaultAttemptTimeout bounds a single adapter attempt. An attempt that
// exceeds it is treated exactly like a failure and the chain moves on.
const DefaultAttemptTimeout = 8 * time.Second

// Chain tries adapters in priority order, returning the first success. If
// every adapter fails, the synthesizer answers — so Resolve never fails.
// There are no retries within an adapter; retry means trying the next one.
type Chain[T any] struct {
	adapters       []Adapter[T]
	synth          Synthesizer[T]
	attemptTimeout time.Duration
	now            func() time.Time
}

// NewChain creates a chain over the given adapters with the synthesizer as
// terminal stage. Adapter order is priority order.
func NewChain[T any](synth Synthesizer[T], adapters ...Adapter[T]) *Chain[T] {
	return &Chain[T]{
		adapters:       adapters,
		synth:          synth,
		attemptTimeout: DefaultAttemptTimeout,
		now:            time.Now,
	}
}

// WithAttemptTimeout overrides the per-adapter wall-clock ceiling.
func (c *Chain[T]) WithAttemptTimeout(d time.Duration) *Chain[T] {
	if d > 0 {
		c.attemptTimeout = d
	}
	return c
}

// WithClock sets a fixed clock for testing.
func (c *Chain[T]) WithClock(now func() time.Time) *Chain[T] {
	c.now = now
	return c
}

// Resolve walks the chain. The returned Resolution names the adapter that
// answered; Status is StatusFallback only for the synthetic stage.
func (c *Chain[T]) Resolve(ctx context.Context, loc model.Location, params Params) (T, Resolution) {
	for _, a := range c.adapters {
		attemptCtx, cancel := context.WithTimeout(ctx, c.attemptTimeout)
		record, err := a.Fetch(attemptCtx, loc, params)
		cancel()
		if err == nil {
			return record, Resolution{Source: a.Name(), Status: model.StatusSuccess}
		}
		zap.L().Debug("source: adapter failed, trying next",
			zap.String("adapter", a.Name()),
			zap.String("location", loc.ResolvedName),
			zap.Error(err),
		)
	}

	zap.L().Info("source: all live adapters exhausted, using synthetic generator",
		zap.String("generator", c.synth.Name()),
		zap.String("location", loc.ResolvedName),
	)
	record := c.synth.Synthesize(loc, params, c.now())
	return record, Resolution{Source: c.synth.Name(), Status: model.StatusFallback}
}
