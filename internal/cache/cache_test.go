package cache

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrFetchCachesWithinTTL(t *testing.T) {
	c := New[string](8, time.Minute)

	var calls int
	fetch := func(ctx context.Context) (string, error) {
		calls++
		return "v1", nil
	}

	v, err := c.GetOrFetch(context.Background(), "k", fetch)
	require.NoError(t, err)
	assert.Equal(t, "v1", v)

	// Second read must not invoke fetch again.
	v, err = c.GetOrFetch(context.Background(), "k", fetch)
	require.NoError(t, err)
	assert.Equal(t, "v1", v)
	assert.Equal(t, 1, calls)
}

func TestGetOrFetchExpiresAfterTTL(t *testing.T) {
	now := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	c := New[string](8, 5*time.Minute).WithClock(func() time.Time { return now })

	var calls int
	fetch := func(ctx context.Context) (string, error) {
		calls++
		return fmt.Sprintf("v%d", calls), nil
	}

	v, _ := c.GetOrFetch(context.Background(), "k", fetch)
	assert.Equal(t, "v1", v)

	// Still fresh just inside the TTL.
	now = now.Add(5 * time.Minute)
	v, _ = c.GetOrFetch(context.Background(), "k", fetch)
	assert.Equal(t, "v1", v)

	// Stale one tick past the TTL.
	now = now.Add(time.Nanosecond)
	v, _ = c.GetOrFetch(context.Background(), "k", fetch)
	assert.Equal(t, "v2", v)
	assert.Equal(t, 2, calls)
}

func TestErrorsAreNotCached(t *testing.T) {
	c := New[string](8, time.Minute)

	var calls int
	fetch := func(ctx context.Context) (string, error) {
		calls++
		if calls == 1 {
			return "", fmt.Errorf("upstream down")
		}
		return "ok", nil
	}

	_, err := c.GetOrFetch(context.Background(), "k", fetch)
	require.Error(t, err)
	assert.Equal(t, 0, c.Len())

	v, err := c.GetOrFetch(context.Background(), "k", fetch)
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
	assert.Equal(t, 2, calls)
}

func TestLRUEviction(t *testing.T) {
	c := New[int](2, time.Minute)
	ctx := context.Background()

	fetchN := func(n int) func(context.Context) (int, error) {
		return func(context.Context) (int, error) { return n, nil }
	}

	c.GetOrFetch(ctx, "a", fetchN(1))
	c.GetOrFetch(ctx, "b", fetchN(2))

	// Touch "a" so "b" becomes the eviction candidate.
	c.GetOrFetch(ctx, "a", fetchN(-1))

	c.GetOrFetch(ctx, "c", fetchN(3))
	assert.Equal(t, 2, c.Len())

	var aCalls, bCalls int
	c.GetOrFetch(ctx, "a", func(context.Context) (int, error) { aCalls++; return -1, nil })
	c.GetOrFetch(ctx, "b", func(context.Context) (int, error) { bCalls++; return -2, nil })
	assert.Equal(t, 0, aCalls, "a should have survived")
	assert.Equal(t, 1, bCalls, "b should have been evicted")
}

func TestConcurrentCallersShareOneFetch(t *testing.T) {
	c := New[string](8, time.Minute)

	var calls atomic.Int64
	release := make(chan struct{})
	fetch := func(ctx context.Context) (string, error) {
		calls.Add(1)
		<-release
		return "shared", nil
	}

	const n = 16
	var wg sync.WaitGroup
	results := make([]string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := c.GetOrFetch(context.Background(), "k", fetch)
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}

	// Let the goroutines pile onto the key, then release the fetch.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.LessOrEqual(t, calls.Load(), int64(2), "concurrent callers must coalesce")
	for _, v := range results {
		assert.Equal(t, "shared", v)
	}
}

func TestStats(t *testing.T) {
	c := New[string](8, time.Minute)
	ctx := context.Background()

	fetch := func(context.Context) (string, error) { return "v", nil }

	c.GetOrFetch(ctx, "k", fetch) // miss
	c.GetOrFetch(ctx, "k", fetch) // hit
	c.GetOrFetch(ctx, "k", fetch) // hit

	st := c.Stats()
	assert.Equal(t, 1, st.Entries)
	assert.Equal(t, 8, st.MaxEntries)
	assert.Equal(t, int64(2), st.Hits)
	assert.Equal(t, int64(1), st.Misses)
	assert.InDelta(t, 2.0/3.0, st.HitRate, 1e-9)
}
