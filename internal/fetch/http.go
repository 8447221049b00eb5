// Package fetch is the shared outbound HTTP layer for source adapters:
// per-host rate limiting, bounded timeouts, and JSON decoding. Adapters do
// not retry here — retry is chain progression to the next source.
package fetch

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// maxBodyBytes bounds how much of a provider response is read.
const maxBodyBytes = 4 * 1024 * 1024

// Client wraps net/http with a user agent and per-host rate limiters.
type Client struct {
	hc        *http.Client
	userAgent string

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	defRate  rate.Limit
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.hc = hc }
}

// WithUserAgent sets the User-Agent header for all requests.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithHostRate sets the requests-per-second limit applied per host.
func WithHostRate(rps float64) Option {
	return func(c *Client) { c.defRate = rate.Limit(rps) }
}

// NewClient creates a fetch client. The default transport keeps a small
// idle pool since each adapter talks to a single provider host.
func NewClient(opts ...Option) *Client {
	c := &Client{
		hc: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		userAgent: "crop-advisor/1.0",
		limiters:  make(map[string]*rate.Limiter),
		defRate:   5,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) limiterFor(rawURL string) *rate.Limiter {
	host := ""
	if u, err := url.Parse(rawURL); err == nil {
		host = u.Host
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	lim, ok := c.limiters[host]
	if !ok {
		lim = rate.NewLimiter(c.defRate, int(c.defRate)+1)
		c.limiters[host] = lim
	}
	return lim
}

// GetJSON performs a GET, enforcing the context deadline and the host rate
// limit, and decodes the 2xx JSON body into out. Non-2xx statuses are
// returned as errors carrying the status code in the message.
func (c *Client) GetJSON(ctx context.Context, rawURL string, headers map[string]string, out any) error {
	if err := c.limiterFor(rawURL).Wait(ctx); err != nil {
		return eris.Wrap(err, "fetch: rate limiter wait")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return eris.Wrap(err, "fetch: create request")
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return eris.Wrap(err, "fetch: do request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return &StatusError{Code: resp.StatusCode, Host: req.URL.Host}
	}

	body := io.LimitReader(resp.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(out); err != nil {
		return eris.Wrap(err, "fetch: decode response")
	}
	return nil
}
