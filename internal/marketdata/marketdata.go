// Package marketdata fetches real-time and historical stock data for the
// covered semiconductor companies from Yahoo Finance's public endpoints
// (v7 quote, v8 chart). Responses are cached with short TTLs and requests
// are rate limited so bursts of pipeline runs do not hammer the API.
package marketdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"sync"
	"time"
)

var (
	// ErrUnknownCompany means the company name resolved to no known symbol.
	ErrUnknownCompany = errors.New("marketdata: unknown company")
	// ErrNoData means the API returned an empty series for the symbol.
	ErrNoData = errors.New("marketdata: no data for symbol")
	// ErrStale means the most recent intraday candle is too old to treat as
	// a live price (market closed or feed lagging).
	ErrStale = errors.New("marketdata: intraday data is stale")
)

const defaultBaseURL = "https://query1.finance.yahoo.com"

// Client talks to Yahoo Finance. Safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	cache   *ttlCache
	limiter *rateLimiter
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// NewClient creates a market data client with a 5-minute quote cache and a
// 5 req/s rate limit.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
		cache:   newTTLCache(),
		limiter: newRateLimiter(5, time.Second),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// fetchJSON performs a rate-limited GET and decodes the JSON response.
func (c *Client) fetchJSON(ctx context.Context, url string, dest any) error {
	if err := c.limiter.wait(ctx); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; chipsight/1.0)")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("marketdata: HTTP %d: %s", resp.StatusCode, string(raw))
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("marketdata: parse JSON: %w", err)
	}
	return nil
}

// round2 rounds to two decimal places, matching price display precision.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ── TTL cache ──

type cacheEntry struct {
	value     any
	expiresAt time.Time
}

type ttlCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
}

func newTTLCache() *ttlCache {
	return &ttlCache{entries: make(map[string]cacheEntry)}
}

func (c *ttlCache) get(key string) (any, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || time.Now().After(e.expiresAt) {
		return nil, false
	}
	return e.value, true
}

func (c *ttlCache) set(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	c.entries[key] = cacheEntry{value: value, expiresAt: time.Now().Add(ttl)}
	c.mu.Unlock()
}

// ── Rate limiter ──

// rateLimiter is a token bucket: maxTokens requests per refill period.
type rateLimiter struct {
	mu         sync.Mutex
	tokens     int
	maxTokens  int
	refill     time.Duration
	lastRefill time.Time
}

func newRateLimiter(maxTokens int, refill time.Duration) *rateLimiter {
	return &rateLimiter{
		tokens:     maxTokens,
		maxTokens:  maxTokens,
		refill:     refill,
		lastRefill: time.Now(),
	}
}

func (rl *rateLimiter) wait(ctx context.Context) error {
	for {
		rl.mu.Lock()
		now := time.Now()
		if elapsed := now.Sub(rl.lastRefill); elapsed >= rl.refill {
			periods := int(elapsed / rl.refill)
			rl.tokens += periods * rl.maxTokens
			if rl.tokens > rl.maxTokens {
				rl.tokens = rl.maxTokens
			}
			rl.lastRefill = rl.lastRefill.Add(time.Duration(periods) * rl.refill)
		}
		if rl.tokens > 0 {
			rl.tokens--
			rl.mu.Unlock()
			return nil
		}
		rl.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(50 * time.Millisecond):
		}
	}
}
