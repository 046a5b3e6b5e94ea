package showroom

import (
	"bytes"
	"context"
	"io"
	"time"

	perr "liverkpi/internal/platform/errors"
	"liverkpi/internal/platform/logger"
	"liverkpi/internal/platform/metrics"
	"liverkpi/internal/platform/store"
)

const keyPrefix = "showroom:"

// CachedFetcher serves decoded bodies from a KV and falls through to next on a miss.
// Cache failures are logged and never fail the fetch.
type CachedFetcher struct {
	next    Fetcher
	kv      store.KV
	ttl     time.Duration
	metrics *metrics.Pipeline
	log     *logger.Logger
}

// CachedOption configures the fetcher
type CachedOption func(*CachedFetcher)

// WithTTL sets the entry lifetime; zero keeps the store default
func WithTTL(d time.Duration) CachedOption {
	return func(c *CachedFetcher) { c.ttl = d }
}

// WithMetrics records hits and misses on m
func WithMetrics(m *metrics.Pipeline) CachedOption {
	return func(c *CachedFetcher) { c.metrics = m }
}

// NewCachedFetcher wraps next. A nil kv disables caching.
func NewCachedFetcher(next Fetcher, kv store.KV, opts ...CachedOption) *CachedFetcher {
	c := &CachedFetcher{next: next, kv: kv, log: logger.Named("showroom.cache")}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Fetch returns the cached body for src.URL or downloads and stores it
func (c *CachedFetcher) Fetch(ctx context.Context, src Source) (io.ReadCloser, error) {
	if c.kv == nil {
		return c.next.Fetch(ctx, src)
	}
	key := keyPrefix + src.URL

	b, ok, err := c.kv.Get(ctx, key)
	if err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache get failed")
	}
	if ok {
		c.metrics.ObserveCache(true)
		return io.NopCloser(bytes.NewReader(b)), nil
	}
	c.metrics.ObserveCache(false)

	rc, err := c.next.Fetch(ctx, src)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()
	body, err := io.ReadAll(rc)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "showroom: read %s", src.URL)
	}
	if err := c.kv.Set(ctx, key, body, c.ttl); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache set failed")
	}
	return io.NopCloser(bytes.NewReader(body)), nil
}
