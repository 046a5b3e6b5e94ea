// Package mem is an in-process TTL byte cache with a size cap
package mem

import (
	"context"
	"sync"
	"time"

	ptime "liverkpi/internal/platform/time"
)

// Config configures a Cache
type Config struct {
	MaxEntries int           // <= 0 means 256
	DefaultTTL time.Duration // used when Set gets ttl <= 0; <= 0 means 10m
	Clock      ptime.Clock   // nil means wall clock
}

type entry struct {
	val     []byte
	expires time.Time
}

// Cache is safe for concurrent use
type Cache struct {
	mu    sync.Mutex
	items map[string]entry
	max   int
	ttl   time.Duration
	clock ptime.Clock
}

// New builds a Cache
func New(cfg Config) *Cache {
	c := &Cache{
		items: map[string]entry{},
		max:   cfg.MaxEntries,
		ttl:   cfg.DefaultTTL,
		clock: cfg.Clock,
	}
	if c.max <= 0 {
		c.max = 256
	}
	if c.ttl <= 0 {
		c.ttl = 10 * time.Minute
	}
	if c.clock == nil {
		c.clock = ptime.System
	}
	return c
}

// Get returns a copy of the live value for key
func (c *Cache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.items[key]
	if !ok {
		return nil, false, nil
	}
	if !c.clock.Now().Before(e.expires) {
		delete(c.items, key)
		return nil, false, nil
	}
	return append([]byte(nil), e.val...), true, nil
}

// Set stores a copy of val; when full, expired entries go first, then the
// entry closest to expiry
func (c *Cache) Set(_ context.Context, key string, val []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.ttl
	}
	now := c.clock.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.items[key]; !exists && len(c.items) >= c.max {
		c.evict(now)
	}
	c.items[key] = entry{val: append([]byte(nil), val...), expires: now.Add(ttl)}
	return nil
}

// Len reports the number of stored entries, expired or not
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *Cache) evict(now time.Time) {
	var (
		victim string
		soon   time.Time
	)
	for k, e := range c.items {
		if !now.Before(e.expires) {
			delete(c.items, k)
			continue
		}
		if victim == "" || e.expires.Before(soon) {
			victim, soon = k, e.expires
		}
	}
	if len(c.items) >= c.max && victim != "" {
		delete(c.items, victim)
	}
}
