// Package store is the facade over the optional short-lived byte store used
// to cache upstream resources. Backends: in-process memory or Redis.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"liverkpi/internal/platform/logger"
	"liverkpi/internal/platform/store/mem"
	"liverkpi/internal/platform/store/rds"
)

// KV is the byte cache seam consumers depend on
type KV interface {
	// Get returns ok=false on a miss or an expired entry
	Get(ctx context.Context, key string) (val []byte, ok bool, err error)
	// Set stores val for ttl; ttl <= 0 means the backend default
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
}

// Pinger is any seam that can report readiness
type Pinger interface{ Ping(context.Context) error }

// Store holds the opened backend; zero value is safe and caches nothing
type Store struct {
	Log     logger.Logger
	KV      KV
	Backend string
}

// Open constructs a Store for cfg.Backend
func Open(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	s := &Store{Log: *logger.Get()}
	for _, o := range opts {
		if err := o(s); err != nil {
			return nil, err
		}
	}
	s.Log = s.Log.With().Str("store", cfg.Backend).Logger()

	switch cfg.Backend {
	case BackendNone:
		s.KV = noop{}
	case BackendMemory, "":
		cfg.Backend = BackendMemory
		s.KV = mem.New(mem.Config{MaxEntries: cfg.Mem.MaxEntries, DefaultTTL: cfg.TTL})
	case BackendRedis:
		c, err := openRedis(ctx, cfg, s)
		if err != nil {
			return nil, err
		}
		s.KV = c
	default:
		return nil, fmt.Errorf("store: unknown backend %q", cfg.Backend)
	}
	s.Backend = cfg.Backend
	return s, nil
}

// Guard pings the backend if it supports it
func (s *Store) Guard(ctx context.Context) error {
	if s == nil {
		return errors.New("nil store")
	}
	if p, ok := s.KV.(Pinger); ok {
		if err := p.Ping(ctx); err != nil {
			return fmt.Errorf("%s: %w", s.Backend, err)
		}
	}
	return nil
}

// Close releases the backend; nil-safe
func (s *Store) Close(context.Context) error {
	if s == nil {
		return nil
	}
	if c, ok := s.KV.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

// ensure backends satisfy the seams
var (
	_ KV     = (*mem.Cache)(nil)
	_ KV     = (*rds.Client)(nil)
	_ Pinger = (*rds.Client)(nil)
)

type noop struct{}

func (noop) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (noop) Set(context.Context, string, []byte, time.Duration) error { return nil }
