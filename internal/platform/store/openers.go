package store

import (
	"context"
	"fmt"
	"time"

	"liverkpi/internal/platform/store/rds"
)

// openRedis dials redis and pings with exponential backoff before publishing the client
func openRedis(ctx context.Context, cfg Config, s *Store) (*rds.Client, error) {
	c := rds.Open(rds.Config{
		Addr:       cfg.RDS.Addr,
		Password:   cfg.RDS.Password,
		DB:         cfg.RDS.DB,
		KeyPrefix:  cfg.RDS.KeyPrefix,
		DefaultTTL: cfg.TTL,
	})

	attempts := cfg.RDS.ConnectRetries
	if attempts <= 0 {
		attempts = 5
	}
	pingTimeout := cfg.RDS.PingTimeout
	if pingTimeout <= 0 {
		pingTimeout = 2 * time.Second
	}
	const (
		backoffStart   = 100 * time.Millisecond
		backoffCeiling = 2 * time.Second
	)

	var lastErr error
	backoff := backoffStart
	for i := 0; i < attempts; i++ {
		pctx, cancel := context.WithTimeout(ctx, pingTimeout)
		lastErr = c.Ping(pctx)
		cancel()
		if lastErr == nil {
			s.Log.Info().Str("addr", cfg.RDS.Addr).Int("db", cfg.RDS.DB).Msg("redis ready")
			return c, nil
		}
		s.Log.Warn().Err(lastErr).Int("attempt", i+1).Msg("redis ping failed")
		select {
		case <-ctx.Done():
			_ = c.Close()
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, backoffCeiling)
	}

	_ = c.Close()
	return nil, fmt.Errorf("redis ping failed after %d attempts: %w", attempts, lastErr)
}
