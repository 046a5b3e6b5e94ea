// Package rds is the Redis backend for the byte cache
package rds

import (
	"context"
	"errors"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// Config configures the client
type Config struct {
	Addr       string
	Password   string
	DB         int
	KeyPrefix  string
	DefaultTTL time.Duration // used when Set gets ttl <= 0; <= 0 means 10m
}

// Client wraps a go-redis client with a key prefix
type Client struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

// Open builds a client; it does not dial until first use
func Open(cfg Config) *Client {
	ttl := cfg.DefaultTTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Client{
		rdb: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
		prefix: cfg.KeyPrefix,
		ttl:    ttl,
	}
}

// Get returns ok=false when the key is absent or expired
func (c *Client) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := c.rdb.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

// Set stores val with ttl
func (c *Client) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.ttl
	}
	return c.rdb.Set(ctx, c.prefix+key, val, ttl).Err()
}

// TTL returns the remaining lifetime of key; negative when absent
func (c *Client) TTL(ctx context.Context, key string) (time.Duration, error) {
	return c.rdb.TTL(ctx, c.prefix+key).Result()
}

// Ping checks connectivity
func (c *Client) Ping(ctx context.Context) error { return c.rdb.Ping(ctx).Err() }

// Close closes the underlying pool
func (c *Client) Close() error { return c.rdb.Close() }
