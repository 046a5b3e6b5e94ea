package store

import (
	"time"

	"liverkpi/internal/platform/config"
)

// Backend names accepted by CORE_CACHE_BACKEND
const (
	BackendNone   = "none"
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Config selects and configures one backend
type Config struct {
	Backend string
	TTL     time.Duration

	Mem MemConfig
	RDS RedisConfig
}

// MemConfig configures the in-process cache
type MemConfig struct {
	MaxEntries int
}

// RedisConfig configures redis connectivity
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string

	ConnectRetries int           // default 5
	PingTimeout    time.Duration // default 2s
}

// FromConfig reads CORE_CACHE_* style keys from cfg
func FromConfig(cfg config.Conf) Config {
	c := Config{
		Backend: cfg.MayEnum("BACKEND", BackendMemory, BackendNone, BackendMemory, BackendRedis),
		TTL:     cfg.MayDuration("TTL", 10*time.Minute),
		Mem:     MemConfig{MaxEntries: cfg.MayInt("MAX_ENTRIES", 256)},
	}
	if c.Backend == BackendRedis {
		c.RDS = RedisConfig{
			Addr:           cfg.MustString("REDIS_ADDR"),
			Password:       cfg.MayString("REDIS_PASSWORD", ""),
			DB:             cfg.MayInt("REDIS_DB", 0),
			KeyPrefix:      cfg.MayString("REDIS_PREFIX", "liverkpi:"),
			ConnectRetries: cfg.MayInt("REDIS_CONNECT_RETRIES", 5),
			PingTimeout:    cfg.MayDuration("REDIS_PING_TIMEOUT", 2*time.Second),
		}
	}
	return c
}
