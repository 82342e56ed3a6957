// Package cache provides the Redis client backing the run journal.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/p-n-ai/pratico-importer/internal/platform/config"
)

const keyPrefix = "pratico:import:"

// Cache wraps a Redis client and the retention applied to journal keys.
type Cache struct {
	Client *redis.Client
	TTL    time.Duration
}

// ParseURL validates a Redis connection URL.
func ParseURL(url string) (*redis.Options, error) {
	if url == "" {
		return nil, fmt.Errorf("cache URL is empty")
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid cache URL: %w", err)
	}
	return opts, nil
}

// New connects to Redis and pings it.
func New(ctx context.Context, cfg config.CacheConfig) (*Cache, error) {
	opts, err := ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("pinging cache: %w", err)
	}

	return &Cache{Client: client, TTL: TTL(cfg.TTLHours)}, nil
}

// TTL converts a retention in hours to a key expiry. Non-positive values
// mean keys never expire.
func TTL(hours int) time.Duration {
	if hours <= 0 {
		return 0
	}
	return time.Duration(hours) * time.Hour
}

// RunKey is the hash holding one run's summary.
func RunKey(runID string) string {
	return keyPrefix + "run:" + runID
}

// RecentRunsKey is the list of run ids, newest first.
func RecentRunsKey() string {
	return keyPrefix + "runs"
}

// Close shuts down the cache client.
func (c *Cache) Close() error {
	return c.Client.Close()
}
