// Package cache provides an optional persistent cache of canonical
// rule keys that survives process restarts, so a long-running -serve
// deployment doesn't re-discover (and re-score) rules a prior process
// already found. It defaults to an in-process map; when a Redis URL
// is configured it delegates to Redis instead.
package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// KeyCache records which canonical rule keys have already been seen.
type KeyCache interface {
	Seen(ctx context.Context, key string) (bool, error)
	Mark(ctx context.Context, key string) error
	Close() error
}

// MemoryCache is the zero-configuration default: an in-process set,
// gone when the process exits.
type MemoryCache struct {
	seen map[string]struct{}
}

// NewMemoryCache builds an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{seen: make(map[string]struct{})}
}

func (c *MemoryCache) Seen(_ context.Context, key string) (bool, error) {
	_, ok := c.seen[key]
	return ok, nil
}

func (c *MemoryCache) Mark(_ context.Context, key string) error {
	c.seen[key] = struct{}{}
	return nil
}

func (c *MemoryCache) Close() error { return nil }

// RedisCache persists the seen-key set in Redis under a fixed key
// prefix, pooled through a single client.
type RedisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache parses url, pings the server once to fail fast on a
// bad configuration, and returns a ready RedisCache.
func NewRedisCache(ctx context.Context, url, prefix string) (*RedisCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}

	return &RedisCache{client: client, prefix: prefix}, nil
}

func (c *RedisCache) Seen(ctx context.Context, key string) (bool, error) {
	n, err := c.client.Exists(ctx, c.prefix+key).Result()
	if err != nil {
		return false, fmt.Errorf("checking rule key %q: %w", key, err)
	}
	return n > 0, nil
}

func (c *RedisCache) Mark(ctx context.Context, key string) error {
	if err := c.client.Set(ctx, c.prefix+key, 1, 0).Err(); err != nil {
		return fmt.Errorf("marking rule key %q: %w", key, err)
	}
	return nil
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
