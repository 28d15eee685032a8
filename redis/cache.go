// Package redis provides a Redis-backed cache for conversion results,
// suited to multi-instance deployments sharing one cache.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/snoai/url2mda"
)

const defaultDialTimeout = 5 * time.Second

// Compile-time interface verification.
var _ url2mda.Cache = (*Cache)(nil)

// Cache implements url2mda.Cache on a Redis client. TTL handling is
// delegated to Redis key expiry.
type Cache struct {
	client goredis.UniversalClient
}

// NewCache wraps an existing Redis client.
func NewCache(client goredis.UniversalClient) *Cache {
	return &Cache{client: client}
}

// Open connects to Redis at addr and verifies the connection.
func Open(ctx context.Context, addr, password string, db int) (*Cache, error) {
	if addr == "" {
		return nil, fmt.Errorf("redis address is required")
	}

	client := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    password,
		DB:          db,
		DialTimeout: defaultDialTimeout,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return NewCache(client), nil
}

// Get returns the value stored under key. Expiry is handled by Redis, so a
// lapsed entry is simply absent.
func (c *Cache) Get(ctx context.Context, key string) (string, error) {
	val, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, goredis.Nil) {
		return "", url2mda.Errorf(url2mda.ENOTFOUND, "cache key not found: %s", key)
	}
	if err != nil {
		return "", fmt.Errorf("redis get %q: %w", key, err)
	}
	return val, nil
}

// Set stores value under key. A zero ttl uses the default content lifetime.
func (c *Cache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if ttl == 0 {
		ttl = url2mda.DefaultCacheTTL
	}
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (c *Cache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del %q: %w", key, err)
	}
	return nil
}

// Close releases the underlying client.
func (c *Cache) Close() error {
	return c.client.Close()
}
