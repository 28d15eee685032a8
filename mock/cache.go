package mock

import (
	"context"
	"sync"
	"time"

	"github.com/snoai/url2mda"
)

var _ url2mda.Cache = (*Cache)(nil)

// Cache is a mock implementation of url2mda.Cache. By default it behaves as
// an in-memory store so tests can exercise real hit/miss flows; any of the
// function fields can be set to override a method.
type Cache struct {
	GetFn    func(ctx context.Context, key string) (string, error)
	SetFn    func(ctx context.Context, key, value string, ttl time.Duration) error
	DeleteFn func(ctx context.Context, key string) error

	mu      sync.Mutex
	entries map[string]entry
}

type entry struct {
	value     string
	expiresAt time.Time
}

// NewCache returns a Cache backed by an in-memory map.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]entry)}
}

func (c *Cache) Get(ctx context.Context, key string) (string, error) {
	if c.GetFn != nil {
		return c.GetFn(ctx, key)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok || (!e.expiresAt.IsZero() && time.Now().After(e.expiresAt)) {
		delete(c.entries, key)
		return "", url2mda.Errorf(url2mda.ENOTFOUND, "cache key not found: %s", key)
	}
	return e.value, nil
}

func (c *Cache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if c.SetFn != nil {
		return c.SetFn(ctx, key, value, ttl)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}
	c.entries[key] = entry{value: value, expiresAt: expiresAt}
	return nil
}

func (c *Cache) Delete(ctx context.Context, key string) error {
	if c.DeleteFn != nil {
		return c.DeleteFn(ctx, key)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

// Len reports the number of live entries in the in-memory store.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
