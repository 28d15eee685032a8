package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/snoai/url2mda"
)

// Compile-time interface verification.
var _ url2mda.Cache = (*Cache)(nil)

// Cache implements url2mda.Cache using SQLite. Expired entries are treated
// as misses on read and reaped by PurgeExpired.
type Cache struct {
	db *DB
}

// NewCache creates a new Cache.
func NewCache(db *DB) *Cache {
	return &Cache{db: db}
}

// Get returns the value stored under key. Expired entries are deleted
// best-effort and reported as a miss.
func (c *Cache) Get(ctx context.Context, key string) (string, error) {
	var value, expiresAt string
	err := c.db.QueryRowContext(ctx, `
		SELECT value, expires_at FROM cache WHERE key = ?
	`, key).Scan(&value, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return "", url2mda.Errorf(url2mda.ENOTFOUND, "cache key not found: %s", key)
	}
	if err != nil {
		return "", err
	}

	expiry, err := time.Parse(time.RFC3339, expiresAt)
	if err != nil || time.Now().After(expiry) {
		_, _ = c.db.ExecContext(ctx, `DELETE FROM cache WHERE key = ?`, key)
		return "", url2mda.Errorf(url2mda.ENOTFOUND, "cache key not found: %s", key)
	}

	return value, nil
}

// Set stores value under key. A zero ttl uses the default content
// lifetime. An existing entry is overwritten, last write wins.
func (c *Cache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if ttl == 0 {
		ttl = url2mda.DefaultCacheTTL
	}
	expiresAt := time.Now().Add(ttl).UTC().Format(time.RFC3339)

	_, err := c.db.ExecContext(ctx, `
		INSERT INTO cache (key, value, expires_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at
	`, key, value, expiresAt)
	return err
}

// Delete removes key. Deleting a missing key is not an error.
func (c *Cache) Delete(ctx context.Context, key string) error {
	_, err := c.db.ExecContext(ctx, `DELETE FROM cache WHERE key = ?`, key)
	return err
}

// PurgeExpired removes all expired entries and reports how many were
// deleted. Intended to run at startup and periodically.
func (c *Cache) PurgeExpired(ctx context.Context) (int64, error) {
	res, err := c.db.ExecContext(ctx, `
		DELETE FROM cache WHERE expires_at < ?
	`, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
