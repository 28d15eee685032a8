package url2mda

import (
	"context"
	"time"
)

// DefaultCacheTTL is the content entry lifetime.
const DefaultCacheTTL = time.Hour

// Cache is a TTL'd key-value store for extraction results and auth tokens.
// Implementations (sqlite/, redis/) are safe for concurrent use. Entries are
// opportunistic: a miss never blocks on another caller's concurrent fill,
// and duplicate fills for the same key are tolerated (last write wins).
type Cache interface {
	// Get returns the value for key. Returns an ENOTFOUND error on a
	// miss or an expired entry.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key for the given ttl. Zero ttl means the
	// implementation default.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// Limiter gates callers by key. Implementations are safe for concurrent use.
type Limiter interface {
	// Allow reports whether the caller identified by key may proceed.
	Allow(ctx context.Context, key string) (bool, error)
}

// Cleaner rewrites extracted markdown through an inference model, removing
// ads and boilerplate while preserving substantive content.
type Cleaner interface {
	Clean(ctx context.Context, markdown string) (string, error)
}
