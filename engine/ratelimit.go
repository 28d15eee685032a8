package engine

import (
	"context"
	"sync"

	"golang.org/x/time/rate"

	"github.com/snoai/url2mda"
)

var _ url2mda.Limiter = (*CallerLimiter)(nil)

// CallerLimiter provides per-caller rate limiting using token buckets. Each
// caller key gets its own limiter, so one abusive caller cannot starve the
// rest.
type CallerLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      float64
	burst    int
}

// NewCallerLimiter creates a CallerLimiter admitting rps requests per second
// per caller with the given burst.
func NewCallerLimiter(rps float64, burst int) *CallerLimiter {
	if burst < 1 {
		burst = 1
	}
	return &CallerLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rps,
		burst:    burst,
	}
}

// Allow reports whether the caller identified by key may proceed. It never
// blocks and never returns an error; the error return satisfies the Limiter
// contract for implementations backed by external stores.
func (l *CallerLimiter) Allow(ctx context.Context, key string) (bool, error) {
	l.mu.Lock()
	limiter, ok := l.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(l.rps), l.burst)
		l.limiters[key] = limiter
	}
	l.mu.Unlock()

	return limiter.Allow(), nil
}
