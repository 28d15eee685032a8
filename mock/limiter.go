package mock

import (
	"context"

	"github.com/snoai/url2mda"
)

var _ url2mda.Limiter = (*Limiter)(nil)

// Limiter is a mock implementation of url2mda.Limiter.
type Limiter struct {
	AllowFn func(ctx context.Context, key string) (bool, error)
}

func (l *Limiter) Allow(ctx context.Context, key string) (bool, error) {
	return l.AllowFn(ctx, key)
}
