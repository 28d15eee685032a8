package mock

import (
	"context"

	"github.com/snoai/url2mda"
)

var _ url2mda.Cleaner = (*Cleaner)(nil)

// Cleaner is a mock implementation of url2mda.Cleaner.
type Cleaner struct {
	CleanFn func(ctx context.Context, markdown string) (string, error)
}

func (c *Cleaner) Clean(ctx context.Context, markdown string) (string, error) {
	return c.CleanFn(ctx, markdown)
}
