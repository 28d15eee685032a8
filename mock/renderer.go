package mock

import (
	"context"

	"github.com/snoai/url2mda"
)

var _ url2mda.Renderer = (*Renderer)(nil)

// Renderer is a mock implementation of url2mda.Renderer.
type Renderer struct {
	EnsureFn func(ctx context.Context) error
	RenderFn func(ctx context.Context, url string, opts url2mda.RenderOptions) (string, error)
	CloseFn  func() error
}

func (r *Renderer) Ensure(ctx context.Context) error {
	return r.EnsureFn(ctx)
}

func (r *Renderer) Render(ctx context.Context, url string, opts url2mda.RenderOptions) (string, error) {
	return r.RenderFn(ctx, url, opts)
}

func (r *Renderer) Close() error {
	return r.CloseFn()
}
