package rod

import (
	"context"
	"log/slog"
	"time"

	"github.com/snoai/url2mda"
)

// Ensure LoggingRenderer implements url2mda.Renderer.
var _ url2mda.Renderer = (*LoggingRenderer)(nil)

// LoggingRenderer wraps a Renderer with debug logging.
type LoggingRenderer struct {
	next   url2mda.Renderer
	logger *slog.Logger
}

// NewLoggingRenderer creates a new LoggingRenderer.
func NewLoggingRenderer(next url2mda.Renderer, logger *slog.Logger) *LoggingRenderer {
	return &LoggingRenderer{next: next, logger: logger}
}

// Ensure delegates to the wrapped renderer, logging the outcome.
func (r *LoggingRenderer) Ensure(ctx context.Context) (err error) {
	defer func(begin time.Time) {
		r.logger.Info("ensure session",
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.Ensure(ctx)
}

// Render logs the URL being rendered and delegates to the wrapped renderer.
func (r *LoggingRenderer) Render(ctx context.Context, url string, opts url2mda.RenderOptions) (html string, err error) {
	defer func(begin time.Time) {
		r.logger.Info("render",
			"url", url,
			"bytes", len(html),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.Render(ctx, url, opts)
}

// Close delegates to the wrapped renderer.
func (r *LoggingRenderer) Close() error {
	return r.next.Close()
}
