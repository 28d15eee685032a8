package url2mda

import (
	"context"
	"time"
)

// RenderOptions tunes a single page render. The zero value navigates, waits
// for the network to settle, and captures the DOM.
type RenderOptions struct {
	// WaitSelector, when set, is a CSS selector to await after navigation.
	// A timeout waiting for it is tolerated: the render proceeds with
	// whatever has loaded.
	WaitSelector string

	// WaitSelectorTimeout bounds the WaitSelector wait. Zero means the
	// implementation default.
	WaitSelectorTimeout time.Duration

	// ScrollBy scrolls the page down by the given number of pixels after
	// load, to trigger lazy content loading.
	ScrollBy int

	// ScrollDelay is how long to pause after scrolling before capture.
	ScrollDelay time.Duration
}

// Renderer is the page-rendering capability: a live browser session scoped
// to one engine instance. Each Render opens its own page under the shared
// session and closes it on every exit path; page handles are never shared
// across concurrent calls.
type Renderer interface {
	// Ensure establishes a usable session, retrying and cleaning up
	// orphaned sessions on failure. Returns an EUNAVAILABLE error when no
	// session could be established after the retry budget is exhausted.
	Ensure(ctx context.Context) error

	// Render navigates to the URL, waits according to opts, and returns
	// the rendered HTML.
	Render(ctx context.Context, url string, opts RenderOptions) (html string, err error)

	// Close releases the session. The renderer may be used again after
	// Close; the next Ensure re-establishes the session.
	Close() error
}
