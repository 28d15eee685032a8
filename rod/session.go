// Package rod implements the url2mda.Renderer capability using Chrome
// browser automation via go-rod. One Session owns one browser handle; each
// render opens its own page under the shared handle and closes it on every
// exit path.
package rod

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/snoai/url2mda"
)

// Ensure Session implements url2mda.Renderer at compile time.
var _ url2mda.Renderer = (*Session)(nil)

// Launch defaults.
const (
	// DefaultEnsureRetries is the session establishment budget: total
	// attempts per Ensure call before giving up.
	DefaultEnsureRetries = 3

	// DefaultSelectorTimeout bounds optional element waits.
	DefaultSelectorTimeout = 10 * time.Second
)

// Session manages the browser lifecycle: lazy launch on first need, a
// bounded retry loop with orphan cleanup on launch failure, and an idle
// timer that releases the browser after a period of inactivity so the
// session cost is amortized across request bursts without holding resources
// indefinitely.
//
// Session is safe for concurrent use; concurrent renders share the browser
// connection but never a page.
type Session struct {
	mu        sync.Mutex
	browser   *rod.Browser
	launcher  *launcher.Launcher
	connected bool
	idle      idleBudget

	logger *slog.Logger
	done   chan struct{}

	// launch is swapped in tests to exercise the retry loop without a
	// browser binary.
	launch func() (*rod.Browser, *launcher.Launcher, error)
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithIdleTimeout overrides the idle tick interval and ceiling. Defaults
// are 10s ticks with a 60s ceiling.
func WithIdleTimeout(interval, ceiling time.Duration) SessionOption {
	return func(s *Session) {
		s.idle = newIdleBudget(interval, ceiling)
	}
}

// NewSession creates a Session. The browser is not launched until the first
// Ensure or Render call. Shutdown must be called when the Session is no
// longer needed.
func NewSession(logger *slog.Logger, opts ...SessionOption) *Session {
	s := &Session{
		idle:   newIdleBudget(10*time.Second, 60*time.Second),
		logger: logger,
		done:   make(chan struct{}),
		launch: launchBrowser,
	}
	for _, opt := range opts {
		opt(s)
	}
	go s.idleLoop()
	return s
}

// Ensure establishes a usable browser session. A connected session returns
// immediately. Otherwise it attempts to launch, cleaning up orphaned
// launcher processes from prior failed attempts between retries, and
// returns an EUNAVAILABLE error once the retry budget is exhausted.
func (s *Session) Ensure(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ensureLocked(ctx)
}

func (s *Session) ensureLocked(ctx context.Context) error {
	if s.connected && s.browser != nil {
		return nil
	}

	var lastErr error
	for attempt := 1; attempt <= DefaultEnsureRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		browser, lnchr, err := s.launch()
		if err == nil {
			s.browser = browser
			s.launcher = lnchr
			s.connected = true
			s.idle = s.idle.Touch()
			return nil
		}
		lastErr = err
		s.logger.Error("browser launch failed", "attempt", attempt, "err", err)

		if attempt == DefaultEnsureRetries {
			break
		}

		// Best-effort cleanup of sessions orphaned by the failed
		// attempt. Failures here are logged, never propagated.
		s.cleanupOrphansLocked()
	}

	return url2mda.Errorf(url2mda.EUNAVAILABLE, "could not start browser session after %d attempts: %v", DefaultEnsureRetries, lastErr)
}

// cleanupOrphansLocked kills any launcher process left behind by a failed
// attempt. Must be called with mu held.
func (s *Session) cleanupOrphansLocked() {
	if s.launcher != nil {
		s.launcher.Kill()
		s.launcher = nil
		s.logger.Info("cleaned up orphaned browser process")
	}
	if s.browser != nil {
		if err := s.browser.Close(); err != nil {
			s.logger.Warn("orphaned browser close failed", "err", err)
		}
		s.browser = nil
	}
	s.connected = false
}

// Render navigates to the URL in a fresh page, waits according to opts, and
// returns the rendered HTML. The page is closed on every exit path.
func (s *Session) Render(ctx context.Context, url string, opts url2mda.RenderOptions) (string, error) {
	s.mu.Lock()
	if err := s.ensureLocked(ctx); err != nil {
		s.mu.Unlock()
		return "", err
	}
	s.idle = s.idle.Touch()
	browser := s.browser
	s.mu.Unlock()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		s.markDisconnected()
		return "", fmt.Errorf("opening page: %w", err)
	}
	defer page.Close()

	page = page.Context(ctx)

	if err := page.Navigate(url); err != nil {
		return "", fmt.Errorf("navigating to %s: %w", url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return "", fmt.Errorf("waiting for %s to load: %w", url, err)
	}

	if opts.WaitSelector != "" {
		timeout := opts.WaitSelectorTimeout
		if timeout <= 0 {
			timeout = DefaultSelectorTimeout
		}
		// A missing element is tolerated: capture whatever rendered.
		if _, err := page.Timeout(timeout).Element(opts.WaitSelector); err != nil {
			s.logger.Debug("timed out waiting for selector", "url", url, "selector", opts.WaitSelector)
		}
	}

	if opts.ScrollBy > 0 {
		if _, err := page.Eval(`(y) => window.scrollBy(0, y)`, opts.ScrollBy); err != nil {
			s.logger.Debug("scroll failed", "url", url, "err", err)
		}
		if opts.ScrollDelay > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(opts.ScrollDelay):
			}
		}
	}

	html, err := page.HTML()
	if err != nil {
		return "", fmt.Errorf("capturing HTML for %s: %w", url, err)
	}

	s.mu.Lock()
	s.idle = s.idle.Touch()
	s.mu.Unlock()

	return html, nil
}

// Close releases the browser. The Session may be used again afterwards; the
// next Ensure relaunches.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closeLocked()
}

func (s *Session) closeLocked() error {
	var err error
	if s.browser != nil {
		err = s.browser.Close()
		s.browser = nil
	}
	if s.launcher != nil {
		s.launcher.Kill()
		s.launcher = nil
	}
	s.connected = false
	return err
}

// Shutdown stops the idle timer and releases the browser. The Session must
// not be used afterwards.
func (s *Session) Shutdown() error {
	close(s.done)
	return s.Close()
}

func (s *Session) markDisconnected() {
	s.mu.Lock()
	s.connected = false
	s.mu.Unlock()
}

// idleLoop ticks the idle budget and releases the browser once the ceiling
// is reached with no intervening activity.
func (s *Session) idleLoop() {
	ticker := time.NewTicker(s.idle.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.mu.Lock()
			if !s.connected {
				s.mu.Unlock()
				continue
			}
			var expired bool
			s.idle, expired = s.idle.Tick()
			if expired {
				s.logger.Info("closing idle browser session", "idle", s.idle.ceiling)
				if err := s.closeLocked(); err != nil {
					s.logger.Warn("idle browser close failed", "err", err)
				}
			}
			s.mu.Unlock()
		}
	}
}

// launchBrowser starts a headless browser with the stability flags that
// keep background pages rendering.
func launchBrowser() (*rod.Browser, *launcher.Launcher, error) {
	lnchr := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		Leakless(true).
		Headless(true)

	u, err := lnchr.Launch()
	if err != nil {
		return nil, nil, fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		lnchr.Kill()
		return nil, nil, fmt.Errorf("connecting to browser: %w", err)
	}

	return browser, lnchr, nil
}
