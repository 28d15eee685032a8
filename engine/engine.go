// Package engine implements the conversion service: route dispatch, caller
// rate limiting, caching, and concurrent batch fan-out over a shared browser
// session.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/snoai/url2mda"
	"github.com/snoai/url2mda/goquery"
)

// MaxCrawlLinks caps subpage expansion for a single request.
const MaxCrawlLinks = 10

// Engine converts URLs to markdown. One Engine owns one browser session;
// per-URL tasks fan out concurrently, each opening its own page.
type Engine struct {
	Renderer   url2mda.Renderer
	Cache      url2mda.Cache
	Limiter    url2mda.Limiter
	Extractors []url2mda.Extractor // tried in order for summary mode
	Converter  url2mda.Converter
	Tweets     url2mda.TweetService
	Forums     url2mda.ForumService
	Cleaner    url2mda.Cleaner // optional, enables the llmFilter pass
	Logger     *slog.Logger

	// Secret is the privileged bearer token. Requests presenting it skip
	// rate limiting. Empty means no privileged access.
	Secret string
}

var _ url2mda.Service = (*Engine)(nil)

// Convert validates the request, expands it to its target URLs, and processes
// each URL independently. Per-URL failures become error results inside the
// batch; only failures preparing the batch itself return an error.
func (e *Engine) Convert(ctx context.Context, req *url2mda.Request) (*url2mda.Batch, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	urls := []string{req.URL}

	if needsSession(req) {
		if err := e.Renderer.Ensure(ctx); err != nil {
			e.logger().Error("browser session unavailable", "url", req.URL, "error", err)
			return sessionFailureBatch(urls), nil
		}
	}

	if req.CrawlSubpages {
		links, err := e.collectSubpages(ctx, req.URL)
		if err != nil {
			return nil, url2mda.Errorf(url2mda.EINTERNAL, "failed to crawl subpages: %v", err)
		}
		urls = links
	}

	results := make([]*url2mda.Result, len(urls))
	g, gctx := errgroup.WithContext(ctx)
	for i, u := range urls {
		g.Go(func() error {
			results[i] = e.process(gctx, u, req)
			return nil
		})
	}
	_ = g.Wait()

	return &url2mda.Batch{Results: results}, nil
}

// process handles one URL end to end. It never returns nil and never
// panics: failures become error results so one URL cannot take down a batch.
func (e *Engine) process(ctx context.Context, rawURL string, req *url2mda.Request) (res *url2mda.Result) {
	defer func() {
		if p := recover(); p != nil {
			e.logger().Error("panic processing url", "url", rawURL, "panic", p)
			res = errorResult(rawURL, "Failed to process page", fmt.Sprint(p))
		}
	}()

	allowed, err := e.allow(ctx, req)
	if err != nil {
		return errorResult(rawURL, "Failed to process page", url2mda.ErrorMessage(err))
	}
	if !allowed {
		return &url2mda.Result{URL: rawURL, Markdown: url2mda.RateLimitedMessage, Error: true}
	}

	route := url2mda.Classify(rawURL)
	e.logger().Debug("processing url", "url", rawURL, "route", route.String())

	switch route {
	case url2mda.RouteVideo:
		return e.video(ctx, rawURL)
	case url2mda.RouteTweet:
		return e.tweet(ctx, rawURL)
	case url2mda.RouteProfile:
		return e.profile(ctx, rawURL)
	case url2mda.RouteForum:
		return e.forum(ctx, rawURL)
	default:
		return e.generic(ctx, rawURL, req)
	}
}

// allow applies caller rate limiting. A request presenting the privileged
// token is always admitted.
func (e *Engine) allow(ctx context.Context, req *url2mda.Request) (bool, error) {
	if e.Secret != "" && req.AuthToken == e.Secret {
		return true, nil
	}
	key := req.CallerKey
	if key == "" {
		key = "no-ip"
	}
	return e.Limiter.Allow(ctx, key)
}

// collectSubpages renders the base page and returns same-origin links found
// on it, capped at MaxCrawlLinks. The base URL itself is not included.
func (e *Engine) collectSubpages(ctx context.Context, baseURL string) ([]string, error) {
	html, err := e.Renderer.Render(ctx, baseURL, url2mda.RenderOptions{})
	if err != nil {
		return nil, err
	}
	links, err := goquery.CollectLinks(html, baseURL)
	if err != nil {
		return nil, err
	}
	if len(links) > MaxCrawlLinks {
		links = links[:MaxCrawlLinks]
	}
	return links, nil
}

// needsSession reports whether processing the request requires a live
// browser session. Video, tweet, and forum routes never render.
func needsSession(req *url2mda.Request) bool {
	if req.CrawlSubpages {
		return true
	}
	switch url2mda.Classify(req.URL) {
	case url2mda.RouteGeneric, url2mda.RouteProfile:
		return true
	}
	return false
}

func sessionFailureBatch(urls []string) *url2mda.Batch {
	results := make([]*url2mda.Result, len(urls))
	for i, u := range urls {
		results[i] = &url2mda.Result{URL: u, Markdown: url2mda.NoSessionMessage, Error: true}
	}
	return &url2mda.Batch{Results: results}
}

// cacheSet stores a value best-effort. Cache write failures degrade to a log
// line; the caller still gets its result.
func (e *Engine) cacheSet(ctx context.Context, key, value string, ttl time.Duration) {
	if err := e.Cache.Set(ctx, key, value, ttl); err != nil {
		e.logger().Warn("cache write failed", "key", key, "error", err)
	}
}

func (e *Engine) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.Default()
}

func errorResult(url, msg, detail string) *url2mda.Result {
	return &url2mda.Result{URL: url, Markdown: msg, Error: true, Detail: detail}
}
