package engine

import (
	"context"
	"strings"

	"github.com/snoai/url2mda"
	"github.com/snoai/url2mda/goquery"
)

// generic converts an arbitrary page. Summary mode isolates the main content
// through the extractor chain; detailed mode converts the full DOM minus
// scripting noise. A rendered page never yields an error result: extraction
// failures degrade to raw visible text.
func (e *Engine) generic(ctx context.Context, rawURL string, req *url2mda.Request) *url2mda.Result {
	key := url2mda.PageKey(rawURL, req.Detailed, req.LLMFilter)
	if cached, err := e.Cache.Get(ctx, key); err == nil {
		return &url2mda.Result{URL: rawURL, Markdown: cached}
	}

	html, err := e.Renderer.Render(ctx, rawURL, url2mda.RenderOptions{})
	if err != nil {
		return errorResult(rawURL, "Failed to process page", url2mda.ErrorMessage(err))
	}

	md := e.markdown(html, req.Detailed)

	if req.LLMFilter && e.Cleaner != nil {
		cleaned, err := e.Cleaner.Clean(ctx, md)
		if err != nil {
			e.logger().Warn("cleanup pass failed, keeping raw extraction", "url", rawURL, "error", err)
		} else {
			md = cleaned
		}
	}

	e.cacheSet(ctx, key, md, url2mda.DefaultCacheTTL)
	return &url2mda.Result{URL: rawURL, Markdown: md}
}

// markdown turns rendered HTML into markdown, degrading to truncated visible
// text when extraction or conversion produces nothing usable.
func (e *Engine) markdown(html string, detailed bool) string {
	if detailed {
		if stripped, err := goquery.StripBoilerplate(html); err == nil {
			if md, err := e.Converter.Convert(stripped); err == nil && strings.TrimSpace(md) != "" {
				return md
			}
		}
		return goquery.FallbackText(html)
	}

	for _, ex := range e.Extractors {
		content, err := ex.Extract(html)
		if err != nil {
			continue
		}
		md, err := e.Converter.Convert(content.ContentHTML)
		if err != nil || strings.TrimSpace(md) == "" {
			continue
		}
		return md
	}
	return goquery.FallbackText(html)
}
