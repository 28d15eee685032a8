package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/snoai/url2mda"
)

// video emits a fixed-shape metadata document for a video URL. No rendering
// and no network: everything is derived from the URL itself.
func (e *Engine) video(ctx context.Context, rawURL string) *url2mda.Result {
	id := url2mda.VideoID(rawURL)
	if id == "" {
		return &url2mda.Result{URL: rawURL, Markdown: "Could not identify video from URL"}
	}

	key := url2mda.VideoKey(id)
	if cached, err := e.Cache.Get(ctx, key); err == nil {
		return &url2mda.Result{URL: rawURL, Markdown: cached}
	}

	md := videoMarkdown(id)
	e.cacheSet(ctx, key, md, url2mda.DefaultCacheTTL)
	return &url2mda.Result{URL: rawURL, Markdown: md}
}

func videoMarkdown(id string) string {
	var b strings.Builder
	b.WriteString("# YouTube Video\n\n")
	fmt.Fprintf(&b, "- **Video ID**: %s\n", id)
	fmt.Fprintf(&b, "- **Watch**: https://www.youtube.com/watch?v=%s\n", id)
	fmt.Fprintf(&b, "- **Embed**: https://www.youtube.com/embed/%s\n", id)
	return b.String()
}
