package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/snoai/url2mda"
)

const (
	// ForumPostLimit is how many hot posts a community conversion includes.
	ForumPostLimit = 5

	// forumCacheMinChars guards the cache against storing near-empty
	// listings (deleted communities, filtered results).
	forumCacheMinChars = 100

	forumSelfTextMax = 500
)

// forum converts a community URL into a formatted hot-post listing.
func (e *Engine) forum(ctx context.Context, rawURL string) *url2mda.Result {
	community := url2mda.Subreddit(rawURL)
	if community == "" {
		return errorResult(rawURL, "Invalid community URL", "")
	}

	key := url2mda.ForumKey(community, rawURL)
	if cached, err := e.Cache.Get(ctx, key); err == nil {
		return &url2mda.Result{URL: rawURL, Markdown: cached}
	}

	posts, err := e.Forums.HotPosts(ctx, community, ForumPostLimit)
	if err != nil {
		return errorResult(rawURL, "Failed to fetch community posts", url2mda.ErrorMessage(err))
	}

	md := forumMarkdown(community, posts)
	if len(md) > forumCacheMinChars {
		e.cacheSet(ctx, key, md, url2mda.DefaultCacheTTL)
	}
	return &url2mda.Result{URL: rawURL, Markdown: md}
}

func forumMarkdown(community string, posts []*url2mda.ForumPost) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Hot posts in r/%s\n\n", community)

	for _, p := range posts {
		fmt.Fprintf(&b, "## %s\n\n", p.Title)
		fmt.Fprintf(&b, "Posted by u/%s | %d points | %d comments | %s\n\n",
			p.Author, p.Score, p.NumComments, p.Created.UTC().Format("Jan 2, 2006 15:04 MST"))

		if text := strings.TrimSpace(p.SelfText); text != "" {
			b.WriteString(truncateRunes(text, forumSelfTextMax))
			b.WriteString("\n\n")
		}
		if p.URL != "" && !strings.Contains(p.URL, "reddit.com") {
			fmt.Fprintf(&b, "Link: %s\n\n", p.URL)
		}
		if p.Permalink != "" {
			fmt.Fprintf(&b, "[View post](https://www.reddit.com%s)\n\n", p.Permalink)
		}
		b.WriteString("---\n\n")
	}

	fmt.Fprintf(&b, "*Hot posts from r/%s via reddit.com*\n", community)
	return b.String()
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
