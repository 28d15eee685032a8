package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/snoai/url2mda"
	"github.com/snoai/url2mda/goquery"
)

// Profile rendering knobs. Profile pages load posts lazily, so the render
// waits for post elements, scrolls, and pauses before capture.
const (
	profileWaitTimeout = 10 * time.Second
	profileScrollBy    = 2000
	profileScrollDelay = 2 * time.Second
)

// tweet converts a single post URL through the public syndication endpoint.
func (e *Engine) tweet(ctx context.Context, rawURL string) *url2mda.Result {
	id := url2mda.TweetID(rawURL)
	if id == "" {
		return errorResult(rawURL, "Invalid tweet URL", "")
	}

	key := url2mda.TweetKey(id)
	if cached, err := e.Cache.Get(ctx, key); err == nil {
		return &url2mda.Result{URL: rawURL, Markdown: cached}
	}

	tw, err := e.Tweets.Tweet(ctx, id)
	if err != nil {
		if url2mda.ErrorCode(err) == url2mda.ENOTFOUND {
			return &url2mda.Result{URL: rawURL, Markdown: url2mda.TweetNotFoundMessage, Error: true}
		}
		return errorResult(rawURL, "Failed to fetch tweet", url2mda.ErrorMessage(err))
	}

	md := tweetMarkdown(tw)
	e.cacheSet(ctx, key, md, url2mda.DefaultCacheTTL)
	return &url2mda.Result{URL: rawURL, Markdown: md}
}

func tweetMarkdown(tw *url2mda.Tweet) string {
	author := "Unknown"
	if tw.User != nil {
		switch {
		case tw.User.Name != "":
			author = tw.User.Name
		case tw.User.ScreenName != "":
			author = tw.User.ScreenName
		}
	}

	images := "none"
	if len(tw.Photos) > 0 {
		urls := make([]string, len(tw.Photos))
		for i, p := range tw.Photos {
			urls[i] = p.URL
		}
		images = strings.Join(urls, ", ")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Tweet from @%s\n\n", author)
	b.WriteString(tw.Text)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Images: %s\n", images)
	fmt.Fprintf(&b, "Time: %s, Likes: %d, Retweets: %d\n", tw.CreatedAt, tw.FavoriteCount, tw.ConversationCount)
	if len(tw.Raw) > 0 {
		fmt.Fprintf(&b, "\nraw: %s\n", tw.Raw)
	}
	return b.String()
}

// profile renders an account page and assembles recent post texts. Profile
// output is not cached: the listing changes too often for the content TTL.
func (e *Engine) profile(ctx context.Context, rawURL string) *url2mda.Result {
	handle := url2mda.ProfileHandle(rawURL)

	html, err := e.Renderer.Render(ctx, rawURL, url2mda.RenderOptions{
		WaitSelector:        "article",
		WaitSelectorTimeout: profileWaitTimeout,
		ScrollBy:            profileScrollBy,
		ScrollDelay:         profileScrollDelay,
	})
	if err != nil {
		return errorResult(rawURL, "Failed to fetch profile", url2mda.ErrorMessage(err))
	}

	prof, err := goquery.ParseProfile(html, handle)
	if err != nil {
		return errorResult(rawURL, "Failed to fetch profile", url2mda.ErrorMessage(err))
	}

	return &url2mda.Result{URL: rawURL, Markdown: profileMarkdown(prof, handle, rawURL)}
}

func profileMarkdown(p *goquery.Profile, handle, rawURL string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s (@%s)\n\n", p.Name, handle)
	if p.Bio != "" {
		b.WriteString(p.Bio)
		b.WriteString("\n\n")
	}
	b.WriteString("## Recent Tweets\n\n")
	for i, post := range p.Posts {
		fmt.Fprintf(&b, "### Tweet %d\n%s\n\n", i+1, post)
	}
	fmt.Fprintf(&b, "Profile URL: %s\n", rawURL)
	return b.String()
}
