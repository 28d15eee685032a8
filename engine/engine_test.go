package engine_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snoai/url2mda"
	"github.com/snoai/url2mda/engine"
	"github.com/snoai/url2mda/mock"
)

const samplePage = `<html><head><title>Sample</title></head><body><p>hello world</p></body></html>`

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func allowAll() *mock.Limiter {
	return &mock.Limiter{AllowFn: func(ctx context.Context, key string) (bool, error) {
		return true, nil
	}}
}

// testEngine returns an engine with permissive collaborators. Tests override
// the pieces they exercise.
func testEngine() *engine.Engine {
	return &engine.Engine{
		Renderer: &mock.Renderer{
			EnsureFn: func(ctx context.Context) error { return nil },
			RenderFn: func(ctx context.Context, url string, opts url2mda.RenderOptions) (string, error) {
				return samplePage, nil
			},
		},
		Cache:   mock.NewCache(),
		Limiter: allowAll(),
		Extractors: []url2mda.Extractor{&mock.Extractor{
			ExtractFn: func(html string) (*url2mda.ExtractResult, error) {
				return &url2mda.ExtractResult{Title: "Sample", ContentHTML: "<p>hello world</p>"}, nil
			},
		}},
		Converter: &mock.Converter{ConvertFn: func(html string) (string, error) {
			return "hello world", nil
		}},
		Logger: discardLogger(),
	}
}

func TestConvert_InvalidRequest(t *testing.T) {
	t.Parallel()

	e := testEngine()

	_, err := e.Convert(context.Background(), &url2mda.Request{URL: "not a url", Mode: url2mda.ModeText})
	require.Error(t, err)
	assert.Equal(t, url2mda.EINVALID, url2mda.ErrorCode(err))
}

func TestConvert_Generic(t *testing.T) {
	t.Parallel()

	e := testEngine()

	batch, err := e.Convert(context.Background(), &url2mda.Request{
		URL:  "https://example.com/article",
		Mode: url2mda.ModeText,
	})
	require.NoError(t, err)
	require.Len(t, batch.Results, 1)

	res := batch.Results[0]
	assert.Equal(t, "https://example.com/article", res.URL)
	assert.Equal(t, "hello world", res.Markdown)
	assert.False(t, res.Error)
	assert.False(t, batch.Degraded())
}

func TestConvert_GenericCachesResult(t *testing.T) {
	t.Parallel()

	var renders atomic.Int64
	e := testEngine()
	e.Renderer = &mock.Renderer{
		EnsureFn: func(ctx context.Context) error { return nil },
		RenderFn: func(ctx context.Context, url string, opts url2mda.RenderOptions) (string, error) {
			renders.Add(1)
			return samplePage, nil
		},
	}

	req := &url2mda.Request{URL: "https://example.com/page", Mode: url2mda.ModeText}

	_, err := e.Convert(context.Background(), req)
	require.NoError(t, err)

	batch, err := e.Convert(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, int64(1), renders.Load(), "second conversion should hit the cache")
	assert.Equal(t, "hello world", batch.Results[0].Markdown)
}

func TestConvert_CacheKeyVariesWithOptions(t *testing.T) {
	t.Parallel()

	cache := mock.NewCache()
	e := testEngine()
	e.Cache = cache
	e.Renderer = &mock.Renderer{
		EnsureFn: func(ctx context.Context) error { return nil },
		RenderFn: func(ctx context.Context, url string, opts url2mda.RenderOptions) (string, error) {
			return samplePage, nil
		},
	}

	ctx := context.Background()
	_, err := e.Convert(ctx, &url2mda.Request{URL: "https://example.com/p", Mode: url2mda.ModeText})
	require.NoError(t, err)
	_, err = e.Convert(ctx, &url2mda.Request{URL: "https://example.com/p", Detailed: true, Mode: url2mda.ModeText})
	require.NoError(t, err)

	assert.Equal(t, 2, cache.Len(), "summary and detailed variants cache independently")
}

func TestConvert_RateLimited(t *testing.T) {
	t.Parallel()

	var cacheReads atomic.Int64
	var renders atomic.Int64

	e := testEngine()
	e.Limiter = &mock.Limiter{AllowFn: func(ctx context.Context, key string) (bool, error) {
		return false, nil
	}}
	e.Cache = &mock.Cache{GetFn: func(ctx context.Context, key string) (string, error) {
		cacheReads.Add(1)
		return "", url2mda.Errorf(url2mda.ENOTFOUND, "miss")
	}}
	e.Renderer = &mock.Renderer{
		EnsureFn: func(ctx context.Context) error { return nil },
		RenderFn: func(ctx context.Context, url string, opts url2mda.RenderOptions) (string, error) {
			renders.Add(1)
			return samplePage, nil
		},
	}

	batch, err := e.Convert(context.Background(), &url2mda.Request{
		URL:  "https://example.com",
		Mode: url2mda.ModeText,
	})
	require.NoError(t, err)
	require.Len(t, batch.Results, 1)

	res := batch.Results[0]
	assert.True(t, res.Error)
	assert.Equal(t, url2mda.RateLimitedMessage, res.Markdown)
	assert.True(t, res.RateLimited())
	assert.True(t, batch.Degraded())

	// A denied caller must see neither the cache nor a page render.
	assert.Equal(t, int64(0), cacheReads.Load())
	assert.Equal(t, int64(0), renders.Load())
}

func TestConvert_PrivilegedTokenBypassesLimiter(t *testing.T) {
	t.Parallel()

	var limiterCalls atomic.Int64
	e := testEngine()
	e.Secret = "s3cret"
	e.Limiter = &mock.Limiter{AllowFn: func(ctx context.Context, key string) (bool, error) {
		limiterCalls.Add(1)
		return false, nil
	}}

	batch, err := e.Convert(context.Background(), &url2mda.Request{
		URL:       "https://example.com",
		Mode:      url2mda.ModeText,
		AuthToken: "s3cret",
	})
	require.NoError(t, err)
	assert.False(t, batch.Results[0].Error)
	assert.Equal(t, int64(0), limiterCalls.Load())
}

func TestConvert_EmptyCallerKeySharesBucket(t *testing.T) {
	t.Parallel()

	var gotKey string
	e := testEngine()
	e.Limiter = &mock.Limiter{AllowFn: func(ctx context.Context, key string) (bool, error) {
		gotKey = key
		return true, nil
	}}

	_, err := e.Convert(context.Background(), &url2mda.Request{
		URL:  "https://example.com",
		Mode: url2mda.ModeText,
	})
	require.NoError(t, err)
	assert.Equal(t, "no-ip", gotKey)
}

func TestConvert_SessionFailure(t *testing.T) {
	t.Parallel()

	e := testEngine()
	e.Renderer = &mock.Renderer{
		EnsureFn: func(ctx context.Context) error {
			return url2mda.Errorf(url2mda.EUNAVAILABLE, "no session")
		},
	}

	batch, err := e.Convert(context.Background(), &url2mda.Request{
		URL:  "https://example.com",
		Mode: url2mda.ModeText,
	})
	require.NoError(t, err)
	require.Len(t, batch.Results, 1)
	assert.True(t, batch.Results[0].Error)
	assert.Equal(t, url2mda.NoSessionMessage, batch.Results[0].Markdown)
}

func TestConvert_SessionNotNeededForVideo(t *testing.T) {
	t.Parallel()

	e := testEngine()
	e.Renderer = &mock.Renderer{
		EnsureFn: func(ctx context.Context) error {
			return url2mda.Errorf(url2mda.EUNAVAILABLE, "no session")
		},
	}

	batch, err := e.Convert(context.Background(), &url2mda.Request{
		URL:  "https://www.youtube.com/watch?v=abc123",
		Mode: url2mda.ModeText,
	})
	require.NoError(t, err)
	assert.False(t, batch.Results[0].Error)
	assert.Contains(t, batch.Results[0].Markdown, "abc123")
}

func TestConvert_CrawlSubpages(t *testing.T) {
	t.Parallel()

	base := "https://example.com/docs"
	basePage := `<html><body>
		<a href="https://example.com/docs/a">a</a>
		<a href="https://example.com/docs/b">b</a>
		<a href="https://other.com/x">offsite</a>
		<a href="https://example.com/docs/a">dup</a>
	</body></html>`

	e := testEngine()
	e.Renderer = &mock.Renderer{
		EnsureFn: func(ctx context.Context) error { return nil },
		RenderFn: func(ctx context.Context, url string, opts url2mda.RenderOptions) (string, error) {
			if url == base {
				return basePage, nil
			}
			return samplePage, nil
		},
	}

	batch, err := e.Convert(context.Background(), &url2mda.Request{
		URL:           base,
		CrawlSubpages: true,
		Mode:          url2mda.ModeJSON,
	})
	require.NoError(t, err)
	require.Len(t, batch.Results, 2)

	// Output order matches the collected link order; the base URL itself is
	// not converted.
	assert.Equal(t, "https://example.com/docs/a", batch.Results[0].URL)
	assert.Equal(t, "https://example.com/docs/b", batch.Results[1].URL)
}

func TestConvert_CrawlCapsLinks(t *testing.T) {
	t.Parallel()

	base := "https://example.com"
	var b strings.Builder
	b.WriteString("<html><body>")
	for i := 0; i < 25; i++ {
		b.WriteString(`<a href="https://example.com/p` + string(rune('a'+i)) + `">x</a>`)
	}
	b.WriteString("</body></html>")

	e := testEngine()
	e.Renderer = &mock.Renderer{
		EnsureFn: func(ctx context.Context) error { return nil },
		RenderFn: func(ctx context.Context, url string, opts url2mda.RenderOptions) (string, error) {
			if url == base {
				return b.String(), nil
			}
			return samplePage, nil
		},
	}

	batch, err := e.Convert(context.Background(), &url2mda.Request{
		URL:           base,
		CrawlSubpages: true,
		Mode:          url2mda.ModeJSON,
	})
	require.NoError(t, err)
	assert.Len(t, batch.Results, engine.MaxCrawlLinks)
}

func TestConvert_CrawlFailureIsBatchError(t *testing.T) {
	t.Parallel()

	e := testEngine()
	e.Renderer = &mock.Renderer{
		EnsureFn: func(ctx context.Context) error { return nil },
		RenderFn: func(ctx context.Context, url string, opts url2mda.RenderOptions) (string, error) {
			return "", url2mda.Errorf(url2mda.EINTERNAL, "navigation failed")
		},
	}

	_, err := e.Convert(context.Background(), &url2mda.Request{
		URL:           "https://example.com",
		CrawlSubpages: true,
		Mode:          url2mda.ModeJSON,
	})
	require.Error(t, err)
	assert.Equal(t, url2mda.EINTERNAL, url2mda.ErrorCode(err))
}

func TestConvert_PerURLFailureIsolated(t *testing.T) {
	t.Parallel()

	base := "https://example.com"
	basePage := `<html><body>
		<a href="https://example.com/good">a</a>
		<a href="https://example.com/bad">b</a>
	</body></html>`

	e := testEngine()
	e.Renderer = &mock.Renderer{
		EnsureFn: func(ctx context.Context) error { return nil },
		RenderFn: func(ctx context.Context, url string, opts url2mda.RenderOptions) (string, error) {
			switch url {
			case base:
				return basePage, nil
			case "https://example.com/bad":
				return "", url2mda.Errorf(url2mda.EINTERNAL, "tab crashed")
			}
			return samplePage, nil
		},
	}

	batch, err := e.Convert(context.Background(), &url2mda.Request{
		URL:           base,
		CrawlSubpages: true,
		Mode:          url2mda.ModeJSON,
	})
	require.NoError(t, err)
	require.Len(t, batch.Results, 2)

	assert.False(t, batch.Results[0].Error)
	assert.True(t, batch.Results[1].Error)
	assert.Equal(t, "tab crashed", batch.Results[1].Detail)
}

func TestConvert_GenericFallsBackToRawText(t *testing.T) {
	t.Parallel()

	e := testEngine()
	e.Extractors = []url2mda.Extractor{&mock.Extractor{
		ExtractFn: func(html string) (*url2mda.ExtractResult, error) {
			return nil, url2mda.Errorf(url2mda.ENOTFOUND, "no content")
		},
	}}

	batch, err := e.Convert(context.Background(), &url2mda.Request{
		URL:  "https://example.com",
		Mode: url2mda.ModeText,
	})
	require.NoError(t, err)

	res := batch.Results[0]
	assert.False(t, res.Error, "extraction failure degrades, never errors")
	assert.True(t, strings.HasPrefix(res.Markdown, "## Sample"))
	assert.Contains(t, res.Markdown, "hello world")
}

func TestConvert_ExtractorChain(t *testing.T) {
	t.Parallel()

	e := testEngine()
	e.Extractors = []url2mda.Extractor{
		&mock.Extractor{ExtractFn: func(html string) (*url2mda.ExtractResult, error) {
			return nil, url2mda.Errorf(url2mda.ENOTFOUND, "primary found nothing")
		}},
		&mock.Extractor{ExtractFn: func(html string) (*url2mda.ExtractResult, error) {
			return &url2mda.ExtractResult{Title: "Sample", ContentHTML: "<p>from fallback</p>"}, nil
		}},
	}
	e.Converter = &mock.Converter{ConvertFn: func(html string) (string, error) {
		return "from fallback", nil
	}}

	batch, err := e.Convert(context.Background(), &url2mda.Request{
		URL:  "https://example.com",
		Mode: url2mda.ModeText,
	})
	require.NoError(t, err)
	assert.Equal(t, "from fallback", batch.Results[0].Markdown)
}

func TestConvert_LLMFilter(t *testing.T) {
	t.Parallel()

	t.Run("applied to fresh extraction and cached", func(t *testing.T) {
		t.Parallel()

		cache := mock.NewCache()
		e := testEngine()
		e.Cache = cache
		e.Cleaner = &mock.Cleaner{CleanFn: func(ctx context.Context, markdown string) (string, error) {
			return "cleaned", nil
		}}

		req := &url2mda.Request{URL: "https://example.com", LLMFilter: true, Mode: url2mda.ModeText}

		batch, err := e.Convert(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, "cleaned", batch.Results[0].Markdown)

		key := url2mda.PageKey("https://example.com", false, true)
		cached, err := cache.Get(context.Background(), key)
		require.NoError(t, err)
		assert.Equal(t, "cleaned", cached)
	})

	t.Run("skipped on cache hit", func(t *testing.T) {
		t.Parallel()

		var cleans atomic.Int64
		e := testEngine()
		e.Cleaner = &mock.Cleaner{CleanFn: func(ctx context.Context, markdown string) (string, error) {
			cleans.Add(1)
			return "cleaned", nil
		}}

		req := &url2mda.Request{URL: "https://example.com", LLMFilter: true, Mode: url2mda.ModeText}

		_, err := e.Convert(context.Background(), req)
		require.NoError(t, err)
		_, err = e.Convert(context.Background(), req)
		require.NoError(t, err)

		assert.Equal(t, int64(1), cleans.Load())
	})

	t.Run("failure keeps raw extraction", func(t *testing.T) {
		t.Parallel()

		e := testEngine()
		e.Cleaner = &mock.Cleaner{CleanFn: func(ctx context.Context, markdown string) (string, error) {
			return "", url2mda.Errorf(url2mda.EUNAVAILABLE, "model overloaded")
		}}

		batch, err := e.Convert(context.Background(), &url2mda.Request{
			URL:       "https://example.com",
			LLMFilter: true,
			Mode:      url2mda.ModeText,
		})
		require.NoError(t, err)
		assert.False(t, batch.Results[0].Error)
		assert.Equal(t, "hello world", batch.Results[0].Markdown)
	})
}

func TestConvert_Video(t *testing.T) {
	t.Parallel()

	t.Run("watch url", func(t *testing.T) {
		t.Parallel()

		cache := mock.NewCache()
		e := testEngine()
		e.Cache = cache

		batch, err := e.Convert(context.Background(), &url2mda.Request{
			URL:  "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			Mode: url2mda.ModeText,
		})
		require.NoError(t, err)

		md := batch.Results[0].Markdown
		assert.Contains(t, md, "dQw4w9WgXcQ")
		assert.Contains(t, md, "https://www.youtube.com/watch?v=dQw4w9WgXcQ")
		assert.Contains(t, md, "https://www.youtube.com/embed/dQw4w9WgXcQ")

		cached, err := cache.Get(context.Background(), url2mda.VideoKey("dQw4w9WgXcQ"))
		require.NoError(t, err)
		assert.Equal(t, md, cached)
	})

	t.Run("short link shares cache entry", func(t *testing.T) {
		t.Parallel()

		cache := mock.NewCache()
		e := testEngine()
		e.Cache = cache

		ctx := context.Background()
		first, err := e.Convert(ctx, &url2mda.Request{URL: "https://www.youtube.com/watch?v=abc", Mode: url2mda.ModeText})
		require.NoError(t, err)
		second, err := e.Convert(ctx, &url2mda.Request{URL: "https://youtu.be/abc", Mode: url2mda.ModeText})
		require.NoError(t, err)

		assert.Equal(t, first.Results[0].Markdown, second.Results[0].Markdown)
		assert.Equal(t, 1, cache.Len())
	})

	t.Run("unparseable id", func(t *testing.T) {
		t.Parallel()

		e := testEngine()
		batch, err := e.Convert(context.Background(), &url2mda.Request{
			URL:  "https://www.youtube.com/watch?list=PL123",
			Mode: url2mda.ModeText,
		})
		require.NoError(t, err)
		assert.False(t, batch.Results[0].Error)
		assert.Equal(t, "Could not identify video from URL", batch.Results[0].Markdown)
	})
}

func TestConvert_Tweet(t *testing.T) {
	t.Parallel()

	t.Run("formats and caches", func(t *testing.T) {
		t.Parallel()

		cache := mock.NewCache()
		e := testEngine()
		e.Cache = cache
		e.Tweets = &mock.TweetService{TweetFn: func(ctx context.Context, id string) (*url2mda.Tweet, error) {
			assert.Equal(t, "123456", id)
			return &url2mda.Tweet{
				Text:              "hello from the bird site",
				CreatedAt:         "2024-01-15T10:00:00.000Z",
				FavoriteCount:     42,
				ConversationCount: 7,
				User:              &url2mda.TweetUser{Name: "Jane", ScreenName: "jane"},
			}, nil
		}}

		batch, err := e.Convert(context.Background(), &url2mda.Request{
			URL:  "https://x.com/jane/status/123456",
			Mode: url2mda.ModeText,
		})
		require.NoError(t, err)

		md := batch.Results[0].Markdown
		assert.Contains(t, md, "Tweet from @Jane")
		assert.Contains(t, md, "hello from the bird site")
		assert.Contains(t, md, "Images: none")
		assert.Contains(t, md, "Likes: 42")
		assert.Contains(t, md, "Retweets: 7")

		cached, err := cache.Get(context.Background(), url2mda.TweetKey("123456"))
		require.NoError(t, err)
		assert.Equal(t, md, cached)
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()

		e := testEngine()
		e.Tweets = &mock.TweetService{TweetFn: func(ctx context.Context, id string) (*url2mda.Tweet, error) {
			return nil, url2mda.Errorf(url2mda.ENOTFOUND, "tweet %s not found", id)
		}}

		batch, err := e.Convert(context.Background(), &url2mda.Request{
			URL:  "https://twitter.com/jane/status/999",
			Mode: url2mda.ModeText,
		})
		require.NoError(t, err)
		assert.True(t, batch.Results[0].Error)
		assert.Equal(t, url2mda.TweetNotFoundMessage, batch.Results[0].Markdown)
	})

	t.Run("cache hit skips fetch", func(t *testing.T) {
		t.Parallel()

		var fetches atomic.Int64
		e := testEngine()
		e.Tweets = &mock.TweetService{TweetFn: func(ctx context.Context, id string) (*url2mda.Tweet, error) {
			fetches.Add(1)
			return &url2mda.Tweet{Text: "hi"}, nil
		}}

		ctx := context.Background()
		_, err := e.Convert(ctx, &url2mda.Request{URL: "https://x.com/a/status/42", Mode: url2mda.ModeText})
		require.NoError(t, err)

		// A different surface URL for the same post id shares the entry.
		_, err = e.Convert(ctx, &url2mda.Request{URL: "https://twitter.com/a/status/42", Mode: url2mda.ModeText})
		require.NoError(t, err)

		assert.Equal(t, int64(1), fetches.Load())
	})
}

func TestConvert_Profile(t *testing.T) {
	t.Parallel()

	profilePage := `<html><body>
		<h2>Jane Doe</h2>
		<div data-testid="UserDescription">Building things.</div>
		<article>First post text</article>
		<article>Second post text</article>
	</body></html>`

	var gotOpts url2mda.RenderOptions
	cache := mock.NewCache()
	e := testEngine()
	e.Cache = cache
	e.Renderer = &mock.Renderer{
		EnsureFn: func(ctx context.Context) error { return nil },
		RenderFn: func(ctx context.Context, url string, opts url2mda.RenderOptions) (string, error) {
			gotOpts = opts
			return profilePage, nil
		},
	}

	batch, err := e.Convert(context.Background(), &url2mda.Request{
		URL:  "https://x.com/janedoe",
		Mode: url2mda.ModeText,
	})
	require.NoError(t, err)

	md := batch.Results[0].Markdown
	assert.Contains(t, md, "# Jane Doe (@janedoe)")
	assert.Contains(t, md, "Building things.")
	assert.Contains(t, md, "### Tweet 1\nFirst post text")
	assert.Contains(t, md, "### Tweet 2\nSecond post text")
	assert.Contains(t, md, "Profile URL: https://x.com/janedoe")

	// Lazy-loading knobs passed to the renderer.
	assert.Equal(t, "article", gotOpts.WaitSelector)
	assert.Equal(t, 10*time.Second, gotOpts.WaitSelectorTimeout)
	assert.Equal(t, 2000, gotOpts.ScrollBy)
	assert.Equal(t, 2*time.Second, gotOpts.ScrollDelay)

	// Profile output is never cached.
	assert.Equal(t, 0, cache.Len())
}

func TestConvert_Forum(t *testing.T) {
	t.Parallel()

	posts := []*url2mda.ForumPost{
		{
			Title:       "Big announcement",
			Author:      "someone",
			Score:       1234,
			NumComments: 56,
			Created:     time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
			SelfText:    "Lots of text here.",
			URL:         "https://www.reddit.com/r/golang/comments/abc/big_announcement/",
			Permalink:   "/r/golang/comments/abc/big_announcement/",
		},
		{
			Title:       "Interesting link",
			Author:      "other",
			Score:       10,
			NumComments: 2,
			Created:     time.Date(2024, 3, 2, 8, 30, 0, 0, time.UTC),
			URL:         "https://blog.example.com/post",
			Permalink:   "/r/golang/comments/def/interesting_link/",
		},
	}

	t.Run("formats and caches listing", func(t *testing.T) {
		t.Parallel()

		cache := mock.NewCache()
		e := testEngine()
		e.Cache = cache
		e.Forums = &mock.ForumService{HotPostsFn: func(ctx context.Context, community string, limit int) ([]*url2mda.ForumPost, error) {
			assert.Equal(t, "golang", community)
			assert.Equal(t, engine.ForumPostLimit, limit)
			return posts, nil
		}}

		batch, err := e.Convert(context.Background(), &url2mda.Request{
			URL:  "https://www.reddit.com/r/golang/",
			Mode: url2mda.ModeText,
		})
		require.NoError(t, err)

		md := batch.Results[0].Markdown
		assert.Contains(t, md, "# Hot posts in r/golang")
		assert.Contains(t, md, "## Big announcement")
		assert.Contains(t, md, "u/someone")
		assert.Contains(t, md, "1234 points")
		assert.Contains(t, md, "56 comments")
		assert.Contains(t, md, "Lots of text here.")
		assert.Contains(t, md, "Link: https://blog.example.com/post")
		assert.Contains(t, md, "[View post](https://www.reddit.com/r/golang/comments/abc/big_announcement/)")
		assert.NotContains(t, md, "Link: https://www.reddit.com", "self posts carry no external link line")

		assert.Equal(t, 1, cache.Len())
	})

	t.Run("short output not cached", func(t *testing.T) {
		t.Parallel()

		cache := mock.NewCache()
		e := testEngine()
		e.Cache = cache
		e.Forums = &mock.ForumService{HotPostsFn: func(ctx context.Context, community string, limit int) ([]*url2mda.ForumPost, error) {
			return nil, nil
		}}

		batch, err := e.Convert(context.Background(), &url2mda.Request{
			URL:  "https://www.reddit.com/r/x/",
			Mode: url2mda.ModeText,
		})
		require.NoError(t, err)
		assert.False(t, batch.Results[0].Error)
		assert.Equal(t, 0, cache.Len())
	})

	t.Run("service failure", func(t *testing.T) {
		t.Parallel()

		e := testEngine()
		e.Forums = &mock.ForumService{HotPostsFn: func(ctx context.Context, community string, limit int) ([]*url2mda.ForumPost, error) {
			return nil, url2mda.Errorf(url2mda.ERATELIMIT, "rate limited by reddit API (authenticated)")
		}}

		batch, err := e.Convert(context.Background(), &url2mda.Request{
			URL:  "https://www.reddit.com/r/golang/",
			Mode: url2mda.ModeText,
		})
		require.NoError(t, err)
		assert.True(t, batch.Results[0].Error)
		assert.Equal(t, "Failed to fetch community posts", batch.Results[0].Markdown)
	})
}

func TestCallerLimiter(t *testing.T) {
	t.Parallel()

	t.Run("independent buckets per caller", func(t *testing.T) {
		t.Parallel()

		l := engine.NewCallerLimiter(1, 1)
		ctx := context.Background()

		ok, err := l.Allow(ctx, "1.2.3.4")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = l.Allow(ctx, "1.2.3.4")
		require.NoError(t, err)
		assert.False(t, ok, "burst of 1 exhausted")

		ok, err = l.Allow(ctx, "5.6.7.8")
		require.NoError(t, err)
		assert.True(t, ok, "other callers unaffected")
	})

	t.Run("burst admits consecutive requests", func(t *testing.T) {
		t.Parallel()

		l := engine.NewCallerLimiter(1, 3)
		ctx := context.Background()

		for i := 0; i < 3; i++ {
			ok, err := l.Allow(ctx, "ip")
			require.NoError(t, err)
			assert.True(t, ok)
		}
		ok, err := l.Allow(ctx, "ip")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
