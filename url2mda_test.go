package url2mda_test

import (
	"errors"
	"testing"

	"github.com/snoai/url2mda"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := url2mda.Errorf(url2mda.ENOTFOUND, "tweet %q not found", "12345")

	assert.Equal(t, url2mda.ENOTFOUND, url2mda.ErrorCode(err))
	assert.Equal(t, "tweet \"12345\" not found", url2mda.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, url2mda.ErrorCode(nil))
}

func TestErrorCode_NonApplicationError(t *testing.T) {
	t.Parallel()

	assert.Equal(t, url2mda.EINTERNAL, url2mda.ErrorCode(errors.New("boom")))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, url2mda.ErrorMessage(nil))
}

func TestRequestValidate(t *testing.T) {
	t.Parallel()

	t.Run("valid single page request", func(t *testing.T) {
		t.Parallel()
		req := &url2mda.Request{URL: "https://example.com/article", Mode: url2mda.ModeText}
		assert.NoError(t, req.Validate())
	})

	t.Run("missing URL", func(t *testing.T) {
		t.Parallel()
		req := &url2mda.Request{Mode: url2mda.ModeText}
		assert.Equal(t, url2mda.EINVALID, url2mda.ErrorCode(req.Validate()))
	})

	t.Run("non-http scheme", func(t *testing.T) {
		t.Parallel()
		req := &url2mda.Request{URL: "ftp://example.com", Mode: url2mda.ModeText}
		assert.Equal(t, url2mda.EINVALID, url2mda.ErrorCode(req.Validate()))
	})

	t.Run("subpages require JSON mode", func(t *testing.T) {
		t.Parallel()
		req := &url2mda.Request{URL: "https://example.com", CrawlSubpages: true, Mode: url2mda.ModeText}
		err := req.Validate()
		assert.Equal(t, url2mda.EINVALID, url2mda.ErrorCode(err))
		assert.Contains(t, url2mda.ErrorMessage(err), "JSON content type")
	})

	t.Run("subpages allowed with JSON mode", func(t *testing.T) {
		t.Parallel()
		req := &url2mda.Request{URL: "https://example.com", CrawlSubpages: true, Mode: url2mda.ModeJSON}
		assert.NoError(t, req.Validate())
	})
}

func TestBatchDegraded(t *testing.T) {
	t.Parallel()

	ok := &url2mda.Result{URL: "https://a.com", Markdown: "# A"}
	limited := &url2mda.Result{URL: "https://b.com", Markdown: url2mda.RateLimitedMessage, Error: true}
	failed := &url2mda.Result{URL: "https://c.com", Markdown: "Failed to process page", Error: true}

	assert.False(t, (&url2mda.Batch{Results: []*url2mda.Result{ok, failed}}).Degraded())
	assert.True(t, (&url2mda.Batch{Results: []*url2mda.Result{ok, limited}}).Degraded())
}
