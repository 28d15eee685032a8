package readability_test

import (
	"testing"

	"github.com/snoai/url2mda"
	"github.com/snoai/url2mda/readability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Extractor implements url2mda.Extractor at compile time.
var _ url2mda.Extractor = (*readability.Extractor)(nil)

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("empty input returns EINVALID", func(t *testing.T) {
		t.Parallel()

		ext := readability.NewExtractor()
		_, err := ext.Extract("")

		assert.Equal(t, url2mda.EINVALID, url2mda.ErrorCode(err))
	})

	t.Run("isolates article content", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head><title>How Timeouts Work</title></head>
<body>
<nav><a href="/">Home</a></nav>
<article>
<h1>How Timeouts Work</h1>
<p>Every network wait in this system is individually bounded, so a
slow upstream degrades a single request rather than hanging a batch.</p>
<p>The sections below walk through each timeout in the request path
and the default it ships with, along with guidance on tuning.</p>
</article>
</body>
</html>`

		ext := readability.NewExtractor()
		result, err := ext.Extract(html)

		require.NoError(t, err)
		assert.Contains(t, result.ContentHTML, "individually bounded")
	})
}
