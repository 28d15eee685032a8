// Package readability implements summary-mode content isolation using
// go-readability. It backs up the trafilatura extractor for pages where
// trafilatura finds no usable content.
package readability

import (
	"strings"

	readability "github.com/go-shiori/go-readability"
	"github.com/snoai/url2mda"
)

// Ensure Extractor implements url2mda.Extractor at compile time.
var _ url2mda.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to isolate main content from rendered HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes rendered HTML and returns the main content.
func (e *Extractor) Extract(rawHTML string) (*url2mda.ExtractResult, error) {
	if rawHTML == "" {
		return nil, url2mda.Errorf(url2mda.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(article.Content) == "" {
		return nil, url2mda.Errorf(url2mda.ENOTFOUND, "no main content found")
	}

	return &url2mda.ExtractResult{
		Title:       article.Title,
		ContentHTML: article.Content,
	}, nil
}
