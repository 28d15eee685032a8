// Package trafilatura implements summary-mode content isolation using
// go-trafilatura. It is the primary extractor for generic pages; the
// readability package serves as its fallback.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/markusmobius/go-trafilatura"
	"github.com/snoai/url2mda"
	"golang.org/x/net/html"
)

// Ensure Extractor implements url2mda.Extractor at compile time.
var _ url2mda.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to isolate main content from rendered HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes rendered HTML and returns the main content with
// navigation, ads and other boilerplate removed.
func (e *Extractor) Extract(rawHTML string) (*url2mda.ExtractResult, error) {
	if rawHTML == "" {
		return nil, url2mda.Errorf(url2mda.EINVALID, "empty HTML input")
	}

	opts := trafilatura.Options{
		EnableFallback: true,
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, err
	}

	var contentHTML string
	if result.ContentNode != nil {
		contentHTML, err = renderNode(result.ContentNode)
		if err != nil {
			return nil, err
		}
	}
	if strings.TrimSpace(contentHTML) == "" {
		return nil, url2mda.Errorf(url2mda.ENOTFOUND, "no main content found")
	}

	return &url2mda.ExtractResult{
		Title:       result.Metadata.Title,
		ContentHTML: contentHTML,
	}, nil
}

// renderNode converts an html.Node to a string.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
