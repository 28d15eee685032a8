// Package goquery provides DOM utilities on top of PuerkitoBio/goquery:
// boilerplate stripping for detailed-mode extraction, raw visible-text
// fallback, same-prefix link collection for subpage crawling, and microblog
// profile parsing.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/snoai/url2mda"
)

// FallbackMaxChars caps the raw-text fallback so a degraded extraction stays
// a bounded payload.
const FallbackMaxChars = 10000

// StripBoilerplate removes non-content elements (scripts, styles, embedded
// frames, noscript blocks) from a full document and returns the remaining
// body HTML. Used for detailed-mode generic extraction, where structure is
// kept but executable and presentational noise is not.
func StripBoilerplate(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", url2mda.Errorf(url2mda.EINVALID, "empty HTML input")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", url2mda.Errorf(url2mda.EINVALID, "failed to parse HTML: %v", err)
	}

	doc.Find("script,style,iframe,noscript").Remove()

	// The net/html parser always synthesizes a body element.
	return doc.Find("body").Html()
}

// Title returns the document title, or "Untitled Page" when none is present.
func Title(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "Untitled Page"
	}
	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		return "Untitled Page"
	}
	return title
}

// FallbackText produces the degraded extraction used when content isolation
// or markdown conversion fails: the page title as a heading followed by
// visible text truncated to FallbackMaxChars. A page that rendered never
// yields an error result, only this degraded output.
func FallbackText(html string) string {
	return "## " + Title(html) + "\n\n" + truncate(visibleText(html), FallbackMaxChars)
}

// visibleText returns the concatenated text content of the body with
// scripts and styles removed and whitespace collapsed per line.
func visibleText(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	doc.Find("script,style,noscript").Remove()

	sel := doc.Find("body")
	if sel.Length() == 0 {
		sel = doc.Selection
	}

	var sb strings.Builder
	for _, line := range strings.Split(sel.Text(), "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(line)
	}
	return sb.String()
}

// truncate caps s at n runes so a cut never splits a multi-byte character.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
