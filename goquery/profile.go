package goquery

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/snoai/url2mda"
)

// MaxProfilePosts caps how many post texts are collected from a rendered
// profile timeline.
const MaxProfilePosts = 10

// Profile holds the content scraped from a rendered microblog profile page.
type Profile struct {
	Name  string
	Bio   string
	Posts []string
}

var (
	engagementSuffix = regexp.MustCompile(`\d+K|\d+M`)
	dashSpacing      = regexp.MustCompile(`\s*-\s*`)
	whitespaceRun    = regexp.MustCompile(`\s+`)
)

// ParseProfile collects up to MaxProfilePosts post texts plus display name
// and bio from a rendered profile page. The handle is the fallback display
// name when the DOM carries none.
func ParseProfile(html string, handle string) (*Profile, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, url2mda.Errorf(url2mda.EINVALID, "failed to parse HTML: %v", err)
	}

	p := &Profile{
		Name: handle,
		Bio:  strings.TrimSpace(doc.Find(`[data-testid="UserDescription"]`).First().Text()),
	}
	if name := strings.TrimSpace(doc.Find("h2").First().Text()); name != "" {
		p.Name = name
	}

	doc.Find("article").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := CleanPostText(sel.Text())
		if text != "" {
			p.Posts = append(p.Posts, text)
		}
		return len(p.Posts) < MaxProfilePosts
	})

	return p, nil
}

// CleanPostText normalizes one scraped post: engagement count suffixes
// truncate the text, non-breaking spaces and smart punctuation become plain
// ASCII, and whitespace is collapsed.
func CleanPostText(raw string) string {
	text := raw
	if loc := engagementSuffix.FindStringIndex(text); loc != nil {
		text = text[:loc[0]]
	}
	text = strings.ReplaceAll(text, " ", " ")
	text = strings.ReplaceAll(text, "·", "-")
	text = strings.ReplaceAll(text, "•", "-")
	text = dashSpacing.ReplaceAllString(text, " - ")
	for _, q := range []string{"“", "”"} {
		text = strings.ReplaceAll(text, q, `"`)
	}
	for _, q := range []string{"‘", "’"} {
		text = strings.ReplaceAll(text, q, "'")
	}
	text = whitespaceRun.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
