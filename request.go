package url2mda

import (
	"context"
	"regexp"
)

// ResponseMode selects the shape of the response body.
type ResponseMode string

// Response modes, selected by the request Content-Type header.
const (
	ModeText ResponseMode = "text"
	ModeJSON ResponseMode = "json"
)

var urlPattern = regexp.MustCompile(`^(http|https)://[^ "]+$`)

// Request describes one inbound conversion request. A request expands to one
// URL, or to up to ten same-origin subpage URLs when CrawlSubpages is set.
type Request struct {
	// URL is the page to convert. Must be a full http or https URL.
	URL string

	// Detailed selects full-DOM extraction over readability-style
	// main-content isolation for generic pages.
	Detailed bool

	// LLMFilter enables the inference-backed cleanup pass on fresh
	// generic extractions.
	LLMFilter bool

	// CrawlSubpages expands the request to same-origin links collected
	// from the rendered base page. Requires ModeJSON.
	CrawlSubpages bool

	// Mode is the response shape requested by the caller.
	Mode ResponseMode

	// CallerKey identifies the caller for rate limiting (typically the
	// client IP). Empty keys are rate limited under a shared bucket.
	CallerKey string

	// AuthToken is the bearer token presented by the caller, if any. A
	// token matching the configured shared secret bypasses rate limiting.
	AuthToken string
}

// Validate returns an error if the request cannot be processed.
func (r *Request) Validate() error {
	if r.URL == "" {
		return Errorf(EINVALID, "url required")
	}
	if !urlPattern.MatchString(r.URL) {
		return Errorf(EINVALID, "invalid URL provided, should be a full URL starting with http:// or https://")
	}
	if r.CrawlSubpages && r.Mode != ModeJSON {
		return Errorf(EINVALID, "crawling subpages requires the JSON content type")
	}
	return nil
}

// Result is the outcome of converting a single URL. It is created once and
// never mutated; batches aggregate results in input order.
type Result struct {
	URL      string `json:"url"`
	Markdown string `json:"md"`
	Error    bool   `json:"error,omitempty"`
	Detail   string `json:"errorDetails,omitempty"`
}

// RateLimited reports whether the result was produced by a rate-limit denial.
func (r *Result) RateLimited() bool {
	return r.Error && r.Markdown == RateLimitedMessage
}

// Messages surfaced verbatim to callers. The rate-limit message doubles as
// the marker that escalates batch status to 429.
const (
	RateLimitedMessage   = "Rate limit exceeded"
	NoSessionMessage     = "Could not start browser session"
	TweetNotFoundMessage = "Tweet not found"
)

// Batch aggregates the results of one request, ordered to match the
// requested URL order.
type Batch struct {
	Results []*Result
}

// Degraded reports whether any result in the batch was rate limited, in
// which case the transport responds 429 instead of 200.
func (b *Batch) Degraded() bool {
	for _, r := range b.Results {
		if r.RateLimited() {
			return true
		}
	}
	return false
}

// Service converts URLs to markdown. Implemented by engine.Engine.
type Service interface {
	// Convert processes a validated request and returns one result per
	// expanded URL. Per-URL failures are reported inside the batch, not
	// as an error; only failures preparing the batch itself (e.g. an
	// unreachable cache) return an error.
	Convert(ctx context.Context, req *Request) (*Batch, error)
}
