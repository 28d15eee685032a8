package mock

import "github.com/snoai/url2mda"

var _ url2mda.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of url2mda.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*url2mda.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*url2mda.ExtractResult, error) {
	return e.ExtractFn(html)
}
