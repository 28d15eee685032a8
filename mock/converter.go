package mock

import "github.com/snoai/url2mda"

var _ url2mda.Converter = (*Converter)(nil)

// Converter is a mock implementation of url2mda.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
