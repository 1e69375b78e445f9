package mock

import "github.com/snipgo/snip"

var _ snip.Converter = (*Converter)(nil)

// Converter is a mock implementation of snip.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
