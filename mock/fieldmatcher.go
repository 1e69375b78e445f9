package mock

import "github.com/snipgo/snip"

var _ snip.FieldMatcher = (*FieldMatcher)(nil)

// FieldMatcher is a mock implementation of snip.FieldMatcher.
type FieldMatcher struct {
	FindFn func(text string) (string, bool)
}

func (m *FieldMatcher) Find(text string) (string, bool) {
	return m.FindFn(text)
}
