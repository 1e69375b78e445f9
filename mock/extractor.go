package mock

import (
	"context"
	"io"

	"github.com/snipgo/snip"
)

var _ snip.FragmentExtractor = (*FragmentExtractor)(nil)

// FragmentExtractor is a mock implementation of snip.FragmentExtractor.
type FragmentExtractor struct {
	ExtractFn func(ctx context.Context, r io.Reader, sink snip.FragmentSink) error
}

func (e *FragmentExtractor) Extract(ctx context.Context, r io.Reader, sink snip.FragmentSink) error {
	return e.ExtractFn(ctx, r, sink)
}
