package mock

import (
	"context"
	"io"

	"github.com/snipgo/snip"
)

var _ snip.FeedParser = (*FeedParser)(nil)

// FeedParser is a mock implementation of snip.FeedParser.
type FeedParser struct {
	ParseFn func(ctx context.Context, r io.Reader) (*snip.Feed, error)
}

func (p *FeedParser) Parse(ctx context.Context, r io.Reader) (*snip.Feed, error) {
	return p.ParseFn(ctx, r)
}
