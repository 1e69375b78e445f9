package snip

import (
	"context"
	"io"
)

// FragmentSink receives each completed fragment, in document order.
// Returning a non-nil error stops extraction; the error is propagated to
// the Extract caller unchanged.
type FragmentSink func(fragment string) error

// FragmentExtractor streams a markup document and emits the raw serialized
// form of every element matched by its selector, including nested tags,
// from the opening tag to its correctly-nested closing tag.
//
// Fragments are emitted in document order and each fragment is handed to
// the sink before scanning resumes. A match whose subtree has not closed
// by the end of the stream is dropped, never emitted partially. Closing
// the input reader remains the caller's responsibility.
type FragmentExtractor interface {
	Extract(ctx context.Context, r io.Reader, sink FragmentSink) error
}
