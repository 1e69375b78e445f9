// Package html provides a streaming implementation of
// snip.FragmentExtractor on top of the x/net/html tokenizer for isolating
// selector-matched fragments without building a DOM tree.
package html

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/snipgo/snip"
	"golang.org/x/net/html"
)

// Ensure Extractor implements snip.FragmentExtractor at compile time.
var _ snip.FragmentExtractor = (*Extractor)(nil)

// Extractor emits every fragment of a document matched by its selector.
// The selector must not match nested occurrences of itself; such a match
// fails the run with ECONFLICT.
//
// All scanning state lives in the Extract call, so a single Extractor is
// reusable across streams and safe for concurrent use.
type Extractor struct {
	selector *snip.Selector
}

// NewExtractor parses the selector and returns an Extractor for it.
// Invalid selector syntax returns EINVALID.
func NewExtractor(selector string) (*Extractor, error) {
	sel, err := snip.ParseSelector(selector)
	if err != nil {
		return nil, err
	}
	return &Extractor{selector: sel}, nil
}

// Extract tokenizes r forward-only and emits each selector-matched
// fragment to sink in document order. Each fragment is the exact raw
// markup from the matched opening tag to its correctly-nested closing
// tag; a match still open at end of stream is silently dropped.
//
// The tokenizer buffers partial multi-byte sequences across reads, so any
// UTF-8 byte stream is acceptable. Read failures abort the run; fragments
// already handed to the sink remain valid.
func (e *Extractor) Extract(ctx context.Context, r io.Reader, sink snip.FragmentSink) error {
	z := html.NewTokenizer(r)

	var (
		stack       []string     // open tag names, depth = len(stack)
		targetDepth int          // 0 = not currently inside a match
		buf         bytes.Buffer // fragment being accumulated
	)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return fmt.Errorf("read stream: %w", err)
			}
			// An unterminated match emits nothing.
			return nil

		case html.StartTagToken:
			// TagName and TagAttr lowercase the underlying buffer in
			// place, so capture the verbatim form first.
			raw := string(z.Raw())
			name, hasAttr := z.TagName()
			tag := string(name)
			var attrs []snip.Attr
			for hasAttr {
				var k, v []byte
				k, v, hasAttr = z.TagAttr()
				attrs = append(attrs, snip.Attr{Key: string(k), Val: string(v)})
			}
			stack = append(stack, tag)
			if e.selector.Matches(tag, attrs) {
				if targetDepth != 0 {
					return snip.Errorf(snip.ECONFLICT, "selector matched a nested <%s>; adjust the selector to exclude nested occurrences", tag)
				}
				targetDepth = len(stack) - 1
			}
			if targetDepth != 0 {
				buf.WriteString(raw)
			}

		case html.SelfClosingTagToken:
			// Opens and closes at the same level; no depth change.
			if targetDepth != 0 {
				buf.Write(z.Raw())
			}

		case html.TextToken:
			if targetDepth != 0 {
				buf.Write(z.Raw())
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if targetDepth != 0 {
				buf.WriteString("</")
				buf.WriteString(tag)
				buf.WriteString(">")
			}
			// Drop void-element start tags that never closed, e.g. <img>.
			for len(stack) > 0 && stack[len(stack)-1] != tag {
				stack = stack[:len(stack)-1]
			}
			if len(stack) == 0 {
				return snip.Errorf(snip.EINVALID, "unmatched closing tag </%s>", tag)
			}
			stack = stack[:len(stack)-1]
			if targetDepth != 0 && len(stack) == targetDepth {
				targetDepth = 0
				if buf.Len() > 0 {
					if err := sink(buf.String()); err != nil {
						return err
					}
					buf.Reset()
				}
			}
		}
	}
}

// ExtractAll collects every fragment of the stream into a slice.
func (e *Extractor) ExtractAll(ctx context.Context, r io.Reader) ([]string, error) {
	var fragments []string
	err := e.Extract(ctx, r, func(fragment string) error {
		fragments = append(fragments, fragment)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return fragments, nil
}
