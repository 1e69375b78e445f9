package html_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/snipgo/snip"
	"github.com/snipgo/snip/html"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewExtractor(t *testing.T) {
	t.Parallel()

	t.Run("rejects combinator selectors", func(t *testing.T) {
		t.Parallel()

		_, err := html.NewExtractor("ul > li")

		require.Error(t, err)
		assert.Equal(t, snip.EINVALID, snip.ErrorCode(err))
	})
}

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("emits the single matching list item", func(t *testing.T) {
		t.Parallel()

		e, err := html.NewExtractor("li.x")
		require.NoError(t, err)
		doc := `<html><body><ul><li class="x">A</li><li class="y">B</li></ul></body></html>`

		fragments, err := e.ExtractAll(context.Background(), strings.NewReader(doc))

		require.NoError(t, err)
		assert.Equal(t, []string{`<li class="x">A</li>`}, fragments)
	})

	t.Run("emits sibling matches in document order", func(t *testing.T) {
		t.Parallel()

		e, err := html.NewExtractor("div")
		require.NoError(t, err)
		doc := `<html><body><div id="1"><p>one</p></div><div id="2">two</div></body></html>`

		fragments, err := e.ExtractAll(context.Background(), strings.NewReader(doc))

		require.NoError(t, err)
		assert.Equal(t, []string{
			`<div id="1"><p>one</p></div>`,
			`<div id="2">two</div>`,
		}, fragments)
	})

	t.Run("keeps nested tags and raw text verbatim", func(t *testing.T) {
		t.Parallel()

		e, err := html.NewExtractor(".entry")
		require.NoError(t, err)
		doc := "<html><body><article class=\"entry wide\">\n  <h2>Title &amp; more</h2>\n  <p>body</p>\n</article></body></html>"

		fragments, err := e.ExtractAll(context.Background(), strings.NewReader(doc))

		require.NoError(t, err)
		require.Len(t, fragments, 1)
		assert.Equal(t, "<article class=\"entry wide\">\n  <h2>Title &amp; more</h2>\n  <p>body</p>\n</article>", fragments[0])
	})

	t.Run("tolerates void elements without end tags", func(t *testing.T) {
		t.Parallel()

		e, err := html.NewExtractor("div.x")
		require.NoError(t, err)
		doc := `<html><body><div class="x">a<img src="i.png">b<br/>c</div></body></html>`

		fragments, err := e.ExtractAll(context.Background(), strings.NewReader(doc))

		require.NoError(t, err)
		assert.Equal(t, []string{`<div class="x">a<img src="i.png">b<br/>c</div>`}, fragments)
	})

	t.Run("drops comments from the fragment", func(t *testing.T) {
		t.Parallel()

		e, err := html.NewExtractor("div.x")
		require.NoError(t, err)
		doc := `<html><body><div class="x">a<!-- hidden -->b</div></body></html>`

		fragments, err := e.ExtractAll(context.Background(), strings.NewReader(doc))

		require.NoError(t, err)
		assert.Equal(t, []string{`<div class="x">ab</div>`}, fragments)
	})

	t.Run("synthesizes lowercase closing tags", func(t *testing.T) {
		t.Parallel()

		e, err := html.NewExtractor("div.x")
		require.NoError(t, err)
		doc := `<html><body><DIV class="x">a</DIV></body></html>`

		fragments, err := e.ExtractAll(context.Background(), strings.NewReader(doc))

		require.NoError(t, err)
		assert.Equal(t, []string{`<DIV class="x">a</div>`}, fragments)
	})

	t.Run("unterminated match emits nothing", func(t *testing.T) {
		t.Parallel()

		e, err := html.NewExtractor("div.x")
		require.NoError(t, err)
		doc := `<html><body><div class="x">never closed`

		fragments, err := e.ExtractAll(context.Background(), strings.NewReader(doc))

		require.NoError(t, err)
		assert.Empty(t, fragments)
	})

	t.Run("nested selector match fails with conflict", func(t *testing.T) {
		t.Parallel()

		e, err := html.NewExtractor("div")
		require.NoError(t, err)
		doc := `<html><body><div><div>inner</div></div></body></html>`

		_, err = e.ExtractAll(context.Background(), strings.NewReader(doc))

		require.Error(t, err)
		assert.Equal(t, snip.ECONFLICT, snip.ErrorCode(err))
	})

	t.Run("unmatched closing tag fails with invalid", func(t *testing.T) {
		t.Parallel()

		e, err := html.NewExtractor("div.x")
		require.NoError(t, err)
		doc := `<html><body></section>`

		_, err = e.ExtractAll(context.Background(), strings.NewReader(doc))

		require.Error(t, err)
		assert.Equal(t, snip.EINVALID, snip.ErrorCode(err))
	})

	t.Run("is deterministic across runs", func(t *testing.T) {
		t.Parallel()

		e, err := html.NewExtractor("li")
		require.NoError(t, err)
		doc := `<html><body><ul><li>a</li><li>b</li><li>c</li></ul></body></html>`

		first, err := e.ExtractAll(context.Background(), strings.NewReader(doc))
		require.NoError(t, err)
		second, err := e.ExtractAll(context.Background(), strings.NewReader(doc))
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Len(t, first, 3)
	})

	t.Run("sink error stops extraction", func(t *testing.T) {
		t.Parallel()

		e, err := html.NewExtractor("li")
		require.NoError(t, err)
		doc := `<html><body><ul><li>a</li><li>b</li></ul></body></html>`
		stop := errors.New("stop")

		var got []string
		err = e.Extract(context.Background(), strings.NewReader(doc), func(fragment string) error {
			got = append(got, fragment)
			return stop
		})

		assert.ErrorIs(t, err, stop)
		assert.Equal(t, []string{"<li>a</li>"}, got)
	})

	t.Run("honors context cancellation", func(t *testing.T) {
		t.Parallel()

		e, err := html.NewExtractor("li")
		require.NoError(t, err)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err = e.ExtractAll(ctx, strings.NewReader("<ul><li>a</li></ul>"))

		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("read failure is reported after emitted fragments stand", func(t *testing.T) {
		t.Parallel()

		e, err := html.NewExtractor("li")
		require.NoError(t, err)
		boom := errors.New("connection reset")
		r := io.MultiReader(
			strings.NewReader("<html><body><ul><li>a</li>"),
			&failingReader{err: boom},
		)

		var got []string
		err = e.Extract(context.Background(), r, func(fragment string) error {
			got = append(got, fragment)
			return nil
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, []string{"<li>a</li>"}, got)
	})
}

// failingReader fails every read with a fixed error.
type failingReader struct {
	err error
}

func (r *failingReader) Read(p []byte) (int, error) {
	return 0, r.err
}
