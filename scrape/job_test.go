package scrape_test

import (
	"context"
	"strings"
	"testing"

	"github.com/snipgo/snip"
	"github.com/snipgo/snip/html"
	"github.com/snipgo/snip/scrape"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const newsDoc = `<html><body><ul>
<li class="post"><a href="/news/3">Third</a><p>newest</p></li>
<li class="post"><a href="/news/2">Second</a><p>middle</p></li>
<li class="post"><a href="/news/1">First</a><p>oldest</p></li>
</ul></body></html>`

func newNewsJob(t *testing.T) *scrape.Job {
	t.Helper()

	extractor, err := html.NewExtractor("li.post")
	require.NoError(t, err)

	fields := snip.NewFieldSet()
	require.NoError(t, fields.AddPattern("url", `<a href="([^"]*)"`))
	require.NoError(t, fields.AddPattern("title", `<a [^>]*>([\s\S]*?)</a>`))

	return &scrape.Job{Extractor: extractor, Fields: fields}
}

func TestJob_Run(t *testing.T) {
	t.Parallel()

	t.Run("one record per fragment, in document order", func(t *testing.T) {
		t.Parallel()

		job := newNewsJob(t)

		records, err := job.Run(context.Background(), strings.NewReader(newsDoc))

		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, "/news/3", records[0].Fields["url"].Value)
		assert.Equal(t, "Third", records[0].Fields["title"].Value)
		assert.Equal(t, "/news/1", records[2].Fields["url"].Value)
		assert.NotEmpty(t, records[0].Fingerprint)
	})

	t.Run("reverse yields oldest-first", func(t *testing.T) {
		t.Parallel()

		job := newNewsJob(t)
		job.Reverse = true

		records, err := job.Run(context.Background(), strings.NewReader(newsDoc))

		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, "/news/1", records[0].Fields["url"].Value)
		assert.Equal(t, "/news/3", records[2].Fields["url"].Value)
	})

	t.Run("template renders into the record", func(t *testing.T) {
		t.Parallel()

		job := newNewsJob(t)
		job.Template = `<a href="https://example.com{#url#}">{#title#}</a>`

		records, err := job.Run(context.Background(), strings.NewReader(newsDoc))

		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, `<a href="https://example.com/news/3">Third</a>`, records[0].Rendered)
	})

	t.Run("template with unknown placeholder fails", func(t *testing.T) {
		t.Parallel()

		job := newNewsJob(t)
		job.Template = "{#title#}: {#missing#}"

		_, err := job.Run(context.Background(), strings.NewReader(newsDoc))

		require.Error(t, err)
		assert.Equal(t, snip.ENOTFOUND, snip.ErrorCode(err))
	})

	t.Run("key field drops in-run duplicates", func(t *testing.T) {
		t.Parallel()

		doc := `<html><body><ul>
<li class="post"><a href="/news/1">First</a></li>
<li class="post"><a href="/news/1">First again</a></li>
<li class="post"><a href="/news/2">Second</a></li>
</ul></body></html>`
		job := newNewsJob(t)
		job.KeyField = "url"

		records, err := job.Run(context.Background(), strings.NewReader(doc))

		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "First", records[0].Fields["title"].Value)
		assert.Equal(t, "Second", records[1].Fields["title"].Value)
	})

	t.Run("records with unmatched key field are kept", func(t *testing.T) {
		t.Parallel()

		doc := `<html><body><ul>
<li class="post">no link here</li>
<li class="post">still no link</li>
</ul></body></html>`
		job := newNewsJob(t)
		job.KeyField = "url"

		records, err := job.Run(context.Background(), strings.NewReader(doc))

		require.NoError(t, err)
		assert.Len(t, records, 2)
	})

	t.Run("missing extractor fails fast", func(t *testing.T) {
		t.Parallel()

		job := &scrape.Job{Fields: snip.NewFieldSet()}

		_, err := job.Run(context.Background(), strings.NewReader(""))

		require.Error(t, err)
		assert.Equal(t, snip.EINVALID, snip.ErrorCode(err))
	})
}

func TestFingerprint(t *testing.T) {
	t.Parallel()

	a := scrape.Fingerprint(`<li>a</li>`)
	b := scrape.Fingerprint(`<li>a</li>`)
	c := scrape.Fingerprint(`<li>b</li>`)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.NotEmpty(t, a)
}

func TestRunAll(t *testing.T) {
	t.Parallel()

	t.Run("returns records keyed by source name", func(t *testing.T) {
		t.Parallel()

		sources := []scrape.Source{
			{Name: "news", Job: newNewsJob(t), Reader: strings.NewReader(newsDoc)},
			{Name: "empty", Job: newNewsJob(t), Reader: strings.NewReader("<html><body></body></html>")},
		}

		got, err := scrape.RunAll(context.Background(), sources)

		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Len(t, got["news"], 3)
		assert.Empty(t, got["empty"])
	})

	t.Run("failure names the offending source", func(t *testing.T) {
		t.Parallel()

		nested := `<html><body><li class="post"><li class="post">x</li></li></body></html>`
		sources := []scrape.Source{
			{Name: "good", Job: newNewsJob(t), Reader: strings.NewReader(newsDoc)},
			{Name: "bad", Job: newNewsJob(t), Reader: strings.NewReader(nested)},
		}

		_, err := scrape.RunAll(context.Background(), sources)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "bad:")
	})
}
