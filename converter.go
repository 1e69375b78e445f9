package snip

// Converter renders a fragment's markup into an alternate representation,
// such as plain text or Markdown, for downstream consumers that cannot
// display raw HTML.
type Converter interface {
	// Convert transforms the fragment HTML and returns the rendered form.
	Convert(html string) (string, error)
}
