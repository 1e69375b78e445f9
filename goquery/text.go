// Package goquery provides a plain-text renderer for extracted fragments,
// built on the goquery document model.
package goquery

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/snipgo/snip"
	"golang.org/x/net/html"
)

// Ensure TextConverter implements snip.Converter at compile time.
var _ snip.Converter = (*TextConverter)(nil)

// blockTags end with a line break when rendered as text.
var blockTags = map[string]bool{
	"p": true, "div": true, "li": true, "ul": true, "ol": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"tr": true, "table": true, "section": true, "article": true,
	"header": true, "footer": true, "blockquote": true, "pre": true,
}

var blankLinesRE = regexp.MustCompile(`[\n\r]{2,}`)

// TextConverter renders fragment markup as plain text suitable for chat
// messages or terminals: anchors keep their target as "text (url)",
// images collapse to an [IMG: ...] marker, block boundaries become
// newlines and all other tags are stripped. Entities are unescaped.
type TextConverter struct{}

// NewTextConverter creates a new TextConverter.
func NewTextConverter() *TextConverter {
	return &TextConverter{}
}

// Convert transforms the fragment HTML into plain text.
func (c *TextConverter) Convert(fragment string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return "", snip.Errorf(snip.EINVALID, "parse fragment: %v", err)
	}

	var b strings.Builder
	for _, node := range doc.Find("body").Nodes {
		renderChildren(&b, node)
	}

	text := strings.ReplaceAll(b.String(), "\u00a0", " ")
	text = blankLinesRE.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text), nil
}

func renderNode(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
	case html.ElementNode:
		switch n.Data {
		case "img":
			b.WriteString(imageMarker(n))
		case "a":
			renderAnchor(b, n)
		case "br":
			b.WriteString("\n")
		case "script", "style":
			// not content
		default:
			renderChildren(b, n)
			if blockTags[n.Data] {
				b.WriteString("\n")
			}
		}
	}
}

func renderChildren(b *strings.Builder, n *html.Node) {
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		renderNode(b, child)
	}
}

// renderAnchor writes the anchor's text followed by its target in
// parentheses, e.g. "Example (https://example.com)".
func renderAnchor(b *strings.Builder, n *html.Node) {
	var inner strings.Builder
	renderChildren(&inner, n)
	text := strings.TrimSpace(inner.String())
	href := attrValue(n, "href")

	switch {
	case text == "":
		b.WriteString(href)
	case href == "":
		b.WriteString(text)
	default:
		b.WriteString(text + " (" + href + ")")
	}
}

// imageMarker renders an image as "[IMG: src, alt]", dropping the alt
// part when the image has none.
func imageMarker(n *html.Node) string {
	src := attrValue(n, "src")
	if alt := attrValue(n, "alt"); alt != "" {
		return "[IMG: " + src + ", " + alt + "]"
	}
	return "[IMG: " + src + "]"
}

func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
