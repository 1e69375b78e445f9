// Package etree implements RSS and Atom feed parsing on the beevik/etree
// document model. Element matching is namespace-insensitive: only local
// names are consulted, so e.g. dc:creator is treated as creator.
package etree

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/snipgo/snip"
)

// Ensure FeedParser implements snip.FeedParser at compile time.
var _ snip.FeedParser = (*FeedParser)(nil)

// FeedParser parses RSS 2.0 and Atom feeds. The format is detected from
// the document's root element.
type FeedParser struct{}

// NewFeedParser creates a new FeedParser.
func NewFeedParser() *FeedParser {
	return &FeedParser{}
}

// Parse reads the whole stream and returns the parsed feed.
// Items appear in document order. Unrecognizable root elements return
// EINVALID; so do date fields in none of the known RSS/Atom layouts.
func (p *FeedParser) Parse(ctx context.Context, r io.Reader) (*snip.Feed, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("read feed: %w", err)
	}

	root := doc.Root()
	if root == nil {
		return nil, snip.Errorf(snip.EINVALID, "empty feed document")
	}
	switch root.Tag {
	case "rss":
		return parseRSS(root)
	case "feed":
		return parseAtom(root)
	}
	return nil, snip.Errorf(snip.EINVALID, "unrecognizable feed format %q", root.Tag)
}

func parseRSS(root *etree.Element) (*snip.Feed, error) {
	channel := childElement(root, "channel")
	if channel == nil {
		return nil, snip.Errorf(snip.EINVALID, "rss feed has no channel element")
	}

	feed := &snip.Feed{Format: snip.FeedRSS}
	for _, el := range channel.ChildElements() {
		switch el.Tag {
		case "title":
			feed.Title = elementText(el)
		case "link":
			feed.Link = elementText(el)
		case "description":
			feed.Description = elementText(el)
		case "item":
			item, err := parseRSSItem(el)
			if err != nil {
				return nil, fmt.Errorf("item %d: %w", len(feed.Items), err)
			}
			feed.Items = append(feed.Items, item)
		}
	}
	return feed, nil
}

func parseRSSItem(el *etree.Element) (snip.FeedItem, error) {
	var item snip.FeedItem
	for _, child := range el.ChildElements() {
		text := elementText(child)
		switch child.Tag {
		case "title":
			item.Title = text
		case "link":
			item.Link = text
		case "guid":
			item.GUID = text
		case "description":
			item.Summary = text
		case "author", "creator":
			item.Author = text
		case "category":
			item.Categories = append(item.Categories, text)
		case "pubDate":
			published, err := snip.ParseFeedTime(text)
			if err != nil {
				return item, err
			}
			item.Published = published
		case "enclosure":
			item.Enclosures = append(item.Enclosures, parseEnclosure(child))
		default:
			addExtra(&item, child.Tag, text)
		}
	}
	return item, nil
}

func parseAtom(root *etree.Element) (*snip.Feed, error) {
	feed := &snip.Feed{Format: snip.FeedAtom}
	for _, el := range root.ChildElements() {
		switch el.Tag {
		case "title":
			feed.Title = elementText(el)
		case "subtitle":
			feed.Description = elementText(el)
		case "link":
			if href := atomLink(el); href != "" && feed.Link == "" {
				feed.Link = href
			}
		case "entry":
			item, err := parseAtomEntry(el)
			if err != nil {
				return nil, fmt.Errorf("entry %d: %w", len(feed.Items), err)
			}
			feed.Items = append(feed.Items, item)
		}
	}
	return feed, nil
}

func parseAtomEntry(el *etree.Element) (snip.FeedItem, error) {
	var item snip.FeedItem
	for _, child := range el.ChildElements() {
		text := elementText(child)
		switch child.Tag {
		case "title":
			item.Title = text
		case "id":
			item.GUID = text
		case "link":
			if href := atomLink(child); href != "" && item.Link == "" {
				item.Link = href
			}
		case "summary":
			item.Summary = text
		case "content":
			if item.Summary == "" {
				item.Summary = text
			}
		case "author":
			if name := childElement(child, "name"); name != nil {
				item.Author = elementText(name)
			}
		case "category":
			if term := child.SelectAttrValue("term", ""); term != "" {
				item.Categories = append(item.Categories, term)
			}
		case "published":
			published, err := snip.ParseFeedTime(text)
			if err != nil {
				return item, err
			}
			item.Published = published
		case "updated":
			updated, err := snip.ParseFeedTime(text)
			if err != nil {
				return item, err
			}
			item.Updated = updated
		default:
			addExtra(&item, child.Tag, text)
		}
	}
	return item, nil
}

// atomLink returns the href of an atom link element, ignoring rel types
// other than the default "alternate".
func atomLink(el *etree.Element) string {
	rel := el.SelectAttrValue("rel", "alternate")
	if rel != "alternate" {
		return ""
	}
	return el.SelectAttrValue("href", "")
}

func parseEnclosure(el *etree.Element) snip.Enclosure {
	length, _ := strconv.ParseInt(el.SelectAttrValue("length", ""), 10, 64)
	return snip.Enclosure{
		URL:    el.SelectAttrValue("url", ""),
		Type:   el.SelectAttrValue("type", ""),
		Length: length,
	}
}

func addExtra(item *snip.FeedItem, tag, text string) {
	if text == "" {
		return
	}
	if item.Extra == nil {
		item.Extra = make(map[string][]string)
	}
	item.Extra[tag] = append(item.Extra[tag], text)
}

// childElement returns the first child with the given local name,
// regardless of namespace prefix.
func childElement(el *etree.Element, tag string) *etree.Element {
	for _, child := range el.ChildElements() {
		if child.Tag == tag {
			return child
		}
	}
	return nil
}

func elementText(el *etree.Element) string {
	return strings.TrimSpace(el.Text())
}
