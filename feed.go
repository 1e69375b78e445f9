package snip

import (
	"context"
	"io"
	"time"
)

// FeedFormat identifies the syndication format of a parsed feed.
type FeedFormat string

// Supported feed formats.
const (
	FeedRSS  FeedFormat = "rss"
	FeedAtom FeedFormat = "atom"
)

// Enclosure is a media attachment on a feed item, e.g. a podcast episode.
type Enclosure struct {
	URL    string `json:"url"`
	Type   string `json:"type,omitempty"`
	Length int64  `json:"length,omitempty"`
}

// FeedItem is a single entry of a syndication feed. Well-known child
// elements are mapped to typed fields; anything else lands in Extra keyed
// by the element's local name.
type FeedItem struct {
	Title      string              `json:"title,omitempty"`
	Link       string              `json:"link,omitempty"`
	GUID       string              `json:"guid,omitempty"`
	Summary    string              `json:"summary,omitempty"`
	Author     string              `json:"author,omitempty"`
	Categories []string            `json:"categories,omitempty"`
	Published  time.Time           `json:"published,omitzero"`
	Updated    time.Time           `json:"updated,omitzero"`
	Enclosures []Enclosure         `json:"enclosures,omitempty"`
	Extra      map[string][]string `json:"extra,omitempty"`
}

// Feed is a parsed RSS or Atom document. Items appear in document order,
// which for feed-like sources is newest-first; reverse for chronological
// processing.
type Feed struct {
	Format      FeedFormat `json:"format"`
	Title       string     `json:"title,omitempty"`
	Link        string     `json:"link,omitempty"`
	Description string     `json:"description,omitempty"`
	Items       []FeedItem `json:"items"`
}

// FeedParser parses a syndication feed from a readable stream.
type FeedParser interface {
	// Parse reads the whole stream and returns the feed.
	// Unrecognizable feed formats return EINVALID.
	Parse(ctx context.Context, r io.Reader) (*Feed, error)
}

// feedTimeLayouts are tried in order by ParseFeedTime. RSS dates follow
// RFC 1123, Atom dates RFC 3339; both appear in the wild with and without
// zone or sub-second precision.
var feedTimeLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999999",
}

// ParseFeedTime parses a feed date string in any of the common RSS and
// Atom layouts. Unrecognizable values return EINVALID.
func ParseFeedTime(s string) (time.Time, error) {
	for _, layout := range feedTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, Errorf(EINVALID, "could not match date format: %q", s)
}
