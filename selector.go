package snip

import (
	"slices"
	"strings"
)

// Attr is a single attribute on a markup element, in document order.
type Attr struct {
	Key string
	Val string
}

// Selector matches a single tag with zero or more required CSS classes,
// e.g. "article.entry" or ".card.wide". The tag is optional and classes
// are ANDed. Descendant and sibling combinators are not supported.
type Selector struct {
	Tag     string
	Classes []string
}

// ParseSelector parses a selector string of the form "tag.class1.class2".
// Selectors containing whitespace or the '>' or '+' combinators are
// rejected with EINVALID.
func ParseSelector(s string) (*Selector, error) {
	if strings.ContainsAny(s, " >+") {
		return nil, Errorf(EINVALID, "no support for nested tags: %q", s)
	}
	parts := strings.Split(s, ".")
	return &Selector{
		Tag:     parts[0],
		Classes: parts[1:],
	}, nil
}

// Matches reports whether an element with the given tag name and attributes
// satisfies the selector. Class matching is exact and order-independent;
// extra classes on the element are ignored. The class attribute key is
// matched case-sensitively and only its first occurrence is consulted.
func (s *Selector) Matches(tag string, attrs []Attr) bool {
	if s.Tag != "" && tag != s.Tag {
		return false
	}
	if len(s.Classes) == 0 {
		return true
	}
	for _, a := range attrs {
		if a.Key != "class" {
			continue
		}
		classes := strings.Fields(a.Val)
		for _, want := range s.Classes {
			if !slices.Contains(classes, want) {
				return false
			}
		}
		return true
	}
	return false
}
