package snip

import (
	"encoding/json"
	"regexp"
	"slices"
	"strings"
)

// FieldMatcher extracts a single value from a fragment's text.
type FieldMatcher interface {
	// Find returns the extracted value and whether the text matched at all.
	Find(text string) (string, bool)
}

// Ensure Matcher implements FieldMatcher at compile time.
var _ FieldMatcher = (*Matcher)(nil)

var whitespaceRE = regexp.MustCompile(`\s+`)

// Matcher is a regexp-backed FieldMatcher. It extracts the first capture
// group of its pattern. Use `[\s\S]*?` inside the pattern to match
// multi-line content.
type Matcher struct {
	re      *regexp.Regexp
	cleanup bool
}

// NewMatcher compiles pattern into a Matcher. The pattern must contain at
// least one capture group; the first one is the extracted value. With
// cleanup enabled every run of whitespace (including newlines) in the
// extracted value is collapsed to a single space and the ends are trimmed.
func NewMatcher(pattern string, cleanup bool) (*Matcher, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, Errorf(EINVALID, "invalid field pattern %q: %v", pattern, err)
	}
	if re.NumSubexp() < 1 {
		return nil, Errorf(EINVALID, "field pattern %q must contain a capture group", pattern)
	}
	return &Matcher{re: re, cleanup: cleanup}, nil
}

// Find runs the pattern against text and returns the first capture group.
// The second return value is false if the pattern did not match.
func (m *Matcher) Find(text string) (string, bool) {
	groups := m.re.FindStringSubmatch(text)
	if groups == nil {
		return "", false
	}
	val := groups[1]
	if m.cleanup {
		val = whitespaceRE.ReplaceAllString(strings.TrimSpace(val), " ")
	}
	return val, true
}

// Result is the memoized outcome of one field lookup. A Result with
// Matched false represents a field whose pattern found nothing; this is
// not an error and is cached like any other outcome.
type Result struct {
	Value   string
	Matched bool
}

// MarshalJSON renders an unmatched Result as null and a matched one as the
// plain string value.
func (r Result) MarshalJSON() ([]byte, error) {
	if !r.Matched {
		return []byte("null"), nil
	}
	return json.Marshal(r.Value)
}

// String returns the value, or the empty string when unmatched.
func (r Result) String() string {
	return r.Value
}

var placeholderRE = regexp.MustCompile(`\{#(.*?)#\}`)

// FieldSet is a named collection of FieldMatchers bound to a current text.
// Lookups are lazy and memoized: each field is evaluated at most once per
// binding, and rebinding invalidates the whole cache.
//
// A FieldSet is not safe for concurrent use.
type FieldSet struct {
	matchers map[string]FieldMatcher
	names    []string
	text     string
	cache    map[string]Result
}

// NewFieldSet returns an empty FieldSet bound to the empty string.
func NewFieldSet() *FieldSet {
	return &FieldSet{
		matchers: make(map[string]FieldMatcher),
		cache:    make(map[string]Result),
	}
}

// Add registers a matcher under the given field name, replacing any
// previous matcher with that name.
func (fs *FieldSet) Add(name string, m FieldMatcher) {
	if _, ok := fs.matchers[name]; !ok {
		fs.names = append(fs.names, name)
	}
	fs.matchers[name] = m
}

// AddPattern compiles pattern with whitespace cleanup enabled and registers
// it under name.
func (fs *FieldSet) AddPattern(name, pattern string) error {
	m, err := NewMatcher(pattern, true)
	if err != nil {
		return err
	}
	fs.Add(name, m)
	return nil
}

// AddPatternRaw compiles pattern with whitespace cleanup disabled and
// registers it under name.
func (fs *FieldSet) AddPatternRaw(name, pattern string) error {
	m, err := NewMatcher(pattern, false)
	if err != nil {
		return err
	}
	fs.Add(name, m)
	return nil
}

// Names returns the field names in registration order.
func (fs *FieldSet) Names() []string {
	return slices.Clone(fs.names)
}

// Bind replaces the current text and clears the cache entirely.
// It returns the FieldSet for call chaining.
func (fs *FieldSet) Bind(text string) *FieldSet {
	fs.text = text
	fs.cache = make(map[string]Result, len(fs.matchers))
	return fs
}

// Get returns the field's result against the bound text, computing it on
// first access and serving it from the cache afterwards. Cached no-match
// results are returned without re-running the pattern. Unknown field names
// return ENOTFOUND.
func (fs *FieldSet) Get(name string) (Result, error) {
	if res, ok := fs.cache[name]; ok {
		return res, nil
	}
	m, ok := fs.matchers[name]
	if !ok {
		return Result{}, Errorf(ENOTFOUND, "unknown field %q", name)
	}
	val, matched := m.Find(fs.text)
	res := Result{Value: val, Matched: matched}
	fs.cache[name] = res
	return res, nil
}

// Resolve forces evaluation of every registered field and returns the
// fully populated name-to-result mapping.
func (fs *FieldSet) Resolve() map[string]Result {
	out := make(map[string]Result, len(fs.matchers))
	for name := range fs.matchers {
		res, _ := fs.Get(name)
		out[name] = res
	}
	return out
}

// Render substitutes every {#name#} placeholder in template with the
// resolved value of that field, or the empty string when the field did not
// match. A placeholder naming an unregistered field returns ENOTFOUND.
func (fs *FieldSet) Render(template string) (string, error) {
	var firstErr error
	out := placeholderRE.ReplaceAllStringFunc(template, func(placeholder string) string {
		name := placeholderRE.FindStringSubmatch(placeholder)[1]
		res, err := fs.Get(name)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			return ""
		}
		return res.Value
	})
	if firstErr != nil {
		return "", firstErr
	}
	return out, nil
}
