// Package snip turns repeated block-level fragments of an HTML document
// into structured records. A streaming extractor isolates every fragment
// matched by a restricted CSS selector without building a DOM tree, and a
// lazy, cached field set greps named values out of each fragment with
// regular expressions.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., html/, etree/, goquery/).
package snip
