// Command snipfeed parses an RSS or Atom feed file into a JSON list of
// items, one object per entry, for piping into downstream tooling.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/alecthomas/kong"
	"github.com/snipgo/snip"
	"github.com/snipgo/snip/etree"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct{}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Key     []string `short:"k" help:"Only include these item fields in the output (repeatable)"`
	Reverse bool     `short:"r" help:"Emit items oldest-first"`
	File    string   `arg:"" help:"Input feed file, or - for stdin"`
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("snipfeed"),
		kong.Description("Parse an RSS or Atom feed into a JSON list of items"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle no arguments
	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no arguments provided")
	}

	// Handle help flags
	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h" || args[0] == "help") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	if _, err := parser.Parse(args); err != nil {
		return err
	}

	in := stdin
	if cli.File != "-" {
		f, err := os.Open(cli.File)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	feed, err := etree.NewFeedParser().Parse(ctx, in)
	if err != nil {
		return err
	}

	items := feed.Items
	if cli.Reverse {
		items = slices.Clone(items)
		slices.Reverse(items)
	}

	if len(cli.Key) == 0 {
		return json.NewEncoder(stdout).Encode(items)
	}

	filtered := make([]map[string]any, 0, len(items))
	for _, item := range items {
		filtered = append(filtered, filterItem(item, cli.Key))
	}
	return json.NewEncoder(stdout).Encode(filtered)
}

// filterItem keeps only the requested fields of an item, matching both
// the well-known field names and Extra keys.
func filterItem(item snip.FeedItem, keys []string) map[string]any {
	known := map[string]any{
		"title":      item.Title,
		"link":       item.Link,
		"guid":       item.GUID,
		"summary":    item.Summary,
		"author":     item.Author,
		"categories": item.Categories,
		"published":  item.Published,
		"updated":    item.Updated,
		"enclosures": item.Enclosures,
	}

	out := make(map[string]any, len(keys))
	for _, key := range keys {
		if vals, ok := item.Extra[key]; ok {
			out[key] = vals
			continue
		}
		if val, ok := known[key]; ok {
			out[key] = val
		}
	}
	return out
}
