// Command snip extracts repeated fragments from an HTML document and
// greps named fields out of each one.
//
// With no field specs it prints the raw fragments; with field specs it
// prints one JSON record per fragment; with a template it prints one
// rendered line per fragment.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/snipgo/snip"
	"github.com/snipgo/snip/goquery"
	"github.com/snipgo/snip/html"
	"github.com/snipgo/snip/htmltomarkdown"
	"github.com/snipgo/snip/scrape"
	snipslog "github.com/snipgo/snip/slog"
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
	Template string   `short:"t" help:"Render each record with a template, e.g. '<a href=\"{#url#}\">{#title#}</a>'"`
	Format   string   `enum:"json,text,markdown" default:"json" help:"Raw fragment output format (used when no field specs are given)"`
	Reverse  bool     `short:"r" help:"Emit results oldest-first (reversed document order)"`
	Verbose  bool     `short:"v" help:"Enable debug logging on stderr"`
	File     string   `arg:"" help:"Input HTML file, or - for stdin"`
	Selector string   `arg:"" help:"CSS selector, e.g. article.entry"`
	Fields   []string `arg:"" optional:"" help:"Field specs 'name:regex', e.g. 'url:<a href=\"(.*?)\">'"`
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("snip"),
		kong.Description("Extract repeated fragments from an HTML document and grep fields out of each one"),
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

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	in := stdin
	if cli.File != "-" {
		f, err := os.Open(cli.File)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	var extractor snip.FragmentExtractor
	extractor, err = html.NewExtractor(cli.Selector)
	if err != nil {
		return err
	}
	if cli.Verbose {
		extractor = snipslog.NewLoggingExtractor(extractor, logger)
	}

	if len(cli.Fields) == 0 {
		return runRaw(ctx, cli, extractor, in, stdout)
	}
	return runFields(ctx, cli, extractor, in, stdout, logger)
}

// runRaw prints the matched fragments themselves, without field
// extraction, in the format selected by --format.
func runRaw(ctx context.Context, cli *CLI, extractor snip.FragmentExtractor, in io.Reader, stdout io.Writer) error {
	var convert snip.Converter
	switch cli.Format {
	case "text":
		convert = goquery.NewTextConverter()
	case "markdown":
		convert = htmltomarkdown.NewConverter()
	}

	if cli.Format == "json" {
		var fragments []string
		if err := extractor.Extract(ctx, in, func(fragment string) error {
			fragments = append(fragments, fragment)
			return nil
		}); err != nil {
			return err
		}
		if cli.Reverse {
			slices.Reverse(fragments)
		}
		if fragments == nil {
			fragments = []string{}
		}
		return json.NewEncoder(stdout).Encode(fragments)
	}

	print := func(fragment string) error {
		out, err := convert.Convert(fragment)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(stdout, out)
		return err
	}

	if !cli.Reverse {
		// Stream fragments as they complete.
		return extractor.Extract(ctx, in, print)
	}

	var fragments []string
	if err := extractor.Extract(ctx, in, func(fragment string) error {
		fragments = append(fragments, fragment)
		return nil
	}); err != nil {
		return err
	}
	slices.Reverse(fragments)
	for _, fragment := range fragments {
		if err := print(fragment); err != nil {
			return err
		}
	}
	return nil
}

// runFields resolves the configured fields per fragment and prints one
// JSON record each, or one rendered line each when a template is set.
func runFields(ctx context.Context, cli *CLI, extractor snip.FragmentExtractor, in io.Reader, stdout io.Writer, logger *slog.Logger) error {
	fields := snip.NewFieldSet()
	for _, spec := range cli.Fields {
		name, pattern, ok := strings.Cut(spec, ":")
		if !ok || name == "" {
			return snip.Errorf(snip.EINVALID, "field spec %q is missing a name prefix, expected name:regex", spec)
		}
		if err := fields.AddPattern(name, pattern); err != nil {
			return err
		}
	}

	job := &scrape.Job{
		Extractor: extractor,
		Fields:    fields,
		Template:  cli.Template,
		Reverse:   cli.Reverse,
		Logger:    logger,
	}
	records, err := job.Run(ctx, in)
	if err != nil {
		return err
	}

	if cli.Template != "" {
		for _, rec := range records {
			if _, err := fmt.Fprintln(stdout, rec.Rendered); err != nil {
				return err
			}
		}
		return nil
	}

	out := make([]map[string]snip.Result, 0, len(records))
	for _, rec := range records {
		out = append(out, rec.Fields)
	}
	return json.NewEncoder(stdout).Encode(out)
}
