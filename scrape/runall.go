package scrape

import (
	"context"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"
)

// Source pairs a named job with the stream it should scrape.
type Source struct {
	Name   string
	Job    *Job
	Reader io.Reader
}

// RunAll scrapes independent sources concurrently and returns their
// records keyed by source name. Each stream is still consumed by exactly
// one goroutine, so the single-threaded contract of the core holds per
// source. The first failure cancels the remaining jobs.
func RunAll(ctx context.Context, sources []Source) (map[string][]Record, error) {
	g, ctx := errgroup.WithContext(ctx)

	results := make([][]Record, len(sources))
	for i, src := range sources {
		g.Go(func() error {
			records, err := src.Job.Run(ctx, src.Reader)
			if err != nil {
				return fmt.Errorf("%s: %w", src.Name, err)
			}
			results[i] = records
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string][]Record, len(sources))
	for i, src := range sources {
		out[src.Name] = results[i]
	}
	return out, nil
}
