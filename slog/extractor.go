// Package slog provides logging decorators for the core interfaces,
// using the standard library structured logger.
package slog

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/snipgo/snip"
)

// Ensure LoggingExtractor implements snip.FragmentExtractor.
var _ snip.FragmentExtractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps a FragmentExtractor with per-run summary logging.
type LoggingExtractor struct {
	next   snip.FragmentExtractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next snip.FragmentExtractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// Extract delegates to the wrapped extractor, counting emitted fragments,
// and logs one summary line per run.
func (e *LoggingExtractor) Extract(ctx context.Context, r io.Reader, sink snip.FragmentSink) error {
	begin := time.Now()
	fragments := 0
	bytes := 0

	err := e.next.Extract(ctx, r, func(fragment string) error {
		fragments++
		bytes += len(fragment)
		return sink(fragment)
	})

	if err != nil {
		e.logger.Error("extract",
			"fragments", fragments,
			"err", err,
			"duration", time.Since(begin))
		return err
	}

	e.logger.Info("extract",
		"fragments", fragments,
		"bytes", bytes,
		"duration", time.Since(begin))
	return nil
}
