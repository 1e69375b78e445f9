// Package scrape orchestrates fragment extraction and field resolution
// into structured records, the way site-specific scrapers consume the
// core: one record per matched fragment, in document order.
package scrape

import (
	"context"
	"io"
	"log/slog"
	"slices"

	"github.com/snipgo/snip"
	"github.com/snipgo/snip/bloom"
)

// Seen-filter sizing for a single run.
const (
	seenExpectedRecords   = 10000
	seenFalsePositiveRate = 0.01
)

// Record is one extracted item.
type Record struct {
	// Fields maps each configured field name to its result.
	Fields map[string]snip.Result `json:"fields"`

	// Rendered is the record's template rendering, when the job has one.
	Rendered string `json:"rendered,omitempty"`

	// Fingerprint is a stable hash of the record's raw fragment, suitable
	// as a uid for downstream deduplication.
	Fingerprint string `json:"fingerprint"`
}

// Job extracts records from a single document stream. Each fragment is
// bound to the field set and fully resolved before scanning resumes, so
// records always arrive in document order.
type Job struct {
	Extractor snip.FragmentExtractor
	Fields    *snip.FieldSet

	// Template, when set, is rendered per record into Record.Rendered.
	Template string

	// KeyField, when set, names the field whose value identifies a record
	// within this run; later records with an already-seen key are dropped.
	// Records whose key field does not match are always kept.
	KeyField string

	// Reverse emits records oldest-first, for feed-like sources that list
	// the newest entry at the top.
	Reverse bool

	// Logger is optional.
	Logger *slog.Logger
}

// Run scrapes the stream and returns its records.
func (j *Job) Run(ctx context.Context, r io.Reader) ([]Record, error) {
	if err := j.validate(); err != nil {
		return nil, err
	}

	var seen *bloom.Filter
	if j.KeyField != "" {
		seen = bloom.NewFilter(seenExpectedRecords, seenFalsePositiveRate)
	}

	var records []Record
	err := j.Extractor.Extract(ctx, r, func(fragment string) error {
		j.Fields.Bind(fragment)

		if seen != nil {
			key, err := j.Fields.Get(j.KeyField)
			if err != nil {
				return err
			}
			if key.Matched && seen.TestAndAdd(key.Value) {
				if j.Logger != nil {
					j.Logger.Debug("duplicate record dropped", "key", key.Value)
				}
				return nil
			}
		}

		rec := Record{
			Fields:      j.Fields.Resolve(),
			Fingerprint: Fingerprint(fragment),
		}
		if j.Template != "" {
			rendered, err := j.Fields.Render(j.Template)
			if err != nil {
				return err
			}
			rec.Rendered = rendered
		}
		records = append(records, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if j.Reverse {
		slices.Reverse(records)
	}
	return records, nil
}

// validate reports obviously unusable job wiring before a run starts.
func (j *Job) validate() error {
	if j.Extractor == nil {
		return snip.Errorf(snip.EINVALID, "job has no extractor")
	}
	if j.Fields == nil {
		return snip.Errorf(snip.EINVALID, "job has no field set")
	}
	return nil
}
