// Package pipeline ties the stages together: documents in, grid writes out.
package pipeline

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/WatcharananPha/quotegrid/internal/domain"
	"github.com/WatcharananPha/quotegrid/internal/extract"
)

// Batcher is the extraction stage as the pipeline sees it.
type Batcher interface {
	ExtractAll(ctx context.Context, docs []domain.Document) extract.Result
}

// Applier is the layout stage as the pipeline sees it.
type Applier interface {
	Apply(ctx context.Context, records []domain.QuoteRecord) (int, error)
}

// Report summarizes one run. Extraction failures are per-document and do not
// abort the run; only a grid failure does.
type Report struct {
	Written int
	Records []domain.QuoteRecord
	Errors  []domain.DocumentError
}

// Runner executes the full ingestion flow.
type Runner struct {
	batcher Batcher
	applier Applier
	log     zerolog.Logger
}

// NewRunner wires the stages.
func NewRunner(batcher Batcher, applier Applier, log zerolog.Logger) *Runner {
	return &Runner{batcher: batcher, applier: applier, log: log}
}

// Run extracts every document, then applies the surviving records to the
// grid in one pass.
func (r *Runner) Run(ctx context.Context, docs []domain.Document) (Report, error) {
	res := r.batcher.ExtractAll(ctx, docs)
	report := Report{Records: res.Records, Errors: res.Errors}

	r.log.Info().
		Int("documents", len(docs)).
		Int("records", len(res.Records)).
		Int("failures", len(res.Errors)).
		Msg("extraction finished")

	if len(res.Records) == 0 {
		return report, nil
	}

	written, err := r.applier.Apply(ctx, res.Records)
	report.Written = written
	if err != nil {
		return report, err
	}

	r.log.Info().Int("written", written).Msg("grid updated")
	return report, nil
}
