// Package extract runs documents through the extractor concurrently and
// normalizes whatever comes back into validated quotation records.
package extract

import (
	"context"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/WatcharananPha/quotegrid/internal/domain"
	"github.com/WatcharananPha/quotegrid/internal/validate"
)

// MaxWorkers caps the extraction pool regardless of batch size.
const MaxWorkers = 10

// Service fans documents out to the extractor. Per-document failures are
// collected, never propagated; a batch only fails as a whole when the context
// is cancelled.
type Service struct {
	extractor domain.Extractor
	workers   int
	revise    bool
	log       zerolog.Logger
}

// NewService builds a service. workers <= 0 selects the default pool size.
func NewService(extractor domain.Extractor, workers int, revise bool, log zerolog.Logger) *Service {
	if workers <= 0 || workers > MaxWorkers {
		workers = MaxWorkers
	}
	return &Service{extractor: extractor, workers: workers, revise: revise, log: log}
}

// Result is the outcome of one batch. Records arrive in completion order,
// not input order.
type Result struct {
	Records []domain.QuoteRecord
	Errors  []domain.DocumentError
}

type outcome struct {
	records []domain.QuoteRecord
	err     *domain.DocumentError
}

// ExtractAll processes every document with a bounded worker pool.
func (s *Service) ExtractAll(ctx context.Context, docs []domain.Document) Result {
	if len(docs) == 0 {
		return Result{}
	}

	workers := s.workers
	if len(docs) < workers {
		workers = len(docs)
	}

	jobs := make(chan domain.Document)
	outcomes := make(chan outcome)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for doc := range jobs {
				outcomes <- s.processOne(ctx, doc)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, doc := range docs {
			select {
			case jobs <- doc:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	var result Result
	for o := range outcomes {
		result.Records = append(result.Records, o.records...)
		if o.err != nil {
			result.Errors = append(result.Errors, *o.err)
		}
	}
	return result
}

func (s *Service) processOne(ctx context.Context, doc domain.Document) outcome {
	name := doc.Name
	if name == "" {
		name = doc.Path
	}
	log := s.log.With().Str("document", name).Logger()

	raw, err := s.extractor.Extract(ctx, doc)
	if err != nil {
		log.Error().Err(err).Msg("extraction failed")
		return outcome{err: &domain.DocumentError{FileName: name, Err: err}}
	}

	raws := flatten(raw)
	if len(raws) == 0 {
		err := domain.ExtractionError("document produced no usable records", nil)
		log.Error().Err(err).Msg("extraction failed")
		return outcome{err: &domain.DocumentError{FileName: name, Err: err}}
	}

	records := make([]domain.QuoteRecord, 0, len(raws))
	for _, r := range raws {
		if s.revise {
			r = s.extractor.Revise(ctx, r)
		}
		records = append(records, validate.Record(r))
	}
	log.Info().Int("records", len(records)).Msg("document extracted")
	return outcome{records: records}
}

// flatten accepts the extractor's object-or-array output and returns the raw
// records inside it, dropping anything that is not an object.
func flatten(v any) []domain.RawRecord {
	switch x := v.(type) {
	case nil:
		return nil
	case domain.RawRecord:
		return []domain.RawRecord{x}
	case map[string]any:
		return []domain.RawRecord{domain.RawRecord(x)}
	case []any:
		var out []domain.RawRecord
		for _, item := range x {
			out = append(out, flatten(item)...)
		}
		return out
	case []domain.RawRecord:
		return x
	default:
		return nil
	}
}

// DetectKind classifies a document path by extension for logging and prompt
// selection.
func DetectKind(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return "pdf"
	case ".png", ".jpg", ".jpeg", ".webp":
		return "image"
	case ".doc", ".docx":
		return "word"
	default:
		return "other"
	}
}
