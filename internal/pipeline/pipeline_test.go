package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WatcharananPha/quotegrid/internal/domain"
	"github.com/WatcharananPha/quotegrid/internal/extract"
)

type stubBatcher struct {
	result extract.Result
}

func (s *stubBatcher) ExtractAll(context.Context, []domain.Document) extract.Result {
	return s.result
}

type stubApplier struct {
	got []domain.QuoteRecord
	n   int
	err error
}

func (s *stubApplier) Apply(_ context.Context, records []domain.QuoteRecord) (int, error) {
	s.got = records
	return s.n, s.err
}

func TestRunHappyPath(t *testing.T) {
	batcher := &stubBatcher{result: extract.Result{
		Records: []domain.QuoteRecord{{Company: "Acme"}, {Company: "Globex"}},
		Errors:  []domain.DocumentError{{FileName: "bad.pdf", Err: errors.New("unreadable")}},
	}}
	applier := &stubApplier{n: 2}
	runner := NewRunner(batcher, applier, zerolog.Nop())

	report, err := runner.Run(context.Background(), []domain.Document{{Path: "a"}, {Path: "b"}, {Path: "bad.pdf"}})
	require.NoError(t, err)

	assert.Equal(t, 2, report.Written)
	assert.Len(t, report.Records, 2)
	require.Len(t, report.Errors, 1)
	assert.Equal(t, "bad.pdf", report.Errors[0].FileName)
	assert.Len(t, applier.got, 2)
}

func TestRunNothingExtractedSkipsGrid(t *testing.T) {
	batcher := &stubBatcher{result: extract.Result{
		Errors: []domain.DocumentError{{FileName: "a.pdf", Err: errors.New("boom")}},
	}}
	applier := &stubApplier{}
	runner := NewRunner(batcher, applier, zerolog.Nop())

	report, err := runner.Run(context.Background(), []domain.Document{{Path: "a.pdf"}})
	require.NoError(t, err)
	assert.Zero(t, report.Written)
	assert.Nil(t, applier.got)
}

func TestRunGridFailureAborts(t *testing.T) {
	batcher := &stubBatcher{result: extract.Result{Records: []domain.QuoteRecord{{Company: "Acme"}}}}
	applier := &stubApplier{err: domain.GridError("commit batch", errors.New("quota"))}
	runner := NewRunner(batcher, applier, zerolog.Nop())

	_, err := runner.Run(context.Background(), []domain.Document{{Path: "a.pdf"}})
	require.Error(t, err)

	var derr *domain.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, domain.ErrorTypeGrid, derr.Type)
}
