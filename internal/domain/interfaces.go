package domain

import "context"

// Extractor turns a source document into the raw JSON shape produced by the
// model: a single object for a standard quotation, or an array of objects for
// a multi-supplier comparison document. A nil result means nothing usable was
// extracted after all attempts.
type Extractor interface {
	Extract(ctx context.Context, doc Document) (any, error)

	// Revise asks the model to repair an extracted record. It is best
	// effort: on any failure the input is returned unchanged.
	Revise(ctx context.Context, rec RawRecord) RawRecord
}

// MatchResult partitions a supplier's items against the existing product
// list. Matched items carry the reference product's canonical name together
// with the target's quantity, unit and prices.
type MatchResult struct {
	Matched []LineItem
	Unique  []LineItem
}

// Matcher decides which of a supplier's items are the same product as one
// already on the sheet. Implementations must consume each reference at most
// once. A Matcher never fails hard: implementations degrade to an
// everything-unique partition instead of returning an error.
type Matcher interface {
	Match(ctx context.Context, targets []LineItem, references []string) MatchResult
}

// Update is one contiguous range write, addressed in A1 notation
// ("C4" or "C4:F4"). Source values missing for a covered cell are written as
// empty strings.
type Update struct {
	Range  string
	Values [][]any
}

// GridStore abstracts the spreadsheet transport. WriteBatch is a single best
// effort call, not a transaction: a transport failure may leave some ranges
// written and others not.
type GridStore interface {
	// ReadAll returns the sheet as rows of cell text, trailing empty cells
	// trimmed per row and trailing empty rows trimmed overall.
	ReadAll(ctx context.Context) ([][]string, error)

	WriteBatch(ctx context.Context, updates []Update) error

	// InsertBlankRows inserts count blank rows before the 1-based row index.
	InsertBlankRows(ctx context.Context, count, beforeRow int) error

	ColumnCount(ctx context.Context) (int, error)
}
