package sheet

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WatcharananPha/quotegrid/internal/domain"
)

func TestMemoryWriteAndRead(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	err := m.WriteBatch(ctx, []domain.Update{
		{Range: "B4", Values: [][]any{{"Widget"}}},
		{Range: "C4:F4", Values: [][]any{{2.0, "ชิ้น", 10.5, 21.0}}},
	})
	require.NoError(t, err)

	rows, err := m.ReadAll(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Widget", rows[3][1])
	assert.Equal(t, "2", rows[3][2])
	assert.Equal(t, "10.5", rows[3][4])
	assert.Equal(t, "21", rows[3][5])
}

func TestMemoryWriteFillsDeclaredRange(t *testing.T) {
	m := NewMemoryFrom([][]string{
		{},
		{"", "", "stale", "stale"},
	})
	err := m.WriteBatch(context.Background(), []domain.Update{
		{Range: "A2:D2", Values: [][]any{{"kept"}}},
	})
	require.NoError(t, err)

	// cells the source did not cover are blanked, not left stale
	assert.Equal(t, "kept", m.Cell(2, 1))
	assert.Equal(t, "", m.Cell(2, 3))
	assert.Equal(t, "", m.Cell(2, 4))
}

func TestMemoryReadTrimsTrailingEmptyCells(t *testing.T) {
	m := NewMemoryFrom([][]string{
		{"a", "", " "},
	})
	rows, err := m.ReadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"a"}, rows[0])
}

func TestMemoryReadTrimsTrailingEmptyRows(t *testing.T) {
	m := NewMemoryFrom([][]string{
		{"a"},
		{},
		{"", "  "},
	})
	rows, err := m.ReadAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestMemoryInsertBlankRows(t *testing.T) {
	m := NewMemoryFrom([][]string{
		{"", "header"},
		{"", "first"},
		{"", "second"},
	})
	require.NoError(t, m.InsertBlankRows(context.Background(), 2, 2))

	assert.Equal(t, "header", m.Cell(1, 2))
	assert.Equal(t, "", m.Cell(2, 2))
	assert.Equal(t, "", m.Cell(3, 2))
	assert.Equal(t, "first", m.Cell(4, 2))
	assert.Equal(t, "second", m.Cell(5, 2))
}

func TestMemoryInsertRejectsBadRow(t *testing.T) {
	m := NewMemory()
	assert.Error(t, m.InsertBlankRows(context.Background(), 1, 0))
	assert.NoError(t, m.InsertBlankRows(context.Background(), 0, 5))
}

func TestMemoryColumnCount(t *testing.T) {
	m := NewMemoryFrom([][]string{
		{"a"},
		{"a", "b", "c"},
	})
	n, err := m.ColumnCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestMemoryRejectsMalformedRange(t *testing.T) {
	m := NewMemory()
	err := m.WriteBatch(context.Background(), []domain.Update{
		{Range: "not-a-range", Values: [][]any{{"x"}}},
	})
	assert.Error(t, err)
}

func TestParseSpreadsheetID(t *testing.T) {
	id, err := ParseSpreadsheetID("https://docs.google.com/spreadsheets/d/1AbC_d-9/edit#gid=0")
	require.NoError(t, err)
	assert.Equal(t, "1AbC_d-9", id)

	id, err = ParseSpreadsheetID("1AbC_d-9")
	require.NoError(t, err)
	assert.Equal(t, "1AbC_d-9", id)

	_, err = ParseSpreadsheetID("")
	assert.Error(t, err)
	_, err = ParseSpreadsheetID("http://example.com/other")
	assert.Error(t, err)
}
