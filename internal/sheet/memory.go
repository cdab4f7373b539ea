// Package sheet provides the grid storage backends: Google Sheets, local
// Excel workbooks, and an in-memory grid used by tests and dry runs.
package sheet

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/WatcharananPha/quotegrid/internal/domain"
	"github.com/WatcharananPha/quotegrid/internal/grid"
)

// Memory is a GridStore backed by a slice of rows. Safe for concurrent use.
type Memory struct {
	mu   sync.Mutex
	rows [][]string
}

// NewMemory returns an empty in-memory grid.
func NewMemory() *Memory {
	return &Memory{}
}

// NewMemoryFrom seeds the grid with a copy of the given rows.
func NewMemoryFrom(rows [][]string) *Memory {
	m := &Memory{rows: make([][]string, len(rows))}
	for i, r := range rows {
		m.rows[i] = append([]string(nil), r...)
	}
	return m
}

// ReadAll returns a snapshot with trailing empty rows removed.
func (m *Memory) ReadAll(ctx context.Context) ([][]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	end := len(m.rows)
	for end > 0 && rowEmpty(m.rows[end-1]) {
		end--
	}
	out := make([][]string, end)
	for i := 0; i < end; i++ {
		r := m.rows[i]
		w := len(r)
		for w > 0 && strings.TrimSpace(r[w-1]) == "" {
			w--
		}
		out[i] = append([]string(nil), r[:w]...)
	}
	return out, nil
}

// WriteBatch applies every update in order, growing the grid as needed.
func (m *Memory) WriteBatch(ctx context.Context, updates []domain.Update) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range updates {
		c1, r1, c2, r2, err := grid.ParseRange(u.Range)
		if err != nil {
			return err
		}
		// the full declared range is written; source values missing for a
		// covered cell land as empty strings
		for r := r1; r <= r2; r++ {
			for c := c1; c <= c2; c++ {
				m.set(r, c, formatCell(valueAt(u.Values, r-r1, c-c1)))
			}
		}
	}
	return nil
}

// InsertBlankRows shifts everything at or below beforeRow down by count.
func (m *Memory) InsertBlankRows(ctx context.Context, count, beforeRow int) error {
	if count <= 0 {
		return nil
	}
	if beforeRow < 1 {
		return domain.GridError(fmt.Sprintf("insert before row %d", beforeRow), nil)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.grow(beforeRow-1, 1)
	blanks := make([][]string, count)
	for i := range blanks {
		blanks[i] = []string{}
	}
	idx := beforeRow - 1
	if idx > len(m.rows) {
		idx = len(m.rows)
	}
	m.rows = append(m.rows[:idx], append(blanks, m.rows[idx:]...)...)
	return nil
}

// ColumnCount reports the widest row seen so far.
func (m *Memory) ColumnCount(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	widest := 0
	for _, r := range m.rows {
		if len(r) > widest {
			widest = len(r)
		}
	}
	return widest, nil
}

// Cell returns the cell text at a 1-based position, empty when out of range.
func (m *Memory) Cell(row, col int) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if row < 1 || row > len(m.rows) {
		return ""
	}
	r := m.rows[row-1]
	if col < 1 || col > len(r) {
		return ""
	}
	return r[col-1]
}

func (m *Memory) set(row, col int, v string) {
	m.grow(row, col)
	m.rows[row-1][col-1] = v
}

func (m *Memory) grow(rows, cols int) {
	for len(m.rows) < rows {
		m.rows = append(m.rows, []string{})
	}
	if rows >= 1 {
		r := m.rows[rows-1]
		for len(r) < cols {
			r = append(r, "")
		}
		m.rows[rows-1] = r
	}
}

func valueAt(values [][]any, ri, ci int) any {
	if ri >= len(values) || ci >= len(values[ri]) {
		return nil
	}
	return values[ri][ci]
}

func rowEmpty(r []string) bool {
	for _, c := range r {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func formatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}
