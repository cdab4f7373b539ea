package grid

import (
	"fmt"
	"strings"

	"github.com/WatcharananPha/quotegrid/internal/domain"
)

// ColumnLetter converts a 1-based column index to its A1 letter form.
func ColumnLetter(col int) string {
	if col < 1 {
		col = 1
	}
	var sb strings.Builder
	for col > 0 {
		col--
		sb.WriteByte(byte('A' + col%26))
		col /= 26
	}
	// digits were produced least significant first
	b := []byte(sb.String())
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b)
}

// CellRef renders a single cell reference, e.g. CellRef(3, 4) == "C4".
func CellRef(col, row int) string {
	return fmt.Sprintf("%s%d", ColumnLetter(col), row)
}

// SpanRef renders a rectangular range reference, e.g. "C4:F4".
func SpanRef(col1, row1, col2, row2 int) string {
	return CellRef(col1, row1) + ":" + CellRef(col2, row2)
}

// ParseRange resolves an A1 range ("C4" or "C4:F4") to 1-based bounds.
func ParseRange(ref string) (col1, row1, col2, row2 int, err error) {
	parts := strings.SplitN(ref, ":", 2)
	col1, row1, err = parseCell(parts[0])
	if err != nil {
		return 0, 0, 0, 0, err
	}
	if len(parts) == 1 {
		return col1, row1, col1, row1, nil
	}
	col2, row2, err = parseCell(parts[1])
	if err != nil {
		return 0, 0, 0, 0, err
	}
	return col1, row1, col2, row2, nil
}

func parseCell(ref string) (col, row int, err error) {
	i := 0
	for i < len(ref) && ref[i] >= 'A' && ref[i] <= 'Z' {
		col = col*26 + int(ref[i]-'A'+1)
		i++
	}
	if i == 0 || i == len(ref) {
		return 0, 0, domain.GridError(fmt.Sprintf("malformed cell reference %q", ref), nil)
	}
	for ; i < len(ref); i++ {
		if ref[i] < '0' || ref[i] > '9' {
			return 0, 0, domain.GridError(fmt.Sprintf("malformed cell reference %q", ref), nil)
		}
		row = row*10 + int(ref[i]-'0')
	}
	if row < 1 {
		return 0, 0, domain.GridError(fmt.Sprintf("malformed cell reference %q", ref), nil)
	}
	return col, row, nil
}
