package sheet

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/WatcharananPha/quotegrid/internal/domain"
	"github.com/WatcharananPha/quotegrid/internal/grid"
)

// Excel is a GridStore backed by a local .xlsx workbook. The file is opened
// lazily and saved after every batch so a crash never loses more than one
// record's writes.
type Excel struct {
	path      string
	sheetName string
	file      *excelize.File
}

// NewExcel opens the workbook at path, creating it when absent. The grid
// lives on the workbook's first sheet.
func NewExcel(path string) (*Excel, error) {
	e := &Excel{path: path}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		e.file = excelize.NewFile()
		e.sheetName = e.file.GetSheetName(0)
		if err := e.file.SaveAs(path); err != nil {
			return nil, domain.IOError(fmt.Sprintf("create workbook %s", path), err)
		}
		return e, nil
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, domain.IOError(fmt.Sprintf("open workbook %s", path), err)
	}
	e.file = f
	e.sheetName = f.GetSheetName(0)
	return e, nil
}

// Close releases the underlying workbook handle.
func (e *Excel) Close() error {
	return e.file.Close()
}

// ReadAll returns every populated row as cell text.
func (e *Excel) ReadAll(_ context.Context) ([][]string, error) {
	rows, err := e.file.GetRows(e.sheetName)
	if err != nil {
		return nil, domain.GridError("read workbook rows", err)
	}
	return rows, nil
}

// WriteBatch applies every update cell by cell, then saves the workbook.
func (e *Excel) WriteBatch(_ context.Context, updates []domain.Update) error {
	for _, u := range updates {
		c1, r1, c2, r2, err := grid.ParseRange(u.Range)
		if err != nil {
			return err
		}
		for r := r1; r <= r2; r++ {
			for c := c1; c <= c2; c++ {
				cell, err := excelize.CoordinatesToCellName(c, r)
				if err != nil {
					return domain.GridError("resolve cell coordinates", err)
				}
				v := valueAt(u.Values, r-r1, c-c1)
				if v == nil {
					v = ""
				}
				if err := e.file.SetCellValue(e.sheetName, cell, v); err != nil {
					return domain.GridError(fmt.Sprintf("write cell %s", cell), err)
				}
			}
		}
	}
	if err := e.file.SaveAs(e.path); err != nil {
		return domain.IOError(fmt.Sprintf("save workbook %s", e.path), err)
	}
	return nil
}

// InsertBlankRows shifts everything at or below beforeRow down by count.
func (e *Excel) InsertBlankRows(_ context.Context, count, beforeRow int) error {
	if count <= 0 {
		return nil
	}
	if err := e.file.InsertRows(e.sheetName, beforeRow, count); err != nil {
		return domain.GridError(fmt.Sprintf("insert %d rows before row %d", count, beforeRow), err)
	}
	if err := e.file.SaveAs(e.path); err != nil {
		return domain.IOError(fmt.Sprintf("save workbook %s", e.path), err)
	}
	return nil
}

// ColumnCount reports the widest populated row.
func (e *Excel) ColumnCount(_ context.Context) (int, error) {
	rows, err := e.file.GetRows(e.sheetName)
	if err != nil {
		return 0, domain.GridError("read workbook rows", err)
	}
	widest := 0
	for _, r := range rows {
		if len(r) > widest {
			widest = len(r)
		}
	}
	return widest, nil
}
