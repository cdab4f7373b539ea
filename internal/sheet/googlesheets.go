package sheet

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/WatcharananPha/quotegrid/internal/domain"
)

var spreadsheetURLRe = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9_-]+)`)

// ParseSpreadsheetID accepts either a bare spreadsheet ID or a full
// docs.google.com URL and returns the ID.
func ParseSpreadsheetID(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", domain.ConfigError("empty spreadsheet reference", nil)
	}
	if m := spreadsheetURLRe.FindStringSubmatch(s); m != nil {
		return m[1], nil
	}
	if strings.ContainsAny(s, "/: ") {
		return "", domain.ConfigError(fmt.Sprintf("unrecognized spreadsheet reference %q", s), nil)
	}
	return s, nil
}

// GoogleSheets is a GridStore backed by the Sheets API. All operations target
// the spreadsheet's first sheet.
type GoogleSheets struct {
	svc           *sheets.Service
	spreadsheetID string
	sheetID       int64
	sheetTitle    string
}

// NewGoogleSheets connects with a service account credentials file and binds
// to the spreadsheet's first sheet.
func NewGoogleSheets(ctx context.Context, spreadsheetID, credentialsFile string) (*GoogleSheets, error) {
	svc, err := sheets.NewService(ctx, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, domain.APIError("create sheets service", err)
	}

	meta, err := svc.Spreadsheets.Get(spreadsheetID).Context(ctx).Do()
	if err != nil {
		return nil, domain.APIError(fmt.Sprintf("open spreadsheet %s", spreadsheetID), err)
	}
	if len(meta.Sheets) == 0 {
		return nil, domain.GridError(fmt.Sprintf("spreadsheet %s has no sheets", spreadsheetID), nil)
	}
	first := meta.Sheets[0].Properties
	return &GoogleSheets{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetID:       first.SheetId,
		sheetTitle:    first.Title,
	}, nil
}

// ReadAll fetches the sheet's populated region as cell text.
func (g *GoogleSheets) ReadAll(ctx context.Context) ([][]string, error) {
	resp, err := g.svc.Spreadsheets.Values.Get(g.spreadsheetID, g.sheetTitle).
		Context(ctx).Do()
	if err != nil {
		return nil, domain.APIError("read sheet values", err)
	}
	rows := make([][]string, len(resp.Values))
	for i, r := range resp.Values {
		row := make([]string, len(r))
		for j, v := range r {
			row[j] = fmt.Sprint(v)
		}
		rows[i] = row
	}
	return rows, nil
}

// WriteBatch sends all updates in one batchUpdate call with user-entered
// value interpretation, so numbers land as numbers.
func (g *GoogleSheets) WriteBatch(ctx context.Context, updates []domain.Update) error {
	if len(updates) == 0 {
		return nil
	}
	data := make([]*sheets.ValueRange, 0, len(updates))
	for _, u := range updates {
		data = append(data, &sheets.ValueRange{
			Range:  g.sheetTitle + "!" + u.Range,
			Values: u.Values,
		})
	}
	req := &sheets.BatchUpdateValuesRequest{
		ValueInputOption: "USER_ENTERED",
		Data:             data,
	}
	if _, err := g.svc.Spreadsheets.Values.BatchUpdate(g.spreadsheetID, req).
		Context(ctx).Do(); err != nil {
		return domain.APIError("batch update values", err)
	}
	return nil
}

// InsertBlankRows inserts count rows before beforeRow (1-based) without
// inheriting formatting from the rows above.
func (g *GoogleSheets) InsertBlankRows(ctx context.Context, count, beforeRow int) error {
	if count <= 0 {
		return nil
	}
	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			InsertDimension: &sheets.InsertDimensionRequest{
				Range: &sheets.DimensionRange{
					SheetId:    g.sheetID,
					Dimension:  "ROWS",
					StartIndex: int64(beforeRow - 1),
					EndIndex:   int64(beforeRow - 1 + count),
				},
				InheritFromBefore: false,
			},
		}},
	}
	if _, err := g.svc.Spreadsheets.BatchUpdate(g.spreadsheetID, req).
		Context(ctx).Do(); err != nil {
		return domain.APIError(fmt.Sprintf("insert %d rows before row %d", count, beforeRow), err)
	}
	return nil
}

// ColumnCount reports the sheet's declared grid width.
func (g *GoogleSheets) ColumnCount(ctx context.Context) (int, error) {
	meta, err := g.svc.Spreadsheets.Get(g.spreadsheetID).
		Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return 0, domain.APIError("read sheet properties", err)
	}
	for _, s := range meta.Sheets {
		if s.Properties.SheetId == g.sheetID && s.Properties.GridProperties != nil {
			return int(s.Properties.GridProperties.ColumnCount), nil
		}
	}
	return 0, domain.GridError("sheet properties missing", nil)
}
