// Package grid holds the layout engine: it reads the comparison sheet as a
// snapshot of cell text, reconciles a supplier's quotation against what is
// already recorded, and emits the batched writes and row insertions that keep
// the side-by-side grid consistent.
package grid

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/WatcharananPha/quotegrid/internal/domain"
	"github.com/WatcharananPha/quotegrid/internal/normalize"
)

// productRow is one recovered master-list entry with its physical row.
type productRow struct {
	name string
	row  int
}

// Engine decides where supplier blocks and product rows land on the sheet.
// It keeps no state between calls: every update starts from a fresh snapshot.
type Engine struct {
	store   domain.GridStore
	matcher domain.Matcher
	log     zerolog.Logger
}

// NewEngine creates an engine writing through store and reconciling products
// with matcher.
func NewEngine(store domain.GridStore, matcher domain.Matcher, log zerolog.Logger) *Engine {
	return &Engine{store: store, matcher: matcher, log: log}
}

// Apply writes the given records into the grid and reports how many were
// recorded. A single record takes the summary-row reuse path; a batch takes
// the in-memory accumulation path. This routing is part of the contract, not
// an optimization.
func (e *Engine) Apply(ctx context.Context, records []domain.QuoteRecord) (int, error) {
	switch len(records) {
	case 0:
		return 0, nil
	case 1:
		return e.applySingle(ctx, records[0])
	default:
		return e.applyMulti(ctx, records)
	}
}

func (e *Engine) applySingle(ctx context.Context, rec domain.QuoteRecord) (int, error) {
	if err := e.ensureReservedRows(ctx); err != nil {
		return 0, err
	}
	rows, err := e.store.ReadAll(ctx)
	if err != nil {
		return 0, domain.GridError("read snapshot", err)
	}

	products, summary, firstSummary := e.scanMasterList(rows, true)
	suppliers := e.discoverSuppliers(rows)
	nextCol := nextAvailableColumn(rows)

	if cols, err := e.store.ColumnCount(ctx); err == nil {
		e.log.Debug().
			Int("rows", len(rows)).
			Int("cols", cols).
			Int("products", len(products)).
			Int("suppliers", len(suppliers)).
			Msg("scanned grid snapshot")
	}

	if len(rec.Items) == 0 {
		e.log.Info().Str("company", rec.Company).Msg("record has no line items, skipping")
		return 0, nil
	}
	items := cleanItems(rec.Items)

	col, known := suppliers[rec.Company]
	if !known {
		col = nextCol
	}

	updates := supplierHeaderUpdates(rec, col)

	result := e.matcher.Match(ctx, items, names(products))
	e.log.Debug().
		Str("company", rec.Company).
		Int("matched", len(result.Matched)).
		Int("unique", len(result.Unique)).
		Msg("reconciled products")

	updates = append(updates, matchedRowUpdates(result.Matched, products, col)...)

	newProducts := filterNew(result.Unique, products)
	insertionRow := firstSummary
	if insertionRow <= 0 {
		insertionRow = domain.HeaderRow + 1 + len(products)
	}

	if len(newProducts) > 0 {
		if err := e.store.InsertBlankRows(ctx, len(newProducts), insertionRow); err != nil {
			return 0, domain.GridError("insert product rows", err)
		}
		if firstSummary > 0 {
			for label := range summary {
				summary[label] += len(newProducts)
			}
		}
		updates = append(updates, newProductUpdates(newProducts, insertionRow, col)...)
	}

	priceCol := col + domain.ColumnsPerSupplier - 1
	values := summaryValues(rec)
	if len(summary) > 0 {
		for i, label := range domain.SummaryLabels {
			if row, ok := summary[label]; ok {
				updates = append(updates, domain.Update{
					Range:  CellRef(priceCol, row),
					Values: [][]any{{values[i]}},
				})
			}
		}
	} else {
		// one blank row between the product list and the summary block
		start := insertionRow + len(newProducts) + 1
		updates = append(updates, freshSummaryUpdates(values, start, priceCol)...)
	}

	if err := e.store.WriteBatch(ctx, updates); err != nil {
		return 0, domain.GridError("commit batch", err)
	}
	return 1, nil
}

// applyMulti processes several records against one snapshot. The recovered
// product list and supplier map are mutated in memory as each record lands,
// so products added by one record become references for the next, and the
// free column pointer advances monotonically. Summary rows are always
// appended fresh here, never reconciled with pre-existing ones.
func (e *Engine) applyMulti(ctx context.Context, records []domain.QuoteRecord) (int, error) {
	if err := e.ensureReservedRows(ctx); err != nil {
		return 0, err
	}
	rows, err := e.store.ReadAll(ctx)
	if err != nil {
		return 0, domain.GridError("read snapshot", err)
	}

	products, _, _ := e.scanMasterList(rows, false)
	suppliers := e.discoverSuppliers(rows)
	nextCol := nextAvailableColumn(rows)

	written := 0
	for _, rec := range records {
		if len(rec.Items) == 0 {
			e.log.Info().Str("company", rec.Company).Msg("record has no line items, skipping")
			continue
		}
		items := cleanItems(rec.Items)

		col, known := suppliers[rec.Company]
		if !known {
			col = nextCol
			nextCol += domain.ColumnsPerSupplier
		}

		updates := supplierHeaderUpdates(rec, col)

		result := e.matcher.Match(ctx, items, names(products))
		updates = append(updates, matchedRowUpdates(result.Matched, products, col)...)

		newProducts := filterNew(result.Unique, products)
		nextRow := domain.HeaderRow + 1 + len(products)

		if len(newProducts) > 0 {
			if err := e.store.InsertBlankRows(ctx, len(newProducts), nextRow); err != nil {
				return written, domain.GridError("insert product rows", err)
			}
			updates = append(updates, newProductUpdates(newProducts, nextRow, col)...)
			for i, it := range newProducts {
				products = append(products, productRow{name: it.Name, row: nextRow + i})
			}
		}

		start := domain.HeaderRow + 1 + len(products) + 1
		updates = append(updates, freshSummaryUpdates(summaryValues(rec), start, col+domain.ColumnsPerSupplier-1)...)

		if err := e.store.WriteBatch(ctx, updates); err != nil {
			return written, domain.GridError("commit batch", err)
		}
		if !known {
			suppliers[rec.Company] = col
		}
		written++
	}
	return written, nil
}

// ensureReservedRows blanks the header area of the master-list columns so a
// brand new sheet always has its three reserved rows.
func (e *Engine) ensureReservedRows(ctx context.Context) error {
	updates := make([]domain.Update, 0, domain.HeaderRow)
	for r := 1; r <= domain.HeaderRow; r++ {
		updates = append(updates, domain.Update{
			Range:  SpanRef(1, r, domain.MasterListCol, r),
			Values: [][]any{{"", ""}},
		})
	}
	if err := e.store.WriteBatch(ctx, updates); err != nil {
		return domain.GridError("prepare reserved rows", err)
	}
	return nil
}

// scanMasterList walks the master-list column below the header and recovers
// product rows and, when includeSummary is set, the summary label rows.
func (e *Engine) scanMasterList(rows [][]string, includeSummary bool) ([]productRow, map[string]int, int) {
	var products []productRow
	summary := map[string]int{}
	firstSummary := -1

	for idx := domain.HeaderRow + 1; idx <= len(rows); idx++ {
		cell := strings.TrimSpace(cellAt(rows, idx, domain.MasterListCol))
		if cell == "" {
			continue
		}
		if isSummaryLabel(cell) {
			if includeSummary {
				if firstSummary == -1 {
					firstSummary = idx
				}
				summary[cell] = idx
			}
			continue
		}
		products = append(products, productRow{name: normalize.CleanProductName(cell), row: idx})
	}
	return products, summary, firstSummary
}

// discoverSuppliers reads company names along the first row in block-width
// strides starting just after the master-list column.
func (e *Engine) discoverSuppliers(rows [][]string) map[string]int {
	suppliers := map[string]int{}
	if len(rows) == 0 {
		return suppliers
	}
	width := len(rows[domain.CompanyNameRow-1])
	for col := domain.MasterListCol + 1; col <= width; col += domain.ColumnsPerSupplier {
		name := strings.TrimSpace(cellAt(rows, domain.CompanyNameRow, col))
		if name != "" {
			suppliers[name] = col
		}
	}
	return suppliers
}

// nextAvailableColumn finds the smallest block-aligned free column: the last
// non-empty column within the reserved rows, rounded up to the next block
// boundary counted from the start of the supplier area.
func nextAvailableColumn(rows [][]string) int {
	startCol := domain.MasterListCol + 1
	last := domain.MasterListCol
	for r := 1; r <= domain.HeaderRow && r <= len(rows); r++ {
		for i, c := range rows[r-1] {
			if strings.TrimSpace(c) != "" && i+1 > last {
				last = i + 1
			}
		}
	}
	if last < startCol {
		return startCol
	}
	used := last - startCol + 1
	blocks := (used + domain.ColumnsPerSupplier - 1) / domain.ColumnsPerSupplier
	return startCol + blocks*domain.ColumnsPerSupplier
}

func supplierHeaderUpdates(rec domain.QuoteRecord, col int) []domain.Update {
	headers := make([]any, len(domain.SupplierColumnHeaders))
	for i, h := range domain.SupplierColumnHeaders {
		headers[i] = h
	}
	return []domain.Update{
		{Range: CellRef(col, domain.CompanyNameRow), Values: [][]any{{rec.Company}}},
		{Range: CellRef(col, domain.ContactInfoRow), Values: [][]any{{strings.TrimSpace(rec.Contact)}}},
		{
			Range:  SpanRef(col, domain.HeaderRow, col+domain.ColumnsPerSupplier-1, domain.HeaderRow),
			Values: [][]any{headers},
		},
	}
}

// matchedRowUpdates writes matched figures into existing rows, first writer
// wins when several targets resolve to the same reference name.
func matchedRowUpdates(matched []domain.LineItem, products []productRow, col int) []domain.Update {
	var updates []domain.Update
	populated := map[int]bool{}
	for _, it := range matched {
		for _, p := range products {
			if p.name == it.Name && !populated[p.row] {
				updates = append(updates, figureUpdate(col, p.row, it))
				populated[p.row] = true
				break
			}
		}
	}
	return updates
}

func newProductUpdates(items []domain.LineItem, startRow, col int) []domain.Update {
	var updates []domain.Update
	for i, it := range items {
		row := startRow + i
		updates = append(updates,
			domain.Update{Range: CellRef(domain.MasterListCol, row), Values: [][]any{{it.Name}}},
			figureUpdate(col, row, it),
		)
	}
	return updates
}

func freshSummaryUpdates(values []any, startRow, priceCol int) []domain.Update {
	var updates []domain.Update
	for i, label := range domain.SummaryLabels {
		row := startRow + i
		updates = append(updates,
			domain.Update{Range: CellRef(domain.MasterListCol, row), Values: [][]any{{label}}},
			domain.Update{Range: CellRef(priceCol, row), Values: [][]any{{values[i]}}},
		)
	}
	return updates
}

func figureUpdate(col, row int, it domain.LineItem) domain.Update {
	return domain.Update{
		Range:  SpanRef(col, row, col+domain.ColumnsPerSupplier-1, row),
		Values: [][]any{{it.Quantity, it.Unit, it.UnitPrice, it.LineTotal}},
	}
}

// summaryValues orders a record's aggregates to line up with SummaryLabels.
func summaryValues(rec domain.QuoteRecord) []any {
	return []any{
		rec.Subtotal,
		rec.VATAmount,
		rec.GrandTotal,
		rec.PriceGuaranteeDays,
		rec.DeliveryTime,
		rec.PaymentTerms,
		rec.OtherNotes,
	}
}

// filterNew drops unique items whose normalized name is already on the sheet.
// The matcher should have caught these, the check is the layout engine's own
// duplicate defense.
func filterNew(unique []domain.LineItem, products []productRow) []domain.LineItem {
	var out []domain.LineItem
	for _, it := range unique {
		exists := false
		for _, p := range products {
			if p.name == it.Name {
				exists = true
				break
			}
		}
		if !exists {
			out = append(out, it)
		}
	}
	return out
}

func cleanItems(items []domain.LineItem) []domain.LineItem {
	out := make([]domain.LineItem, len(items))
	copy(out, items)
	for i := range out {
		out[i].Name = normalize.CleanProductName(out[i].Name)
	}
	return out
}

func names(products []productRow) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.name
	}
	return out
}

func cellAt(rows [][]string, row, col int) string {
	if row < 1 || row > len(rows) {
		return ""
	}
	r := rows[row-1]
	if col < 1 || col > len(r) {
		return ""
	}
	return r[col-1]
}

func isSummaryLabel(cell string) bool {
	for _, l := range domain.SummaryLabels {
		if cell == l {
			return true
		}
	}
	return false
}
