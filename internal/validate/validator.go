// Package validate turns the loosely typed extraction output into a strict
// QuoteRecord. Record is a total function: it never fails, malformed input
// degrades to defaults.
package validate

import (
	"fmt"
	"math"
	"strings"

	"github.com/WatcharananPha/quotegrid/internal/domain"
	"github.com/WatcharananPha/quotegrid/internal/normalize"
)

// Record fills a raw extracted record with required fields, recomputes
// missing line and document totals, and guarantees every field has a
// deterministic default.
func Record(raw domain.RawRecord) domain.QuoteRecord {
	rec := domain.QuoteRecord{
		Company: domain.UnknownCompany,
		Items:   []domain.LineItem{},
	}
	if len(raw) == 0 {
		return rec
	}

	if company := stringOf(raw["company"]); strings.TrimSpace(company) != "" {
		rec.Company = company
	}
	rec.Contact = contactOf(raw["contact"])
	rec.VATEnabled = truthy(raw["vat"])

	for _, v := range listOf(raw["products"]) {
		item, ok := v.(map[string]any)
		if !ok {
			continue
		}
		rec.Items = append(rec.Items, lineItem(item))
	}

	computed := 0.0
	for _, it := range rec.Items {
		computed += it.LineTotal
	}
	rec.Subtotal = numberOr(raw["totalPrice"], computed)
	rec.VATAmount = numberOr(raw["totalVat"], round2(rec.Subtotal*domain.VATRate))
	rec.GrandTotal = numberOr(raw["totalPriceIncludeVat"], round2(rec.Subtotal+rec.VATAmount))

	rec.PriceGuaranteeDays = normalize.CoerceNumber(raw["priceGuaranteeDay"], 0)
	rec.DeliveryTime = stringOf(raw["deliveryTime"])
	rec.PaymentTerms = stringOf(raw["paymentTerms"])
	rec.OtherNotes = stringOf(raw["otherNotes"])

	return rec
}

func lineItem(m map[string]any) domain.LineItem {
	item := domain.LineItem{
		Name:     normalize.CleanProductName(stringOf(m["name"])),
		Quantity: normalize.CoerceNumber(m["quantity"], 1),
		Unit:     stringOf(m["unit"]),
	}
	if item.Quantity <= 0 {
		item.Quantity = 1
	}
	if strings.TrimSpace(item.Unit) == "" {
		item.Unit = domain.DefaultUnit
	}
	item.UnitPrice = normalize.CoerceNumber(m["pricePerUnit"], 0)
	item.LineTotal = numberOr(m["totalPrice"], round2(item.Quantity*item.UnitPrice))
	return item
}

// numberOr resolves the default-or-override rule: the provided value wins
// when it is numeric-parseable, otherwise the computed default is used.
func numberOr(v any, computed float64) float64 {
	if n, ok := normalize.TryNumber(v); ok {
		return n
	}
	return computed
}

func contactOf(v any) string {
	switch t := v.(type) {
	case map[string]any:
		var parts []string
		if email := stringOf(t["email"]); email != "" {
			parts = append(parts, "Email: "+email)
		}
		if phone := stringOf(t["phone"]); phone != "" {
			parts = append(parts, "Phone: "+phone)
		}
		return strings.Join(parts, ", ")
	case nil:
		return ""
	default:
		return normalize.ExtractContact(stringOf(v))
	}
}

func truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case int:
		return t != 0
	case string:
		return t != ""
	default:
		return false
	}
}

func stringOf(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return trimFloat(t)
	case bool:
		if t {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprintf("%v", t)
	}
}

func trimFloat(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%g", f)
}

func listOf(v any) []any {
	if l, ok := v.([]any); ok {
		return l
	}
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
