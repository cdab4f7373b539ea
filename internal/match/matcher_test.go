package match

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WatcharananPha/quotegrid/internal/domain"
)

func item(name string) domain.LineItem {
	return domain.LineItem{Name: name, Quantity: 1, Unit: "ชิ้น", UnitPrice: 100, LineTotal: 100}
}

func TestHeuristic_DegenerateCases(t *testing.T) {
	m := NewHeuristic()
	ctx := context.Background()

	res := m.Match(ctx, nil, []string{"Widget"})
	assert.Empty(t, res.Matched)
	assert.Empty(t, res.Unique)

	targets := []domain.LineItem{item("Widget"), item("Gadget")}
	res = m.Match(ctx, targets, nil)
	assert.Empty(t, res.Matched)
	assert.Equal(t, targets, res.Unique)
}

func TestHeuristic_ExactNormalizedMatch(t *testing.T) {
	m := NewHeuristic()
	res := m.Match(context.Background(),
		[]domain.LineItem{item("1. TEMPERED GLASS 10×20")},
		[]string{"Tempered  Glass 10*20"})

	require.Len(t, res.Matched, 1)
	assert.Equal(t, "Tempered  Glass 10*20", res.Matched[0].Name, "canonical reference name persists")
	assert.Empty(t, res.Unique)
}

func TestHeuristic_MatchedKeepsTargetFigures(t *testing.T) {
	m := NewHeuristic()
	target := domain.LineItem{Name: "Widget", Quantity: 7, Unit: "set", UnitPrice: 12.5, LineTotal: 87.5}
	res := m.Match(context.Background(), []domain.LineItem{target}, []string{"Widget"})

	require.Len(t, res.Matched, 1)
	got := res.Matched[0]
	assert.Equal(t, 7.0, got.Quantity)
	assert.Equal(t, "set", got.Unit)
	assert.Equal(t, 12.5, got.UnitPrice)
	assert.Equal(t, 87.5, got.LineTotal)
}

func TestHeuristic_SemanticDimensionMatch(t *testing.T) {
	m := NewHeuristic()
	tests := []struct {
		name      string
		target    string
		reference string
		match     bool
	}{
		{
			"glass same size different unit",
			"กระจกเทมเปอร์ใส หนา 10 มม. ขนาด 4.672×0.97 ม.",
			"tempered glass 4672x970 mm หนา 10 มม",
			true,
		},
		{
			"glass size off",
			"กระจกเทมเปอร์ 5000x970 mm",
			"tempered glass 4672x970 mm",
			false,
		},
		{
			"type mismatch with no shared material",
			"บานพับสแตนเลส 100x50 mm",
			"ยางขอบ 100x50 mm",
			false,
		},
		{
			"material fallback",
			"เหล็กตัวซีชุบสังกะสี 4672x970 mm",
			"steel c-channel 4672x970 mm",
			true,
		},
		{
			"no dimensions but same type",
			"Slimline Hood",
			"เครื่องดูดควัน EL 60",
			true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := m.Match(context.Background(),
				[]domain.LineItem{item(tc.target)}, []string{tc.reference})
			if tc.match {
				require.Len(t, res.Matched, 1)
				assert.Equal(t, tc.reference, res.Matched[0].Name)
			} else {
				assert.Empty(t, res.Matched)
				require.Len(t, res.Unique, 1)
			}
		})
	}
}

func TestHeuristic_OneReferenceConsumedOnce(t *testing.T) {
	m := NewHeuristic()
	res := m.Match(context.Background(),
		[]domain.LineItem{item("Widget"), item("widget"), item("WIDGET")},
		[]string{"Widget"})

	assert.Len(t, res.Matched, 1)
	assert.Len(t, res.Unique, 2)

	// also holds across the fuzzy pass
	res = m.Match(context.Background(),
		[]domain.LineItem{item("tempered glass 600x400 mm"), item("กระจกเทมเปอร์ 600x400 mm")},
		[]string{"glass เทมเปอร์ 600x400 มม"})
	assert.Len(t, res.Matched, 1)
	assert.Len(t, res.Unique, 1)
}

func TestHeuristic_FirstFitInReferenceOrder(t *testing.T) {
	m := NewHeuristic()
	res := m.Match(context.Background(),
		[]domain.LineItem{item("tempered glass 600x400 mm")},
		[]string{"กระจกเทมเปอร์ 600x400 มม", "tempered glass 602x401 mm"})

	require.Len(t, res.Matched, 1)
	assert.Equal(t, "กระจกเทมเปอร์ 600x400 มม", res.Matched[0].Name)
}

func TestFallback_AllUnique(t *testing.T) {
	m := NewFallback()
	targets := []domain.LineItem{item("A"), item("B")}
	res := m.Match(context.Background(), targets, []string{"A"})
	assert.Empty(t, res.Matched)
	assert.Equal(t, targets, res.Unique)

	res = m.Match(context.Background(), nil, nil)
	assert.Empty(t, res.Unique)
}

func TestSemanticCompatible(t *testing.T) {
	assert.True(t, semanticCompatible("Undermount Sink", "SINK BXX 210-45"))
	assert.True(t, semanticCompatible("อ่างล้างจาน", "sink stainless"))
	assert.False(t, semanticCompatible("Slimline Hood", "Sink Single Tap"))
	assert.True(t, semanticCompatible("เหล็กตัวยู", "u-channel steel"))
	// generic glass matches treated glass through the material fallback
	assert.True(t, semanticCompatible("กระจกใส", "tempered glass"))
}
