package dimension

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Sequences(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []float64
	}{
		{"mm explicit", "4672x970 mm", []float64{970, 4672}},
		{"metres explicit", "4.672x0.97 m", []float64{970, 4672}},
		{"metre heuristic", "ขนาด 4.672×0.97", []float64{970, 4672}},
		{"asterisk glyph", "3.565*0.97 ม.", []float64{970, 3565}},
		{"three axes", "600x400x20 mm", []float64{20, 400, 600}},
		{"cm unit", "60x40 cm", []float64{400, 600}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := Parse(tc.input)
			require.NotEmpty(t, d.Sequences)
			assert.Equal(t, tc.expected, d.Sequences[0])
		})
	}
}

func TestParse_Labeled(t *testing.T) {
	d := Parse("กว้าง 60 ซม สูง 1.8 ม. หนา 10 มม")
	assert.InDelta(t, 600, d.Labeled[Width], 1e-9)
	assert.InDelta(t, 1800, d.Labeled[Height], 1e-9)
	assert.InDelta(t, 10, d.Labeled[Thickness], 1e-9)

	d = Parse("width: 600 mm depth=450mm")
	assert.InDelta(t, 600, d.Labeled[Width], 1e-9)
	assert.InDelta(t, 450, d.Labeled[Depth], 1e-9)
}

func TestParse_ThicknessBackfill(t *testing.T) {
	d := Parse("กระจกเทมเปอร์ใส 10 mm")
	assert.InDelta(t, 10, d.Labeled[Thickness], 1e-9)

	// the labeled pass wins over the backfill pattern
	d = Parse("หนา 12 มม กระจก 10 mm")
	assert.InDelta(t, 12, d.Labeled[Thickness], 1e-9)
}

func TestParse_DeduplicatesSequences(t *testing.T) {
	d := Parse("4672x970 mm (4672x970 mm)")
	assert.Len(t, d.Sequences, 1)
}

func TestParse_NoDimensions(t *testing.T) {
	d := Parse("บานพับสแตนเลส")
	assert.Empty(t, d.Labeled)
	assert.Empty(t, d.Sequences)
}

func TestCloseEnough_Tolerance(t *testing.T) {
	base := Parse("4672x970 mm")

	tests := []struct {
		name     string
		other    string
		expected bool
	}{
		{"unit conversion exact", "4.672x0.97 m", true},
		{"within 2 percent", "4700x970mm", true},
		{"outside tolerance", "5000x970mm", false},
		{"different arity", "4672x970x10 mm", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, CloseEnough(base, Parse(tc.other)))
		})
	}
}

func TestCloseEnough_LabeledAxes(t *testing.T) {
	a := Parse("กว้าง 600 มม สูง 1800 มม")
	assert.True(t, CloseEnough(a, Parse("width 60 cm height 1.8 m")))
	// one shared axis off by more than tolerance fails the whole comparison
	assert.False(t, CloseEnough(a, Parse("width 600 mm height 2000 mm")))
	// disjoint labeled axes carry no evidence
	assert.True(t, CloseEnough(a, Parse("หนา 10 มม")))
}

func TestCloseEnough_NoEvidence(t *testing.T) {
	assert.True(t, CloseEnough(Parse("sink"), Parse("อ่างล้างจาน")))
	assert.True(t, CloseEnough(Parse("4672x970 mm"), Parse("no numbers here")))
}

func TestNearlyEqual(t *testing.T) {
	assert.True(t, nearlyEqual(100, 104))  // within abs 5mm
	assert.False(t, nearlyEqual(100, 106)) // outside both
	assert.True(t, nearlyEqual(4700, 4672))
	assert.True(t, nearlyEqual(0, 4))
	assert.False(t, nearlyEqual(0, 6))
}
