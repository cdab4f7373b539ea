// Package dimension extracts physical dimensions from product names so the
// matcher can compare items whose descriptions differ in wording but agree in
// size. All lengths are normalized to millimetres.
package dimension

import (
	"regexp"
	"sort"

	"github.com/WatcharananPha/quotegrid/internal/normalize"
)

// Axis identifies a labeled dimension.
type Axis string

const (
	Width     Axis = "w"
	Height    Axis = "h"
	Length    Axis = "l"
	Thickness Axis = "t"
	Depth     Axis = "d"
)

// Dims is the parse result for one product name. Labeled holds dimensions
// found with an explicit axis keyword; Sequences holds bare "N x N (x N)"
// groups as sorted millimetre tuples, deduplicated in order of appearance.
type Dims struct {
	Labeled   map[Axis]float64
	Sequences [][]float64
}

var axisByLabel = map[string]Axis{
	"กว้าง": Width, "width": Width, "w": Width,
	"สูง": Height, "height": Height, "h": Height,
	"ยาว": Length, "length": Length, "l": Length,
	"หนา": Thickness, "thickness": Thickness, "thick": Thickness, "t": Thickness,
	"ลึก": Depth, "depth": Depth, "d": Depth,
}

var unitToMM = map[string]float64{
	"มม": 1, "mm": 1,
	"ซม": 10, "cm": 10,
	"ม.": 1000, "เมตร": 1000, "m": 1000,
}

var (
	labeledRe = regexp.MustCompile(`(กว้าง|สูง|ยาว|หนา|ลึก|width|height|length|thickness|thick|depth|[whltd])\s*[:=]?\s*(\d+(?:\.\d+)?)\s*(มม|mm|ซม|cm|ม\.|เมตร|m)?`)
	// Accepts both × and * because Canonical has already unified them to x.
	sequenceRe  = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*x\s*(\d+(?:\.\d+)?)(?:\s*x\s*(\d+(?:\.\d+)?))?\s*(มม|mm|ซม|cm|ม\.|เมตร|m)?`)
	thicknessRe = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(mm\b|มม)`)
	numRe       = regexp.MustCompile(`^\d+(\.\d+)?$`)
)

// Parse scans a product name for labeled dimensions, bare dimension
// sequences, and a trailing thickness-only pattern that backfills the
// thickness axis when the labeled pass did not set it.
func Parse(text string) Dims {
	d := Dims{Labeled: map[Axis]float64{}}
	s := normalize.Canonical(text)

	for _, m := range labeledRe.FindAllStringSubmatch(s, -1) {
		axis, ok := axisByLabel[m[1]]
		if !ok {
			continue
		}
		d.Labeled[axis] = toMM(parseNum(m[2]), m[3])
	}

	for _, m := range sequenceRe.FindAllStringSubmatch(s, -1) {
		vals := []float64{parseNum(m[1]), parseNum(m[2])}
		if m[3] != "" {
			vals = append(vals, parseNum(m[3]))
		}
		for i := range vals {
			vals[i] = toMM(vals[i], m[4])
		}
		sort.Float64s(vals)
		if !containsSeq(d.Sequences, vals) {
			d.Sequences = append(d.Sequences, vals)
		}
	}

	if _, ok := d.Labeled[Thickness]; !ok {
		if m := thicknessRe.FindStringSubmatch(s); m != nil {
			d.Labeled[Thickness] = parseNum(m[1]) // unit is always mm here
		}
	}

	return d
}

// CloseEnough reports whether two parsed dimension sets describe the same
// physical size. Shared labeled axes must all agree within tolerance; when
// both sides carry sequences the first tuples must have equal arity and agree
// pairwise. With no evidence on either side the items are compatible.
func CloseEnough(a, b Dims) bool {
	for axis, av := range a.Labeled {
		bv, ok := b.Labeled[axis]
		if !ok {
			continue
		}
		if !nearlyEqual(av, bv) {
			return false
		}
	}

	if len(a.Sequences) > 0 && len(b.Sequences) > 0 {
		sa, sb := a.Sequences[0], b.Sequences[0]
		if len(sa) != len(sb) {
			return false
		}
		for i := range sa {
			if !nearlyEqual(sa[i], sb[i]) {
				return false
			}
		}
	}
	return true
}

// nearlyEqual allows max(5mm, 2% of the larger value).
func nearlyEqual(a, b float64) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	if a == 0 || b == 0 {
		return diff <= 5
	}
	tol := 0.02 * max(a, b)
	if tol < 5 {
		tol = 5
	}
	return diff <= tol
}

// toMM converts to millimetres. Unlabeled values up to 100 are assumed to be
// metre-scale measurements, everything larger is already millimetres.
func toMM(v float64, unit string) float64 {
	if f, ok := unitToMM[unit]; ok {
		return v * f
	}
	if v <= 100 {
		return v * 1000
	}
	return v
}

func parseNum(s string) float64 {
	if !numRe.MatchString(s) {
		return 0
	}
	return normalize.CoerceNumber(s, 0)
}

func containsSeq(seqs [][]float64, vals []float64) bool {
	for _, s := range seqs {
		if len(s) != len(vals) {
			continue
		}
		same := true
		for i := range s {
			if s[i] != vals[i] {
				same = false
				break
			}
		}
		if same {
			return true
		}
	}
	return false
}
