package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripLeadingOrdinal(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"dot prefix", "1. Widget", "Widget"},
		{"paren prefix", "2) Widget", "Widget"},
		{"dash prefix", "3- Widget", "Widget"},
		{"leading whitespace", "  12. Widget", "Widget"},
		{"no prefix", "Widget 5mm", "Widget 5mm"},
		{"digits inside name", "Glass 10 mm", "Glass 10 mm"},
		{"empty", "", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, StripLeadingOrdinal(tc.input))
		})
	}
}

func TestStripLeadingOrdinal_Idempotent(t *testing.T) {
	inputs := []string{"1. Widget", "2) 3) Widget", "Widget", "  9- x", ""}
	for _, in := range inputs {
		once := StripLeadingOrdinal(in)
		assert.Equal(t, once, StripLeadingOrdinal(once), "not idempotent for %q", in)
	}
}

func TestCleanProductName(t *testing.T) {
	assert.Equal(t, "Widget", CleanProductName(" 1. Widget "))
	assert.Equal(t, "Unknown Product", CleanProductName(""))
	assert.Equal(t, "Unknown Product", CleanProductName("   "))
}

func TestCanonical(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1. Tempered  Glass 10×20", "tempered glass 10x20"},
		{"GLASS 4*5 mm", "glass 4x5 mm"},
		{"  Widget ", "widget"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.expected, Canonical(tc.input))
	}
}

func TestCoerceNumber(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		def      float64
		expected float64
	}{
		{"float passthrough", 12.5, 0, 12.5},
		{"int passthrough", 7, 0, 7},
		{"plain string", "42", 0, 42},
		{"decimal string", "3.14", 0, 3.14},
		{"negative string", "-2.5", 0, -2.5},
		{"thousands separators", "1,234,567.8", 0, 1234567.8},
		{"currency text rejected", "THB 500", 9, 9},
		{"empty string", "", 1, 1},
		{"nil", nil, 5, 5},
		{"bool", true, 5, 5},
		{"double dot", "1.2.3", 5, 5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.expected, CoerceNumber(tc.input, tc.def), 1e-9)
		})
	}
}

func TestExtractContact(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			"email and phone",
			"ติดต่อ sales@acme.co.th โทร 02-123-4567",
			"Email: sales@acme.co.th, Phone: 02-123-4567",
		},
		{
			"phone only with spaces",
			"Tel. 081 234 5678",
			"Phone: 0812345678",
		},
		{
			"dedup emails sorted",
			"a@b.com ... z@b.com ... a@b.com",
			"Email: a@b.com, z@b.com",
		},
		{"too few digits dropped", "0-12 34", ""},
		{"nothing", "just a name", ""},
		{"empty", "", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ExtractContact(tc.input))
		})
	}
}
