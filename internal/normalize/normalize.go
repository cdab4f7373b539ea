// Package normalize holds the pure text and number utilities shared by the
// validator, the matcher and the layout engine. Everything here is total:
// malformed input degrades to a default instead of an error.
package normalize

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/WatcharananPha/quotegrid/internal/domain"
)

var (
	leadingOrdinalRe = regexp.MustCompile(`^\s*\d+[\.\)\-]\s*`)
	numberRe         = regexp.MustCompile(`^-?\d+(\.\d+)?$`)
	whitespaceRe     = regexp.MustCompile(`\s+`)

	emailRe = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	// Thai phone groupings: a leading 0 with optional dash or space
	// separators. Candidates with fewer than nine digits are dropped.
	phoneRe = regexp.MustCompile(`\b(0\d{1,2}[-\s]?\d{3}[-\s]?\d{3,4}|0\d{2}[-\s]?\d{7}|0\d{2}[-\s]?\d{3}[-\s]?\d{4})\b`)
	digitRe = regexp.MustCompile(`\d`)
)

// StripLeadingOrdinal removes an enumeration prefix such as "1. ", "2) " or
// "3- " from a product name. Idempotent.
func StripLeadingOrdinal(name string) string {
	return leadingOrdinalRe.ReplaceAllString(name, "")
}

// CleanProductName trims and strips the leading ordinal, substituting the
// unknown-product sentinel for empty input.
func CleanProductName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.UnknownProduct
	}
	return StripLeadingOrdinal(name)
}

// Canonical is the comparison form of a product name: lowercased,
// multiplication glyphs unified, leading ordinal stripped and whitespace
// collapsed.
func Canonical(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "×", "x")
	s = strings.ReplaceAll(s, "*", "x")
	s = leadingOrdinalRe.ReplaceAllString(s, "")
	return whitespaceRe.ReplaceAllString(s, " ")
}

// CoerceNumber accepts v as-is when it is already numeric. Text is accepted
// after removing thousands separators when the remainder is an optional-sign
// integer or decimal; anything else yields def.
func CoerceNumber(v any, def float64) float64 {
	n, ok := TryNumber(v)
	if !ok {
		return def
	}
	return n
}

// TryNumber reports whether v carries a usable numeric value.
func TryNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(t), ",", "")
		if !numberRe.MatchString(s) {
			return 0, false
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// ExtractContact pulls email addresses and Thai-style phone numbers out of
// free text and renders them as "Email: a, b, Phone: c, d". Both lists are
// deduplicated and sorted; an empty string means nothing was found.
func ExtractContact(text string) string {
	if text == "" {
		return ""
	}

	emails := dedupeSorted(emailRe.FindAllString(text, -1))

	var phones []string
	for _, p := range phoneRe.FindAllString(text, -1) {
		clean := whitespaceRe.ReplaceAllString(p, "")
		if len(digitRe.FindAllString(clean, -1)) >= 9 {
			phones = append(phones, clean)
		}
	}
	phones = dedupeSorted(phones)

	var parts []string
	if len(emails) > 0 {
		parts = append(parts, "Email: "+strings.Join(emails, ", "))
	}
	if len(phones) > 0 {
		parts = append(parts, "Phone: "+strings.Join(phones, ", "))
	}
	return strings.Join(parts, ", ")
}

func dedupeSorted(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	var out []string
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
