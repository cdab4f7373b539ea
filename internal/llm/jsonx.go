package llm

import (
	"regexp"
	"strings"

	"github.com/WatcharananPha/quotegrid/internal/domain"
)

var (
	fencedJSONRe    = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
)

// ExtractJSON pulls a JSON document out of model output. It prefers a fenced
// code block, then falls back to the outermost brace or bracket span, and
// strips trailing commas either way.
func ExtractJSON(text string) (string, error) {
	if m := fencedJSONRe.FindStringSubmatch(text); m != nil {
		candidate := strings.TrimSpace(m[1])
		if candidate != "" {
			return cleanJSON(candidate), nil
		}
	}

	start := strings.IndexAny(text, "{[")
	if start == -1 {
		return "", domain.ExtractionError("no JSON found in model output", nil)
	}
	var end int
	if text[start] == '{' {
		end = strings.LastIndexByte(text, '}')
	} else {
		end = strings.LastIndexByte(text, ']')
	}
	if end <= start {
		return "", domain.ExtractionError("unterminated JSON in model output", nil)
	}
	return cleanJSON(text[start : end+1]), nil
}

func cleanJSON(s string) string {
	return trailingCommaRe.ReplaceAllString(s, "$1")
}
