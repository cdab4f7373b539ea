// Package match partitions a supplier's line items into those that resolve to
// a product already on the sheet and those that are new. The deterministic
// implementation composes exact normalized-name matching with a semantic
// keyword plus dimension-closeness pass; a trivial fallback is always
// available so the system degrades gracefully.
package match

import (
	"context"

	"github.com/WatcharananPha/quotegrid/internal/dimension"
	"github.com/WatcharananPha/quotegrid/internal/domain"
	"github.com/WatcharananPha/quotegrid/internal/normalize"
)

type reference struct {
	name     string
	canon    string
	dims     dimension.Dims
	consumed bool
}

// Heuristic is the deterministic Matcher.
type Heuristic struct{}

// NewHeuristic returns the deterministic matcher.
func NewHeuristic() *Heuristic {
	return &Heuristic{}
}

// Match resolves targets against references in input order, first-fit, no
// backtracking. Each reference is consumed at most once. Matched items carry
// the reference's name and the target's figures.
func (m *Heuristic) Match(_ context.Context, targets []domain.LineItem, references []string) domain.MatchResult {
	res := domain.MatchResult{}
	if len(targets) == 0 {
		return res
	}

	refs := make([]*reference, 0, len(references))
	for _, name := range references {
		refs = append(refs, &reference{
			name:  name,
			canon: normalize.Canonical(name),
			dims:  dimension.Parse(name),
		})
	}

	for _, target := range targets {
		canon := normalize.Canonical(target.Name)
		dims := dimension.Parse(target.Name)

		ref := findExact(refs, canon)
		if ref == nil {
			ref = findCompatible(refs, target.Name, dims)
		}
		if ref == nil {
			res.Unique = append(res.Unique, target)
			continue
		}

		ref.consumed = true
		matched := target
		matched.Name = ref.name
		res.Matched = append(res.Matched, matched)
	}
	return res
}

func findExact(refs []*reference, canon string) *reference {
	for _, r := range refs {
		if !r.consumed && r.canon == canon {
			return r
		}
	}
	return nil
}

func findCompatible(refs []*reference, name string, dims dimension.Dims) *reference {
	for _, r := range refs {
		if r.consumed {
			continue
		}
		if dimension.CloseEnough(dims, r.dims) && semanticCompatible(name, r.name) {
			return r
		}
	}
	return nil
}

// Fallback is the no-op Matcher: every target is unique. It is the partition
// used whenever a smarter matcher is unavailable or fails.
type Fallback struct{}

// NewFallback returns the everything-unique matcher.
func NewFallback() *Fallback {
	return &Fallback{}
}

func (Fallback) Match(_ context.Context, targets []domain.LineItem, _ []string) domain.MatchResult {
	if len(targets) == 0 {
		return domain.MatchResult{}
	}
	return domain.MatchResult{Unique: targets}
}
