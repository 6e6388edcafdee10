package scoring

import (
	"cmp"
	"slices"

	"github.com/mr1hm/go-seaglass-map/internal/models"
)

// Filter narrows a scored zone set. Empty Tiers or Categories means no
// restriction on that field.
type Filter struct {
	MinScore   float64
	Tiers      []Classification
	Categories []models.Category
}

func (f Filter) Match(z Zone) bool {
	if z.Score() < f.MinScore {
		return false
	}
	if len(f.Tiers) > 0 && !slices.Contains(f.Tiers, z.Classification()) {
		return false
	}
	if len(f.Categories) > 0 && !slices.Contains(f.Categories, z.Category) {
		return false
	}
	return true
}

// Apply returns the zones matching f, in input order.
func (f Filter) Apply(zones []Zone) []Zone {
	out := make([]Zone, 0, len(zones))
	for _, z := range zones {
		if f.Match(z) {
			out = append(out, z)
		}
	}
	return out
}

// Summary counts zones per classification.
type Summary map[Classification]int

func Summarize(zones []Zone) Summary {
	s := make(Summary, len(Classifications))
	for _, c := range Classifications {
		s[c] = 0
	}
	for _, z := range zones {
		s[z.Classification()]++
	}
	return s
}

// SortByScore returns a copy of zones ordered by descending score, ties
// broken by ID.
func SortByScore(zones []Zone) []Zone {
	out := slices.Clone(zones)
	slices.SortStableFunc(out, func(a, b Zone) int {
		if c := cmp.Compare(b.Score(), a.Score()); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}
