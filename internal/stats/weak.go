package stats

import (
	"cmp"
	"slices"
	"strings"

	"github.com/verte-zerg/lenuk/internal/model"
)

// SelectWeakChars returns the lowest-accuracy characters, weakest first.
func SelectWeakChars(aggs []model.CharAggregate, top int) []string {
	sorted := WeakestFirst(aggs)
	if top <= 0 || top > len(sorted) {
		top = len(sorted)
	}
	out := make([]string, 0, top)
	for _, agg := range sorted[:top] {
		if agg.Char != "" {
			out = append(out, agg.Char)
		}
	}
	return out
}

// WeakestFirst returns a copy of aggs ordered by accuracy, then character.
func WeakestFirst(aggs []model.CharAggregate) []model.CharAggregate {
	sorted := slices.Clone(aggs)
	slices.SortStableFunc(sorted, func(a, b model.CharAggregate) int {
		if c := cmp.Compare(CharAccuracy(a), CharAccuracy(b)); c != 0 {
			return c
		}
		return strings.Compare(a.Char, b.Char)
	})
	return sorted
}

// CharAccuracy is the correct share of attempts, 1 when there are none.
func CharAccuracy(agg model.CharAggregate) float64 {
	total := agg.Correct + agg.Incorrect
	if total == 0 {
		return 1.0
	}
	return float64(agg.Correct) / float64(total)
}
