package algo

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/huangsam/airqc/core/agg"
	"github.com/huangsam/airqc/schema"
)

// Pareto counts records per category and ranks the categories by frequency.
func Pareto(records []schema.OperationalRecord, category schema.GroupKey) ([]schema.ParetoEntry, error) {
	if category == schema.GroupByDate {
		return nil, fmt.Errorf("%w: pareto needs a categorical field, got %q", schema.ErrInvalidParameter, category)
	}
	counts, err := agg.CountCategories(records, category)
	if err != nil {
		return nil, err
	}
	return RankCounts(counts)
}

// RankCounts sorts tallies by count in descending order and attaches percentages.
// Ties keep their input order. The cumulative percentage ends at 100.
func RankCounts(counts []schema.CategoryCount) ([]schema.ParetoEntry, error) {
	total := 0
	for _, c := range counts {
		if c.Count < 0 {
			return nil, fmt.Errorf("%w: negative count for %q", schema.ErrInvalidParameter, c.Category)
		}
		total += c.Count
	}

	sorted := slices.Clone(counts)
	slices.SortStableFunc(sorted, func(a, b schema.CategoryCount) int {
		return cmp.Compare(b.Count, a.Count)
	})

	out := make([]schema.ParetoEntry, 0, len(sorted))
	if total == 0 {
		return out, nil
	}
	running := 0
	for _, c := range sorted {
		running += c.Count
		out = append(out, schema.ParetoEntry{
			Category:          c.Category,
			Count:             c.Count,
			Percent:           100 * float64(c.Count) / float64(total),
			CumulativePercent: 100 * float64(running) / float64(total),
		})
	}
	return out, nil
}
