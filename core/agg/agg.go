// Package agg has filtering and grouping logic for operational records.
package agg

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/huangsam/airqc/schema"
)

// Filter returns the records matching the airline, gate set and inclusive date range.
// Record order is preserved and the input slice is never modified.
func Filter(records []schema.OperationalRecord, f schema.Filter) ([]schema.OperationalRecord, error) {
	allAirlines := schema.IsAllAirlines(f.Airline)
	if !allAirlines && !schema.IsKnownAirline(f.Airline) {
		return nil, fmt.Errorf("%w: airline %q", schema.ErrUnknownCategory, f.Airline)
	}

	gateSet := make(map[string]struct{}, len(f.Gates))
	for _, g := range f.Gates {
		if !schema.IsKnownGate(g) {
			return nil, fmt.Errorf("%w: gate %q", schema.ErrUnknownCategory, g)
		}
		gateSet[g] = struct{}{}
	}

	if !f.Start.IsZero() && !f.End.IsZero() && f.Start.After(f.End) {
		return nil, fmt.Errorf("%w: start %s is after end %s",
			schema.ErrInvalidRange, schema.FormatDay(f.Start), schema.FormatDay(f.End))
	}

	out := make([]schema.OperationalRecord, 0)
	if len(gateSet) == 0 {
		return out, nil
	}

	start, end := schema.Day(f.Start), schema.Day(f.End)
	for _, r := range records {
		if !allAirlines && r.Airline != f.Airline {
			continue
		}
		if _, ok := gateSet[r.Gate]; !ok {
			continue
		}
		day := schema.Day(r.Date)
		if !f.Start.IsZero() && day.Before(start) {
			continue
		}
		if !f.End.IsZero() && day.After(end) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// bucket accumulates one group during aggregation.
type bucket struct {
	sum   float64
	count int
}

// Aggregate groups records by key and reduces the value field within each group.
// Dates come out chronologically, categories in enumeration order.
func Aggregate(records []schema.OperationalRecord, key schema.GroupKey, field schema.ValueField, reducer schema.Reducer) (schema.Series, error) {
	if _, ok := schema.ValidGroupKeys[key]; !ok {
		return schema.Series{}, fmt.Errorf("%w: group key %q", schema.ErrInvalidParameter, key)
	}
	if _, ok := schema.ValidValueFields[field]; !ok {
		return schema.Series{}, fmt.Errorf("%w: value field %q", schema.ErrInvalidParameter, field)
	}
	if _, ok := schema.ValidReducers[reducer]; !ok {
		return schema.Series{}, fmt.Errorf("%w: reducer %q", schema.ErrInvalidParameter, reducer)
	}

	name := fmt.Sprintf("%s(%s) by %s", reducer, field, key)
	buckets := make(map[string]*bucket)
	var keys []string
	for _, r := range records {
		k, err := r.Category(key)
		if err != nil {
			return schema.Series{}, err
		}
		v, err := r.Field(field)
		if err != nil {
			return schema.Series{}, err
		}
		b, ok := buckets[k]
		if !ok {
			b = &bucket{}
			buckets[k] = b
			keys = append(keys, k)
		}
		b.sum += v
		b.count++
	}

	sortKeys(key, keys)

	values := make([]float64, len(keys))
	for i, k := range keys {
		b := buckets[k]
		switch reducer {
		case schema.ReduceSum:
			values[i] = b.sum
		case schema.ReduceMean:
			values[i] = b.sum / float64(b.count)
		case schema.ReduceCount:
			values[i] = float64(b.count)
		}
	}
	return schema.NewSeries(name, keys, values), nil
}

// AggregateProportions sums scan failures and total bags per group for P-chart input.
func AggregateProportions(records []schema.OperationalRecord, key schema.GroupKey) ([]schema.Proportion, error) {
	if _, ok := schema.ValidGroupKeys[key]; !ok {
		return nil, fmt.Errorf("%w: group key %q", schema.ErrInvalidParameter, key)
	}

	index := make(map[string]int)
	out := make([]schema.Proportion, 0)
	for _, r := range records {
		k, err := r.Category(key)
		if err != nil {
			return nil, err
		}
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, schema.Proportion{Key: k})
		}
		out[i].Defects += r.ScanFailures
		out[i].Total += r.TotalBags
	}

	slices.SortStableFunc(out, func(a, b schema.Proportion) int {
		return compareKeys(key, a.Key, b.Key)
	})
	return out, nil
}

// CountCategories tallies records per category, in the order each category is first seen.
func CountCategories(records []schema.OperationalRecord, key schema.GroupKey) ([]schema.CategoryCount, error) {
	if _, ok := schema.ValidGroupKeys[key]; !ok {
		return nil, fmt.Errorf("%w: group key %q", schema.ErrInvalidParameter, key)
	}

	index := make(map[string]int)
	out := make([]schema.CategoryCount, 0)
	for _, r := range records {
		k, err := r.Category(key)
		if err != nil {
			return nil, err
		}
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, schema.CategoryCount{Category: k})
		}
		out[i].Count++
	}
	return out, nil
}

// SortCounts orders category counts by the natural order of key.
// Gate utilisation is reported this way rather than by frequency.
func SortCounts(counts []schema.CategoryCount, key schema.GroupKey) []schema.CategoryCount {
	out := slices.Clone(counts)
	slices.SortStableFunc(out, func(a, b schema.CategoryCount) int {
		return compareKeys(key, a.Category, b.Category)
	})
	return out
}

// RecordSpan returns the first and last calendar day covered by records.
// Both are zero when records is empty.
func RecordSpan(records []schema.OperationalRecord) (time.Time, time.Time) {
	var first, last time.Time
	for i, r := range records {
		d := schema.Day(r.Date)
		if i == 0 || d.Before(first) {
			first = d
		}
		if i == 0 || d.After(last) {
			last = d
		}
	}
	return first, last
}

// sortKeys orders group keys in place.
func sortKeys(key schema.GroupKey, keys []string) {
	slices.SortStableFunc(keys, func(a, b string) int {
		return compareKeys(key, a, b)
	})
}

// compareKeys orders ISO dates lexically and categories by enumeration rank.
func compareKeys(key schema.GroupKey, a, b string) int {
	if key == schema.GroupByDate {
		return cmp.Compare(a, b)
	}
	if c := cmp.Compare(schema.CategoryRank(key, a), schema.CategoryRank(key, b)); c != 0 {
		return c
	}
	return cmp.Compare(a, b)
}
