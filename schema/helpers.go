package schema

import (
	"slices"
	"strings"
	"time"
)

// DateLayout is the ISO calendar day layout used for series keys and file formats.
const DateLayout = "2006-01-02"

// Day truncates a time to its calendar day at UTC midnight.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatDay renders a calendar day as YYYY-MM-DD.
func FormatDay(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDay parses a YYYY-MM-DD calendar day into UTC midnight.
func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, err
	}
	return Day(t), nil
}

// IsKnownAirline reports whether name is a member of AllAirlines.
func IsKnownAirline(name string) bool {
	return slices.Contains(AllAirlines, name)
}

// IsKnownGate reports whether gate is a member of AllGates.
func IsKnownGate(gate string) bool {
	return slices.Contains(AllGates, gate)
}

// IsKnownDelayCause reports whether cause is a member of AllDelayCauses.
func IsKnownDelayCause(cause string) bool {
	return slices.Contains(AllDelayCauses, cause)
}

// IsAllAirlines reports whether the selector means every airline.
func IsAllAirlines(selector string) bool {
	return strings.EqualFold(strings.TrimSpace(selector), AirlineAll)
}

// CategoryOrder returns the display order for a categorical group key.
// It returns nil for GroupByDate, which is ordered chronologically instead.
func CategoryOrder(k GroupKey) []string {
	switch k {
	case GroupByGate:
		return AllGates
	case GroupByDelayCause:
		return AllDelayCauses
	case GroupByAirline:
		return AllAirlines
	default:
		return nil
	}
}

// CategoryRank returns the position of value within the order of k, or len(order) when unknown.
func CategoryRank(k GroupKey, value string) int {
	order := CategoryOrder(k)
	if idx := slices.Index(order, value); idx >= 0 {
		return idx
	}
	return len(order)
}
