package contract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/airqc/schema"
)

// Define the regular expression to capture "N [units] ago"
// e.g., "2 years ago", "3 months ago", "10 days ago".
var relativeTimeRe = regexp.MustCompile(`^(\d+)\s+(year|month|week|day)s?\s+ago$`)

// ParseRelativeTime converts strings like "30 days ago" into a calendar day in the past.
func ParseRelativeTime(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	matches := relativeTimeRe.FindStringSubmatch(s)

	if len(matches) == 0 {
		return time.Time{}, fmt.Errorf("invalid relative time format: %s", s)
	}

	value, err := strconv.Atoi(matches[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid relative time value: %s", matches[1])
	}
	today := schema.Day(now)

	switch matches[2] {
	case "year":
		return today.AddDate(-value, 0, 0), nil
	case "month":
		return today.AddDate(0, -value, 0), nil
	case "week":
		return today.AddDate(0, 0, -7*value), nil
	default: // "day"
		return today.AddDate(0, 0, -value), nil
	}
}

// ParseDateBound parses an ISO day or a relative "N units ago" expression.
// An empty string yields the zero time, meaning the bound was omitted.
func ParseDateBound(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := schema.ParseDay(s); err == nil {
		return t, nil
	}
	t, err := ParseRelativeTime(s, now)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q. Expected YYYY-MM-DD or 'N [units] ago'", s)
	}
	return t, nil
}
