package contract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, time.November, 3, 10, 0, 0, 0, time.UTC)

// TestParseRelativeTime covers various valid and invalid cases.
func TestParseRelativeTime(t *testing.T) {
	today := time.Date(2025, time.November, 3, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		input       string
		expected    time.Time
		expectError bool
	}{
		{"valid plural months (mixed case)", "3 MoNtHs AgO", today.AddDate(0, -3, 0), false},
		{"valid singular week (capitalized)", "1 Week Ago", today.AddDate(0, 0, -7), false},
		{"valid 10 days (upper case)", "10 DAYS AGO", today.AddDate(0, 0, -10), false},
		{"valid 1 year", "1 year ago", today.AddDate(-1, 0, 0), false},
		{"invalid missing ago", "2 years", time.Time{}, true},
		{"invalid bad unit (hours)", "4 hours ago", time.Time{}, true},
		{"invalid non-numeric value", "one year ago", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRelativeTime(tt.input, fixedNow)
			if tt.expectError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseDateBound(t *testing.T) {
	got, err := ParseDateBound("", fixedNow)
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	got, err = ParseDateBound("2025-06-15", fixedNow)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), got)

	got, err = ParseDateBound("30 days ago", fixedNow)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 10, 4, 0, 0, 0, 0, time.UTC), got)

	_, err = ParseDateBound("yesterday", fixedNow)
	assert.Error(t, err)
}
