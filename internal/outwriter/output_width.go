package outwriter

import (
	"os"

	"golang.org/x/term"
)

// Bounds for the bar column in gate usage and Pareto tables.
const (
	minBarWidth = 10
	maxBarWidth = 40
)

// getBarWidth sizes the bar column from the terminal width.
// reserved is the width already taken by the other columns.
func getBarWidth(reserved int) int {
	termWidth := 80 // Conservative default for narrow terminals and CI
	if detected, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && detected > 0 {
		termWidth = detected
	}
	return clampBarWidth(termWidth - reserved)
}

func clampBarWidth(available int) int {
	if available < minBarWidth {
		return minBarWidth
	}
	if available > maxBarWidth {
		return maxBarWidth
	}
	return available
}
