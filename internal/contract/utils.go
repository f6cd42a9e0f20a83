package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
)

// Control status label constants.
const (
	OutOfControlValue = "Out"     // Point beyond a control limit
	InControlValue    = "In"      // Point within the control limits
	NoLimitsValue     = "Pending" // Not enough data for limits yet
)

// Color variables for console output.
var (
	OutOfControlColor = color.New(color.FgRed, color.Bold) // OutOfControlColor represents standard danger.
	InControlColor    = color.New(color.FgGreen)           // InControlColor represents a stable process.
	NoLimitsColor     = color.New(color.FgYellow)          // NoLimitsColor represents standard caution.
	HeaderColor       = color.New(color.FgCyan)            // HeaderColor highlights section titles.
)

// GetPlainLabel returns a plain text label indicating whether value lies within [lcl, ucl].
// This is the core logic used for CSV, JSON, and table printing.
func GetPlainLabel(value, lcl, ucl float64, hasLimits bool) string {
	switch {
	case !hasLimits:
		return NoLimitsValue
	case value > ucl || value < lcl:
		return OutOfControlValue
	default:
		return InControlValue
	}
}

// GetColorLabel returns a colored text label for console output (table).
func GetColorLabel(value, lcl, ucl float64, hasLimits bool) string {
	text := GetPlainLabel(value, lcl, ucl, hasLimits)

	switch text {
	case OutOfControlValue:
		return OutOfControlColor.Sprint(text)
	case InControlValue:
		return InControlColor.Sprint(text)
	default:
		return NoLimitsColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. It falls back to os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetStoreDBFilePath returns the path to the SQLite DB file for the record store.
func GetStoreDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".airqc_records.db"
	}
	return filepath.Join(homeDir, ".airqc_records.db")
}

// TruncateLabel truncates a label to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 so that at least one character survives.
func TruncateLabel(label string, maxWidth int) string {
	runes := []rune(label)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return label
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
