// Package outwriter has output and writer logic.
package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/huangsam/airqc/internal/contract"
	"github.com/huangsam/airqc/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// absentValue is rendered for points without a value, e.g. the head of a moving average.
const absentValue = "-"

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// It accepts a writer function that takes an io.Writer and returns an error.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVWithHeader handles the common pattern of creating a CSV writer,
// writing a header, and writing data rows.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	if err := writeRows(csvWriter); err != nil {
		return err
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

// createFormatters creates the common formatter closures used across multiple output types.
func createFormatters(precision int) (fmtFloat func(float64) string, fmtPoint func(schema.Point) string) {
	fmtFloat = func(v float64) string {
		return fmt.Sprintf("%.*f", precision, v)
	}
	fmtPoint = func(p schema.Point) string {
		if !p.Valid {
			return absentValue
		}
		return fmtFloat(p.Value)
	}
	return fmtFloat, fmtPoint
}

// pointAt returns the i-th point of s, or an absent point when s is shorter.
func pointAt(s schema.Series, i int) schema.Point {
	if i < len(s.Points) {
		return s.Points[i]
	}
	return schema.Point{}
}

// statusLabel labels a value against optional limits, coloured for the console when enabled.
func statusLabel(cfg *contract.Config, value float64, limits *schema.ControlLimits) string {
	lcl, ucl := 0.0, 0.0
	if limits != nil {
		lcl, ucl = limits.LCL, limits.UCL
	}
	if cfg.UseColors {
		return contract.GetColorLabel(value, lcl, ucl, limits != nil)
	}
	return contract.GetPlainLabel(value, lcl, ucl, limits != nil)
}

// newTable creates a right-aligned table, the house style for numeric output.
func newTable(w io.Writer, headers ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	return table
}

// renderTable bulk-loads rows and renders the table.
func renderTable(table *tablewriter.Table, data [][]string) error {
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// writeSectionTitle prints a section title, highlighted when colours are enabled.
func writeSectionTitle(w io.Writer, cfg *contract.Config, emoji, title string) error {
	if cfg.UseEmojis {
		title = emoji + " " + title
	}
	if cfg.UseColors {
		title = contract.HeaderColor.Sprint(title)
	}
	_, err := fmt.Fprintf(w, "\n%s\n", title)
	return err
}

// renderBar draws a proportional bar of at most width cells.
func renderBar(fraction float64, width int) string {
	if width <= 0 || fraction <= 0 {
		return ""
	}
	n := int(fraction*float64(width) + 0.5)
	return strings.Repeat("█", min(n, width))
}
