package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/airqc/internal/contract"
	"github.com/huangsam/airqc/internal/parquet"
	"github.com/huangsam/airqc/schema"
)

// PrintParetoResults outputs a Pareto ranking, dispatching based on the output format configured.
func PrintParetoResults(entries []schema.ParetoEntry, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSONResultsForPareto(w, entries)
		}, "Wrote JSON ranking"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{"rank", "category", "count", "percent", "cumulative_percent"}, func(cw *csv.Writer) error {
				for i, e := range entries {
					rec := []string{strconv.Itoa(i + 1), e.Category, strconv.Itoa(e.Count), fmtFloat(e.Percent), fmtFloat(e.CumulativePercent)}
					if err := cw.Write(rec); err != nil {
						return err
					}
				}
				return nil
			})
		}, "Wrote CSV ranking"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := parquet.WriteParetoParquet(parquet.ConvertPareto(entries), cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
		logParquetWritten(cfg.OutputFile)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			if err := writeParetoTable(w, entries, fmtFloat); err != nil {
				return err
			}
			total := 0
			for _, e := range entries {
				total += e.Count
			}
			_, err := fmt.Fprintf(w, "Ranked %d categories of %s over %d records in %v\n", len(entries), cfg.Category, total, duration)
			return err
		}, "Wrote table")
	}
	return nil
}

// writeJSONResultsForPareto adds the rank to every entry.
func writeJSONResultsForPareto(w io.Writer, entries []schema.ParetoEntry) error {
	type JSONParetoEntry struct {
		Rank int `json:"rank"`
		schema.ParetoEntry
	}
	output := make([]JSONParetoEntry, len(entries))
	for i, e := range entries {
		output[i] = JSONParetoEntry{Rank: i + 1, ParetoEntry: e}
	}
	return writeJSON(w, output)
}

// writeParetoTable renders ranked entries with a cumulative bar.
func writeParetoTable(w io.Writer, entries []schema.ParetoEntry, fmtFloat func(float64) string) error {
	barWidth := getBarWidth(60)
	var data [][]string
	for i, e := range entries {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			e.Category,
			strconv.Itoa(e.Count),
			fmtFloat(e.Percent) + "%",
			fmtFloat(e.CumulativePercent) + "%",
			renderBar(e.Percent/100, barWidth),
		})
	}
	return renderTable(newTable(w, "Rank", "Category", "Count", "Percent", "Cumulative", ""), data)
}
