package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/huangsam/airqc/internal/contract"
	"github.com/huangsam/airqc/internal/parquet"
	"github.com/huangsam/airqc/schema"
)

// PrintSeriesResults outputs a single metric run, dispatching based on the output format configured.
func PrintSeriesResults(result schema.SeriesResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, fmtPoint := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result)
		}, "Wrote JSON series"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{"key", "input", "output", "center", "lcl", "ucl", "label"}, func(cw *csv.Writer) error {
				return writeSeriesCSVRows(cw, result, fmtFloat, fmtPoint)
			})
		}, "Wrote CSV series"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := parquet.WriteSeriesParquet(parquet.ConvertSeries(result.Input, result.Output), cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
		logParquetWritten(cfg.OutputFile)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSeriesTable(w, result, cfg, fmtFloat, fmtPoint, duration)
		}, "Wrote table")
	}
	return nil
}

// seriesLimits returns the limits that apply to point i, if any.
func seriesLimits(r schema.SeriesResult, i int) *schema.ControlLimits {
	if r.Limits != nil {
		return r.Limits
	}
	if i < len(r.PChart) {
		p := r.PChart[i]
		return &schema.ControlLimits{Mean: p.Center, LCL: p.LCL, UCL: p.UCL}
	}
	return nil
}

// hasLimits reports whether the metric carries control limits.
func hasLimits(r schema.SeriesResult) bool {
	return r.Limits != nil || len(r.PChart) > 0
}

func writeSeriesCSVRows(w *csv.Writer, r schema.SeriesResult, fmtFloat func(float64) string, fmtPoint func(schema.Point) string) error {
	for i, p := range r.Output.Points {
		rec := []string{p.Key, fmtPoint(pointAt(r.Input, i)), fmtPoint(p), "", "", "", ""}
		if l := seriesLimits(r, i); l != nil {
			rec[3], rec[4], rec[5] = fmtFloat(l.Mean), fmtFloat(l.LCL), fmtFloat(l.UCL)
			rec[6] = contract.GetPlainLabel(p.Value, l.LCL, l.UCL, true)
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

func writeSeriesTable(w io.Writer, r schema.SeriesResult, cfg *contract.Config, fmtFloat func(float64) string, fmtPoint func(schema.Point) string, duration time.Duration) error {
	headers := []string{"Key", "Input", string(r.Metric)}
	withLimits := hasLimits(r)
	if withLimits {
		headers = append(headers, "LCL", "UCL", "Status")
	}

	var data [][]string
	for i, p := range r.Output.Points {
		row := []string{contract.TruncateLabel(p.Key, 24), fmtPoint(pointAt(r.Input, i)), fmtPoint(p)}
		if withLimits {
			l := seriesLimits(r, i)
			row = append(row, fmtFloat(l.LCL), fmtFloat(l.UCL), statusLabel(cfg, p.Value, l))
		}
		data = append(data, row)
	}
	if err := renderTable(newTable(w, headers...), data); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "Showing %d points of %s\n", len(r.Output.Points), r.Output.Name); err != nil {
		return err
	}
	if r.Limits != nil {
		if _, err := fmt.Fprintf(w, "Center %s, sigma %s, %d point(s) out of control\n",
			fmtFloat(r.Limits.Mean), fmtFloat(r.Limits.StdDev), len(r.OutOfControl)); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "Series completed in %v. Store backend: %s\n", duration, cfg.StoreBackend); err != nil {
		return err
	}
	return nil
}
