package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/huangsam/airqc/internal/contract"
	"github.com/huangsam/airqc/internal/parquet"
	"github.com/huangsam/airqc/schema"
)

// reportCSVHeader is the long-format layout shared by every report section.
var reportCSVHeader = []string{
	"section", "key", "value", "derived", "center", "lcl", "ucl",
	"percent", "cumulative_percent", "label",
}

// PrintReportResults outputs the dashboard report, dispatching based on the output format configured.
func PrintReportResults(result schema.ReportResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, fmtPoint := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result)
		}, "Wrote JSON report"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, reportCSVHeader, func(cw *csv.Writer) error {
				return writeReportCSVRows(cw, result, fmtFloat, fmtPoint)
			})
		}, "Wrote CSV report"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := parquet.WriteSeriesParquet(parquet.ConvertSeries(reportSeries(result)...), cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
		logParquetWritten(cfg.OutputFile)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeReportText(w, result, cfg, fmtFloat, fmtPoint, duration)
		}, "Wrote report")
	}
	return nil
}

// reportSeries flattens the report into named series for columnar export.
// Tallies become series keyed by category.
func reportSeries(r schema.ReportResult) []schema.Series {
	gateKeys := make([]string, len(r.GateUsage))
	gateCounts := make([]float64, len(r.GateUsage))
	for i, c := range r.GateUsage {
		gateKeys[i] = c.Category
		gateCounts[i] = float64(c.Count)
	}
	causeKeys := make([]string, len(r.DelayCauses))
	causeCounts := make([]float64, len(r.DelayCauses))
	for i, e := range r.DelayCauses {
		causeKeys[i] = e.Category
		causeCounts[i] = float64(e.Count)
	}
	return []schema.Series{
		r.Turnaround.Series,
		r.BagSLA.Raw, r.BagSLA.Derived,
		r.Queue.Raw, r.Queue.Derived,
		r.ScanFailures.Rates,
		r.PassengerFlow.Raw, r.PassengerFlow.Derived,
		schema.NewSeries("gate_usage", gateKeys, gateCounts),
		schema.NewSeries("delay_causes", causeKeys, causeCounts),
	}
}

// writeReportCSVRows writes every section in long format.
func writeReportCSVRows(w *csv.Writer, r schema.ReportResult, fmtFloat func(float64) string, fmtPoint func(schema.Point) string) error {
	var rows [][]string
	row := func(section, key string) []string {
		out := make([]string, len(reportCSVHeader))
		out[0], out[1] = section, key
		return out
	}

	for _, p := range r.Turnaround.Series.Points {
		rec := row("turnaround", p.Key)
		rec[2] = fmtPoint(p)
		rec[9] = contract.NoLimitsValue
		if l := r.Turnaround.Limits; l != nil {
			rec[4], rec[5], rec[6] = fmtFloat(l.Mean), fmtFloat(l.LCL), fmtFloat(l.UCL)
			rec[9] = contract.GetPlainLabel(p.Value, l.LCL, l.UCL, true)
		}
		rows = append(rows, rec)
	}
	trends := []struct {
		name    string
		section schema.TrendSection
	}{
		{"bag_sla_cusum", r.BagSLA},
		{"queue_ewma", r.Queue},
		{"passenger_flow_ma", r.PassengerFlow},
	}
	for _, t := range trends {
		for i, p := range t.section.Raw.Points {
			rec := row(t.name, p.Key)
			rec[2] = fmtPoint(p)
			rec[3] = fmtPoint(pointAt(t.section.Derived, i))
			rows = append(rows, rec)
		}
	}
	for _, c := range r.GateUsage {
		rec := row("gate_usage", c.Category)
		rec[2] = strconv.Itoa(c.Count)
		rows = append(rows, rec)
	}
	for _, p := range r.ScanFailures.Points {
		rec := row("scan_failures", p.Key)
		rec[2], rec[4], rec[5], rec[6] = fmtFloat(p.Rate), fmtFloat(p.Center), fmtFloat(p.LCL), fmtFloat(p.UCL)
		rec[9] = contract.GetPlainLabel(p.Rate, p.LCL, p.UCL, true)
		rows = append(rows, rec)
	}
	for _, e := range r.DelayCauses {
		rec := row("delay_causes", e.Category)
		rec[2], rec[7], rec[8] = strconv.Itoa(e.Count), fmtFloat(e.Percent), fmtFloat(e.CumulativePercent)
		rows = append(rows, rec)
	}
	return w.WriteAll(rows)
}

// writeReportText renders each section as its own table.
func writeReportText(w io.Writer, r schema.ReportResult, cfg *contract.Config, fmtFloat func(float64) string, fmtPoint func(schema.Point) string, duration time.Duration) error {
	// Turnaround X-bar chart
	if err := writeSectionTitle(w, cfg, "⏱️", "Turnaround (daily mean, 3-sigma limits)"); err != nil {
		return err
	}
	lcl, ucl := absentValue, absentValue
	if l := r.Turnaround.Limits; l != nil {
		lcl, ucl = fmtFloat(l.LCL), fmtFloat(l.UCL)
	}
	var data [][]string
	for _, p := range r.Turnaround.Series.Points {
		data = append(data, []string{p.Key, fmtPoint(p), lcl, ucl, statusLabel(cfg, p.Value, r.Turnaround.Limits)})
	}
	if err := renderTable(newTable(w, "Day", "Mean", "LCL", "UCL", "Status"), data); err != nil {
		return err
	}
	if len(r.Turnaround.OutOfControl) > 0 {
		if _, err := fmt.Fprintf(w, "Out of control: %d day(s)\n", len(r.Turnaround.OutOfControl)); err != nil {
			return err
		}
	}

	// Trend sections share a layout
	trends := []struct {
		emoji, title, valueHeader, derivedHeader string
		section                                  schema.TrendSection
	}{
		{"🧳", "Bag SLA (daily mean, CUSUM)", "Mean", "CUSUM", r.BagSLA},
		{"🚶", fmt.Sprintf("Queue time (daily mean, EWMA alpha=%g)", r.Alpha), "Mean", "EWMA", r.Queue},
		{"👥", fmt.Sprintf("Passenger flow (daily total, %d-day moving average)", r.Window), "Total", "MA", r.PassengerFlow},
	}
	for _, t := range trends {
		if err := writeSectionTitle(w, cfg, t.emoji, t.title); err != nil {
			return err
		}
		data = nil
		for i, p := range t.section.Raw.Points {
			data = append(data, []string{p.Key, fmtPoint(p), fmtPoint(pointAt(t.section.Derived, i))})
		}
		if err := renderTable(newTable(w, "Day", t.valueHeader, t.derivedHeader), data); err != nil {
			return err
		}
	}

	// Gate utilisation
	if err := writeSectionTitle(w, cfg, "🚪", "Gate utilisation"); err != nil {
		return err
	}
	maxCount := 0
	for _, c := range r.GateUsage {
		maxCount = max(maxCount, c.Count)
	}
	barWidth := getBarWidth(30)
	data = nil
	for _, c := range r.GateUsage {
		data = append(data, []string{c.Category, strconv.Itoa(c.Count), renderBar(float64(c.Count)/float64(max(maxCount, 1)), barWidth)})
	}
	if err := renderTable(newTable(w, "Gate", "Records", ""), data); err != nil {
		return err
	}

	// Scan-failure P-chart
	if err := writeSectionTitle(w, cfg, "🔍", "Scan failures (P-chart)"); err != nil {
		return err
	}
	data = nil
	for _, p := range r.ScanFailures.Points {
		limits := &schema.ControlLimits{Mean: p.Center, LCL: p.LCL, UCL: p.UCL}
		data = append(data, []string{p.Key, fmtFloat(p.Rate), fmtFloat(p.Center), fmtFloat(p.LCL), fmtFloat(p.UCL), statusLabel(cfg, p.Rate, limits)})
	}
	if err := renderTable(newTable(w, "Day", "Rate", "Center", "LCL", "UCL", "Status"), data); err != nil {
		return err
	}

	// Delay-cause Pareto
	if err := writeSectionTitle(w, cfg, "📊", "Delay causes (Pareto)"); err != nil {
		return err
	}
	if err := writeParetoTable(w, r.DelayCauses, fmtFloat); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "Report covered %d records (%s → %s) in %v with %d workers. Store backend: %s\n",
		r.RecordCount, formatDay(r.Start), formatDay(r.End), duration, cfg.Workers, cfg.StoreBackend); err != nil {
		return err
	}
	return nil
}

// formatDay renders a day, or "*" when unknown.
func formatDay(t time.Time) string {
	if t.IsZero() {
		return "*"
	}
	return schema.FormatDay(t)
}

// logParquetWritten mirrors the file message of writeWithFile for Parquet output.
func logParquetWritten(path string) {
	fmt.Fprintf(os.Stderr, "💾 Wrote Parquet to %s\n", path)
}
