package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/airqc/internal/contract"
	"github.com/huangsam/airqc/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() schema.ReportResult {
	keys := []string{"2025-01-01", "2025-01-02", "2025-01-03"}
	raw := schema.NewSeries("mean(queue_minutes) by date", keys, []float64{8, 9, 7})
	return schema.ReportResult{
		Filter:      schema.DefaultFilter(),
		RecordCount: 12,
		Start:       time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		End:         time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC),
		Turnaround: schema.LimitsSection{
			Series:       schema.NewSeries("turnaround", keys, []float64{40, 41, 52}),
			Limits:       &schema.ControlLimits{Mean: 44, StdDev: 2, UCL: 50, LCL: 38},
			OutOfControl: []string{"2025-01-03"},
		},
		BagSLA: schema.TrendSection{Raw: raw, Derived: schema.NewSeries("cusum", keys, []float64{0, 1, 0})},
		Queue:  schema.TrendSection{Raw: raw, Derived: schema.NewSeries("ewma", keys, []float64{8, 8.3, 7.91})},
		PassengerFlow: schema.TrendSection{Raw: raw, Derived: schema.Series{Name: "ma", Points: []schema.Point{
			{Key: keys[0]}, {Key: keys[1]}, {Key: keys[2], Value: 8, Valid: true},
		}}},
		GateUsage: []schema.CategoryCount{{Category: "G1", Count: 7}, {Category: "G2", Count: 5}},
		ScanFailures: schema.PChartSection{
			Rates:  schema.NewSeries("pchart", keys, []float64{0.01, 0.012, 0.009}),
			Points: []schema.PChartPoint{{Key: keys[0], Rate: 0.01, Center: 0.01, UCL: 0.02, LCL: 0}},
		},
		DelayCauses: []schema.ParetoEntry{
			{Category: "Technical", Count: 8, Percent: 66.67, CumulativePercent: 66.67},
			{Category: "Crew", Count: 4, Percent: 33.33, CumulativePercent: 100},
		},
		Alpha:  0.3,
		Window: 3,
	}
}

func TestCreateFormatters(t *testing.T) {
	fmtFloat, fmtPoint := createFormatters(2)
	assert.Equal(t, "3.14", fmtFloat(3.14159))
	assert.Equal(t, "-42.57", fmtFloat(-42.567))
	assert.Equal(t, "7.78", fmtPoint(schema.Point{Value: 7.7759, Valid: true}))
	assert.Equal(t, absentValue, fmtPoint(schema.Point{Value: 5}))

	fmtFloat, _ = createFormatters(0)
	assert.Equal(t, "3", fmtFloat(3.14159))
}

func TestRenderBar(t *testing.T) {
	assert.Equal(t, "", renderBar(0, 10))
	assert.Equal(t, "", renderBar(0.5, 0))
	assert.Equal(t, 5, len([]rune(renderBar(0.5, 10))))
	assert.Equal(t, 10, len([]rune(renderBar(1.5, 10))))
}

func TestClampBarWidth(t *testing.T) {
	assert.Equal(t, minBarWidth, clampBarWidth(-5))
	assert.Equal(t, 25, clampBarWidth(25))
	assert.Equal(t, maxBarWidth, clampBarWidth(500))
}

func TestPointAt(t *testing.T) {
	s := schema.NewSeries("x", []string{"a"}, []float64{1})
	assert.True(t, pointAt(s, 0).Valid)
	assert.False(t, pointAt(s, 3).Valid)
}

func TestStatusLabel(t *testing.T) {
	cfg := &contract.Config{}
	limits := &schema.ControlLimits{LCL: 1, UCL: 2}
	assert.Equal(t, contract.InControlValue, statusLabel(cfg, 1.5, limits))
	assert.Equal(t, contract.OutOfControlValue, statusLabel(cfg, 2.5, limits))
	assert.Equal(t, contract.NoLimitsValue, statusLabel(cfg, 2.5, nil))
}

func TestWriteReportCSVRows(t *testing.T) {
	fmtFloat, fmtPoint := createFormatters(2)
	var buf bytes.Buffer
	err := writeCSVWithHeader(&buf, reportCSVHeader, func(w *csv.Writer) error {
		return writeReportCSVRows(w, sampleReport(), fmtFloat, fmtPoint)
	})
	require.NoError(t, err)

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, reportCSVHeader, rows[0])

	sections := make(map[string]int)
	for _, r := range rows[1:] {
		require.Len(t, r, len(reportCSVHeader))
		sections[r[0]]++
	}
	assert.Equal(t, map[string]int{
		"turnaround":        3,
		"bag_sla_cusum":     3,
		"queue_ewma":        3,
		"passenger_flow_ma": 3,
		"gate_usage":        2,
		"scan_failures":     1,
		"delay_causes":      2,
	}, sections)

	// Third turnaround day is beyond the UCL.
	assert.Equal(t, []string{"turnaround", "2025-01-03", "52.00", "", "44.00", "38.00", "50.00", "", "", "Out"}, rows[3])
	// The moving average head is absent.
	for _, r := range rows[1:] {
		if r[0] == "passenger_flow_ma" && r[1] == "2025-01-01" {
			assert.Equal(t, absentValue, r[3])
		}
	}
}

func TestWriteReportText(t *testing.T) {
	fmtFloat, fmtPoint := createFormatters(2)
	cfg := &contract.Config{Workers: 2, StoreBackend: schema.NoneBackend, UseEmojis: true}
	var buf bytes.Buffer
	require.NoError(t, writeReportText(&buf, sampleReport(), cfg, fmtFloat, fmtPoint, time.Second))

	out := buf.String()
	for _, want := range []string{
		"Turnaround", "Bag SLA", "EWMA alpha=0.3", "3-day moving average",
		"Gate utilisation", "P-CHART", "Delay causes", "Technical",
		"Out of control: 1 day(s)", "Report covered 12 records (2025-01-01 → 2025-01-03)",
	} {
		assert.Contains(t, strings.ToUpper(out), strings.ToUpper(want))
	}
}

func TestPrintReportResultsJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	cfg := &contract.Config{Output: schema.JSONOut, OutputFile: path, Precision: 2}
	require.NoError(t, PrintReportResults(sampleReport(), cfg, time.Second))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	for _, key := range []string{"turnaround", "bag_sla_cusum", "queue_ewma", "gate_usage", "scan_failures", "passenger_flow", "delay_causes"} {
		assert.Contains(t, decoded, key)
	}
	// Absent points are serialised as null.
	assert.Contains(t, string(data), "null")
}

func TestPrintReportResultsParquet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.parquet")
	cfg := &contract.Config{Output: schema.ParquetOut, OutputFile: path}
	require.NoError(t, PrintReportResults(sampleReport(), cfg, time.Second))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
	assert.Len(t, reportSeries(sampleReport()), 10)
}

func TestPrintSeriesResults(t *testing.T) {
	keys := []string{"G1", "G2"}
	result := schema.SeriesResult{
		Metric:   schema.MetricPChart,
		GroupKey: schema.GroupByGate,
		Input:    schema.NewSeries("sum", keys, []float64{10, 30}),
		Output:   schema.NewSeries("pchart", keys, []float64{0.01, 0.03}),
		PChart: []schema.PChartPoint{
			{Key: "G1", Rate: 0.01, Center: 0.02, UCL: 0.0333, LCL: 0.0067},
			{Key: "G2", Rate: 0.03, Center: 0.02, UCL: 0.0333, LCL: 0.0067},
		},
	}

	dir := t.TempDir()
	tests := []struct {
		output schema.OutputMode
		file   string
	}{
		{schema.TextOut, "series.txt"},
		{schema.CSVOut, "series.csv"},
		{schema.JSONOut, "series.json"},
		{schema.ParquetOut, "series.parquet"},
	}
	for _, tt := range tests {
		t.Run(string(tt.output), func(t *testing.T) {
			cfg := &contract.Config{Output: tt.output, OutputFile: filepath.Join(dir, tt.file), Precision: 4}
			require.NoError(t, PrintSeriesResults(result, cfg, time.Millisecond))
			data, err := os.ReadFile(cfg.OutputFile)
			require.NoError(t, err)
			assert.NotEmpty(t, data)
		})
	}

	data, err := os.ReadFile(filepath.Join(dir, "series.csv"))
	require.NoError(t, err)
	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"G1", "10.0000", "0.0100", "0.0200", "0.0067", "0.0333", "In"}, rows[1])
}

func TestPrintParetoResults(t *testing.T) {
	entries := []schema.ParetoEntry{
		{Category: "Technical", Count: 24, Percent: 42.11, CumulativePercent: 42.11},
		{Category: "Crew", Count: 17, Percent: 29.82, CumulativePercent: 71.93},
	}

	var buf bytes.Buffer
	require.NoError(t, writeJSONResultsForPareto(&buf, entries))
	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, float64(1), decoded[0]["rank"])
	assert.Equal(t, "Technical", decoded[0]["category"])

	path := filepath.Join(t.TempDir(), "pareto.txt")
	cfg := &contract.Config{Output: schema.TextOut, OutputFile: path, Category: schema.GroupByDelayCause, Precision: 1}
	require.NoError(t, PrintParetoResults(entries, cfg, time.Millisecond))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "42.1%")
	assert.Contains(t, string(data), "Ranked 2 categories of delay_cause over 41 records")
}
