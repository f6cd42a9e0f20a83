//go:build basic

package integration

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/airqc/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSimulateDeterministic checks that the same seed produces byte-identical exports.
func TestSimulateDeterministic(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	first := filepath.Join(dir, "a.csv")
	second := filepath.Join(dir, "b.csv")

	for _, path := range []string{first, second} {
		_, err := runAirqc(t, "simulate", "--sim-start", "2025-01-01", "--sim-end", "2025-02-28", "--seed", "11", "--output-file", path)
		require.NoError(t, err)
	}

	a, err := os.ReadFile(first)
	require.NoError(t, err)
	b, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

// TestReportFromCSV runs the dashboard over a simulated CSV file.
func TestReportFromCSV(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "records.csv")
	_, err := runAirqc(t, "simulate", "--sim-start", "2025-01-01", "--sim-end", "2025-01-31", "--output-file", path)
	require.NoError(t, err)

	out, err := runAirqc(t, "report", "--source", "csv", "--source-path", path, "--airline", "Saudia", "--output", "json")
	require.NoError(t, err)

	var report schema.ReportResult
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 31, report.RecordCount)
	require.Len(t, report.Queue.Raw.Points, 31)
	// EWMA starts at the first observation.
	assert.Equal(t, report.Queue.Raw.Points[0].Value, report.Queue.Derived.Points[0].Value)
	assert.NotNil(t, report.Turnaround.Limits)
}

// TestSeriesAndPareto exercises the single-metric commands.
func TestSeriesAndPareto(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	out, err := runAirqc(t, "series", "--metric", "pchart", "--group-by", "gate", "--output", "json", "--sim-end", "2025-03-31")
	require.NoError(t, err)
	var series schema.SeriesResult
	require.NoError(t, json.Unmarshal([]byte(out), &series))
	assert.Len(t, series.PChart, len(schema.AllGates))

	out, err = runAirqc(t, "pareto", "--output", "json", "--sim-end", "2025-03-31")
	require.NoError(t, err)
	var entries []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, len(schema.AllDelayCauses))
	assert.Equal(t, "Technical", entries[0]["category"])

	_, err = runAirqc(t, "series", "--metric", "cusum", "--group-by", "gate")
	assert.Error(t, err)
}

// TestStoreRoundTripSQLite imports into a SQLite file and reports from it.
func TestStoreRoundTripSQLite(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dbPath := filepath.Join(t.TempDir(), "records.db")
	t.Setenv("AIRQC_STORE_DB_CONNECT", dbPath)

	_, err := runAirqc(t, "store", "import", "--sim-start", "2025-01-01", "--sim-end", "2025-01-10")
	require.NoError(t, err)

	out, err := runAirqc(t, "store", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Total Records: 40")
	assert.Contains(t, out, "Schema Version: 2")

	out, err = runAirqc(t, "report", "--source", "store", "--output", "json")
	require.NoError(t, err)
	var report schema.ReportResult
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 40, report.RecordCount)

	exportPath := filepath.Join(t.TempDir(), "export.parquet")
	_, err = runAirqc(t, "store", "export", "--output-file", exportPath)
	require.NoError(t, err)
	_, err = os.Stat(exportPath)
	assert.NoError(t, err)

	_, err = runAirqc(t, "store", "clear")
	require.NoError(t, err)
	out, err = runAirqc(t, "store", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Total Records: 0")
}

// TestInvalidFlags checks that validation failures exit non-zero.
func TestInvalidFlags(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	for _, args := range [][]string{
		{"report", "--alpha", "1.5"},
		{"report", "--airline", "Lufthansa"},
		{"report", "--start", "2025-02-01", "--end", "2025-01-01"},
		{"pareto", "--category", "date"},
		{"report", "--output", "parquet"},
	} {
		_, err := runAirqc(t, args...)
		assert.Error(t, err, "args %v", args)
	}
}
