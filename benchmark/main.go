// Package main provides a performance benchmarking tool for the airqc CLI.
// It measures execution times across simulated date spans and command types,
// comparing the simulator, CSV and SQLite store sources. Each source runs
// several times; the first successful run is treated as cold and the rest are averaged as warm.
// Results are written to a CSV file for performance analysis and documentation.
//
// Prerequisites:
// - airqc binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory for the generated CSV fixtures and SQLite database
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// BenchmarkResult holds the per-source timings of one command over one span.
type BenchmarkResult struct {
	Span      string
	Command   string
	SimTime   string
	CSVCold   string
	CSVWarm   string
	StoreCold string
	StoreWarm string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir  string
	Timeout  time.Duration
	Workers  int
	Runs     int
	SimStart string
	Spans    map[string]string // span name -> simulation end date
	Order    []string
	Commands map[string][]string // command -> extra args
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		WorkDir:  os.Args[1],
		Timeout:  5 * time.Minute,
		Workers:  8,
		Runs:     4,
		SimStart: "2020-01-01",
		Spans: map[string]string{
			"month":   "2020-01-31",
			"year":    "2020-12-31",
			"5-years": "2024-12-31",
		},
		Order: []string{"month", "year", "5-years"},
		Commands: map[string][]string{
			"report": {"--window", "7"},
			"series": {"--metric", "pchart", "--group-by", "gate"},
			"pareto": {"--category", "delay_cause"},
		},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the airqc binary and work directory exist
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("airqc"); err != nil {
		return fmt.Errorf("airqc binary not found in PATH")
	}
	if err := os.MkdirAll(config.WorkDir, 0o755); err != nil {
		return fmt.Errorf("cannot create work dir %s: %w", config.WorkDir, err)
	}
	return nil
}

// prepareSpan writes the CSV fixture for a span and imports it into a fresh SQLite store.
func prepareSpan(config BenchmarkConfig, span string) (csvPath, dbPath string, err error) {
	end := config.Spans[span]
	csvPath = filepath.Join(config.WorkDir, "records_"+span+".csv")
	dbPath = filepath.Join(config.WorkDir, "records_"+span+".db")
	_ = os.Remove(dbPath)

	simArgs := []string{"--sim-start", config.SimStart, "--sim-end", end}
	if output, err := runAirqc(config, append([]string{"simulate", "--output-file", csvPath}, simArgs...)); err != nil {
		return "", "", fmt.Errorf("simulate failed: %w\nOutput: %s", err, string(output))
	}
	importArgs := append([]string{"store", "import", "--store-backend", "sqlite", "--store-db-connect", dbPath}, simArgs...)
	if output, err := runAirqc(config, importArgs); err != nil {
		return "", "", fmt.Errorf("store import failed: %w\nOutput: %s", err, string(output))
	}
	return csvPath, dbPath, nil
}

// runBenchmarks executes all benchmark tests across configured spans
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d spans, %v timeout, %d workers, %d runs per source\n",
		len(config.Order), config.Timeout, config.Workers, config.Runs)

	for _, span := range config.Order {
		fmt.Printf("Benchmarking %s (%s to %s)\n", span, config.SimStart, config.Spans[span])

		csvPath, dbPath, err := prepareSpan(config, span)
		if err != nil {
			fmt.Printf("Skipping %s: %v\n", span, err)
			continue
		}

		for _, command := range []string{"report", "series", "pareto"} {
			results = append(results, runBenchmarkSuite(config, span, command, csvPath, dbPath))
		}
	}

	return results
}

// runBenchmarkSuite runs one command against every source
func runBenchmarkSuite(config BenchmarkConfig, span, command, csvPath, dbPath string) BenchmarkResult {
	fmt.Printf("Running %s on %s\n", command, span)
	base := append([]string{command, "--output", "json"}, config.Commands[command]...)

	runPhase := func(phaseName string, args []string) (coldTime, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, config.Runs)
		cold, warm := runBenchmark(config, args)
		coldTime = "TIMEOUT"
		if cold > 0 {
			coldTime = fmt.Sprintf("%.3fs", cold)
		}
		avgTime = average(warm)
		return coldTime, avgTime
	}

	simArgs := append(append([]string{}, base...), "--sim-start", config.SimStart, "--sim-end", config.Spans[span])
	_, simAvg := runPhase("Simulator", simArgs)

	csvArgs := append(append([]string{}, base...), "--source", "csv", "--source-path", csvPath)
	csvCold, csvWarm := runPhase("CSV", csvArgs)

	storeArgs := append(append([]string{}, base...), "--source", "store", "--store-backend", "sqlite", "--store-db-connect", dbPath)
	storeCold, storeWarm := runPhase("Store", storeArgs)

	fmt.Printf("  Simulator average: %s, CSV cold/warm: %s/%s, Store cold/warm: %s/%s\n",
		simAvg, csvCold, csvWarm, storeCold, storeWarm)

	return BenchmarkResult{
		Span:      span,
		Command:   command,
		SimTime:   simAvg,
		CSVCold:   csvCold,
		CSVWarm:   csvWarm,
		StoreCold: storeCold,
		StoreWarm: storeWarm,
	}
}

// runBenchmark executes an airqc command multiple times and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, args []string) (coldTime float64, warmTimes []float64) {
	args = append(args, "--workers", fmt.Sprint(config.Workers))

	var times []float64
	for range config.Runs {
		start := time.Now()

		done := make(chan bool)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = runAirqc(config, args)
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && isSuccess(output) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			// Timeout - don't add to times
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// runAirqc runs the binary inside the work dir and returns stdout.
// Stderr is attached to the returned *exec.ExitError on failure.
func runAirqc(config BenchmarkConfig, args []string) ([]byte, error) {
	cmd := exec.Command("airqc", args...)
	cmd.Dir = config.WorkDir
	return cmd.Output()
}

func average(times []float64) string {
	if len(times) == 0 {
		return "TIMEOUT"
	}
	var sum float64
	for _, t := range times {
		sum += t
	}
	return fmt.Sprintf("%.3fs", sum/float64(len(times)))
}

// isSuccess checks if command output looks like a JSON document
func isSuccess(output []byte) bool {
	trimmed := strings.TrimSpace(string(output))
	return strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[")
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/airqc_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"span", "cmd", "sim_avg", "csv_cold", "csv_warm", "store_cold", "store_warm"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, r := range results {
		if err := writer.Write([]string{r.Span, r.Command, r.SimTime, r.CSVCold, r.CSVWarm, r.StoreCold, r.StoreWarm}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")

	printCommandSummary(results, "report", "Report:")
	printCommandSummary(results, "series", "Series:")
	printCommandSummary(results, "pareto", "Pareto:")

	fmt.Printf("Benchmark script completed successfully\n")
}

// printCommandSummary displays results for a specific command type
func printCommandSummary(results []BenchmarkResult, command, title string) {
	fmt.Printf("%s\n", title)
	for _, r := range results {
		if r.Command == command {
			fmt.Printf("  %-8s: Sim: %s, CSV: %s/%s, Store: %s/%s\n",
				r.Span, r.SimTime, r.CSVCold, r.CSVWarm, r.StoreCold, r.StoreWarm)
		}
	}
}
