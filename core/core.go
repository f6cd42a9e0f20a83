// Package core has core logic for filtering, aggregation and SPC reporting.
package core

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/airqc/internal/contract"
	"github.com/huangsam/airqc/internal/outwriter"
	"github.com/huangsam/airqc/internal/source"
	"github.com/huangsam/airqc/schema"
)

// ExecutorFunc defines the function signature for executing different commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error

// ExecuteReport computes every dashboard section and prints them.
// It serves as the main entry point for the 'report' command.
func ExecuteReport(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	result, err := runReport(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.PrintReportResults(result, cfg, time.Since(start))
}

// ExecuteSeries computes a single metric and prints it.
// It serves as the main entry point for the 'series' command.
func ExecuteSeries(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	result, err := runSeries(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.PrintSeriesResults(result, cfg, time.Since(start))
}

// ExecutePareto ranks a categorical field and prints it.
// It serves as the main entry point for the 'pareto' command.
func ExecutePareto(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	entries, err := runPareto(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.PrintParetoResults(entries, cfg, time.Since(start))
}

// GetReportResults computes the report without printing anything.
func GetReportResults(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (schema.ReportResult, error) {
	return runReport(quiet(ctx), cfg, mgr)
}

// GetSeriesResults computes a single metric without printing anything.
func GetSeriesResults(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (schema.SeriesResult, error) {
	return runSeries(quiet(ctx), cfg, mgr)
}

// GetParetoResults ranks a categorical field without printing anything.
func GetParetoResults(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) ([]schema.ParetoEntry, error) {
	return runPareto(quiet(ctx), cfg, mgr)
}

func runReport(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (schema.ReportResult, error) {
	records, err := loadRecords(ctx, cfg, mgr, "dashboard report")
	if err != nil {
		return schema.ReportResult{}, err
	}
	return buildReport(ctx, cfg, records)
}

func runSeries(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (schema.SeriesResult, error) {
	records, err := loadRecords(ctx, cfg, mgr, fmt.Sprintf("%s of %s(%s) by %s", cfg.Metric, cfg.Reducer, cfg.Field, cfg.GroupBy))
	if err != nil {
		return schema.SeriesResult{}, err
	}
	return buildSeries(cfg, records)
}

func runPareto(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) ([]schema.ParetoEntry, error) {
	records, err := loadRecords(ctx, cfg, mgr, fmt.Sprintf("pareto of %s", cfg.Category))
	if err != nil {
		return nil, err
	}
	return buildPareto(cfg, records)
}

// loadRecords resolves the configured source, prints the run header and loads every record.
func loadRecords(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, what string) ([]schema.OperationalRecord, error) {
	var progress io.Writer
	if !shouldSuppressProgress(ctx) && cfg.Output == schema.TextOut {
		progress = os.Stderr
	}
	src, err := source.New(cfg, mgr, progress)
	if err != nil {
		return nil, err
	}
	// Machine-readable output on stdout must stay clean.
	if !shouldSuppressHeader(ctx) && (cfg.Output == schema.TextOut || cfg.OutputFile != "") {
		contract.LogReportHeader(cfg, src.Name(), what)
	}
	records, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load records from %s: %w", src.Name(), err)
	}
	return records, nil
}

// ExecuteSimulate generates seeded records and writes them out.
// It serves as the main entry point for the 'simulate' command.
func ExecuteSimulate(ctx context.Context, cfg *contract.Config, _ contract.StoreManager) error {
	start := time.Now()
	sim := source.NewSimulator(cfg.SimStart, cfg.SimEnd, cfg.Seed)
	if !shouldSuppressProgress(ctx) {
		sim.Progress = os.Stderr
	}
	records, err := sim.Load(ctx)
	if err != nil {
		return err
	}
	return outwriter.PrintRecords(records, cfg, time.Since(start))
}

// ExecuteStoreImport loads records from the configured source and writes them to the record store.
// It serves as the main entry point for the 'store import' command.
func ExecuteStoreImport(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	if cfg.Source == schema.StoreSource {
		return fmt.Errorf("cannot import from source '%s'; choose simulated, csv or parquet", cfg.Source)
	}
	if mgr == nil || mgr.GetRecordStore() == nil {
		return fmt.Errorf("record store is disabled (backend %s)", cfg.StoreBackend)
	}
	records, err := loadRecords(ctx, cfg, mgr, "store import")
	if err != nil {
		return err
	}
	n, err := mgr.GetRecordStore().Import(ctx, records)
	if err != nil {
		return fmt.Errorf("failed to import records: %w", err)
	}
	fmt.Printf("Imported %d records into the %s store\n", n, cfg.StoreBackend)
	return nil
}
