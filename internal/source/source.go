// Package source provides the record sources feeding the report pipeline.
package source

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/huangsam/airqc/internal/contract"
	"github.com/huangsam/airqc/internal/parquet"
	"github.com/huangsam/airqc/schema"
	"github.com/schollz/progressbar/v3"
)

// ParquetSource loads records from a Parquet file written by the simulate or store export commands.
type ParquetSource struct {
	Path string
}

var _ contract.RecordSource = &ParquetSource{} // Compile-time check

// Name implements the RecordSource interface.
func (s *ParquetSource) Name() string {
	return "parquet " + s.Path
}

// Load implements the RecordSource interface.
func (s *ParquetSource) Load(ctx context.Context) ([]schema.OperationalRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, err := parquet.ReadRecordsParquet(s.Path)
	if err != nil {
		return nil, err
	}
	return parquet.ToOperationalRecords(rows)
}

// StoreSource loads records from the configured record store.
// Only the configured date range is fetched; the filter stage still applies it again.
type StoreSource struct {
	Store contract.RecordStore
	Start time.Time
	End   time.Time
}

var _ contract.RecordSource = &StoreSource{} // Compile-time check

// Name implements the RecordSource interface.
func (s *StoreSource) Name() string {
	return "record store"
}

// Load implements the RecordSource interface.
func (s *StoreSource) Load(ctx context.Context) ([]schema.OperationalRecord, error) {
	if s.Store == nil {
		return nil, fmt.Errorf("record store is disabled")
	}
	return s.Store.LoadRecords(ctx, s.Start, s.End)
}

// New builds the record source selected by cfg.
// Progress output goes to progress when non-nil.
func New(cfg *contract.Config, mgr contract.StoreManager, progress io.Writer) (contract.RecordSource, error) {
	switch cfg.Source {
	case schema.SimulatedSource, "":
		sim := NewSimulator(cfg.SimStart, cfg.SimEnd, cfg.Seed)
		sim.Progress = progress
		return sim, nil
	case schema.CSVSource:
		return &CSVSource{Path: cfg.SourcePath, Progress: progress}, nil
	case schema.ParquetSource:
		return &ParquetSource{Path: cfg.SourcePath}, nil
	case schema.StoreSource:
		if mgr == nil || mgr.GetRecordStore() == nil {
			return nil, fmt.Errorf("record store is disabled (backend %s)", cfg.StoreBackend)
		}
		return &StoreSource{Store: mgr.GetRecordStore(), Start: cfg.StartTime, End: cfg.EndTime}, nil
	default:
		return nil, fmt.Errorf("unsupported source: %s", cfg.Source)
	}
}

// newBar returns a progress bar on w, or a silent one when w is nil.
func newBar(maxValue int64, desc string, w io.Writer) *progressbar.ProgressBar {
	if w == nil {
		return progressbar.DefaultSilent(maxValue, desc)
	}
	return progressbar.NewOptions64(maxValue,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(desc),
		progressbar.OptionShowCount(),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}
