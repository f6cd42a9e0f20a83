package iocache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/huangsam/airqc/internal/contract"
	"github.com/huangsam/airqc/internal/parquet"
	"github.com/huangsam/airqc/internal/source"
)

// ExecuteRecordExport writes stored records in the day range to a file.
// A .csv suffix selects CSV; anything else is written as Parquet.
func ExecuteRecordExport(ctx context.Context, store contract.RecordStore, outputFile string, start, end time.Time) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("record store is not initialized; set --store-backend")
	}

	records, err := store.LoadRecords(ctx, start, end)
	if err != nil {
		return fmt.Errorf("failed to load stored records: %w", err)
	}
	if len(records) == 0 {
		return errors.New("no stored records found to export")
	}

	if strings.EqualFold(filepath.Ext(outputFile), ".csv") {
		f, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", outputFile, err)
		}
		if err := source.WriteCSV(f, records); err != nil {
			_ = f.Close()
			return fmt.Errorf("failed to write CSV export: %w", err)
		}
		if err := f.Close(); err != nil {
			return err
		}
	} else if err := parquet.WriteRecordsParquet(parquet.ConvertRecords(records), outputFile); err != nil {
		return fmt.Errorf("failed to write Parquet export: %w", err)
	}

	fmt.Printf("Exported %d records to: %s\n", len(records), outputFile)
	return nil
}
