package outwriter

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/airqc/internal/contract"
	"github.com/huangsam/airqc/internal/parquet"
	"github.com/huangsam/airqc/internal/source"
	"github.com/huangsam/airqc/schema"
)

// PrintRecords writes raw operational records. Text output uses the CSV layout
// so that the result can be fed back through --source csv.
func PrintRecords(records []schema.OperationalRecord, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, records)
		}, "Wrote JSON records"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.ParquetOut:
		if err := parquet.WriteRecordsParquet(parquet.ConvertRecords(records), cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
		logParquetWritten(cfg.OutputFile)
	default:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return source.WriteCSV(w, records)
		}, "Wrote CSV records"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	}
	fmt.Fprintf(os.Stderr, "Generated %d records in %v\n", len(records), duration)
	return nil
}
