// Package parquet provides data structures and functions for reading and writing
// airqc records and metric output as Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/airqc/schema"
	"github.com/parquet-go/parquet-go"
)

// RecordRow represents a single operational record.
// This struct maps to the airqc_records database table.
type RecordRow struct {
	// Date is the calendar day of the record (stored as TIMESTAMP at UTC midnight)
	Date time.Time `parquet:"record_date,snappy"`

	Airline           string  `parquet:"airline,snappy"`
	Gate              string  `parquet:"gate,snappy"`
	TurnaroundMinutes float64 `parquet:"turnaround_minutes,snappy"`
	BagSLAMinutes     float64 `parquet:"bag_sla_minutes,snappy"`
	QueueMinutes      float64 `parquet:"queue_minutes,snappy"`
	ScanFailures      int32   `parquet:"scan_failures,snappy"`
	TotalBags         int32   `parquet:"total_bags,snappy"`
	PassengerFlow     int32   `parquet:"passenger_flow,snappy"`
	DelayCause        string  `parquet:"delay_cause,snappy"`
}

// SeriesRow represents one point of a derived series.
type SeriesRow struct {
	// Series names the metric that produced the point
	Series string `parquet:"series,snappy"`

	// Key is the aggregation index (ISO date or category)
	Key string `parquet:"key,snappy"`

	// Value is null when the point is absent (e.g. moving average warm-up)
	Value *float64 `parquet:"value,optional,snappy"`
}

// ParetoRow represents one ranked category.
type ParetoRow struct {
	Category          string  `parquet:"category,snappy"`
	Count             int64   `parquet:"count,snappy"`
	Percent           float64 `parquet:"percent,snappy"`
	CumulativePercent float64 `parquet:"cumulative_percent,snappy"`
}

// WriteRecordsParquet writes a slice of RecordRow structs to a Parquet file.
func WriteRecordsParquet(data []RecordRow, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteSeriesParquet writes a slice of SeriesRow structs to a Parquet file.
func WriteSeriesParquet(data []SeriesRow, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteParetoParquet writes a slice of ParetoRow structs to a Parquet file.
func WriteParetoParquet(data []ParetoRow, outputPath string) error {
	return writeParquet(data, outputPath)
}

// ReadRecordsParquet reads every RecordRow from a Parquet file.
func ReadRecordsParquet(inputPath string) ([]RecordRow, error) {
	file, err := os.Open(inputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer func() { _ = file.Close() }()

	reader := parquet.NewGenericReader[RecordRow](file)
	defer func() { _ = reader.Close() }()

	rows := make([]RecordRow, reader.NumRows())
	n, err := reader.Read(rows)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read parquet file: %w", err)
	}
	return rows[:n], nil
}

// writeParquet writes rows using struct schema inference from the row type's tags.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// ConvertRecords converts operational records into Parquet rows.
func ConvertRecords(records []schema.OperationalRecord) []RecordRow {
	rows := make([]RecordRow, len(records))
	for i, r := range records {
		rows[i] = RecordRow{
			Date:              schema.Day(r.Date),
			Airline:           r.Airline,
			Gate:              r.Gate,
			TurnaroundMinutes: r.TurnaroundMinutes,
			BagSLAMinutes:     r.BagSLAMinutes,
			QueueMinutes:      r.QueueMinutes,
			ScanFailures:      int32(r.ScanFailures),
			TotalBags:         int32(r.TotalBags),
			PassengerFlow:     int32(r.PassengerFlow),
			DelayCause:        r.DelayCause,
		}
	}
	return rows
}

// ToOperationalRecords converts Parquet rows back into validated operational records.
func ToOperationalRecords(rows []RecordRow) ([]schema.OperationalRecord, error) {
	records := make([]schema.OperationalRecord, len(rows))
	for i, row := range rows {
		r := schema.OperationalRecord{
			Date:              schema.Day(row.Date.UTC()),
			Airline:           row.Airline,
			Gate:              row.Gate,
			TurnaroundMinutes: row.TurnaroundMinutes,
			BagSLAMinutes:     row.BagSLAMinutes,
			QueueMinutes:      row.QueueMinutes,
			ScanFailures:      int(row.ScanFailures),
			TotalBags:         int(row.TotalBags),
			PassengerFlow:     int(row.PassengerFlow),
			DelayCause:        row.DelayCause,
		}
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		records[i] = r
	}
	return records, nil
}

// ConvertSeries flattens one or more series into Parquet rows, keeping absent points as nulls.
func ConvertSeries(series ...schema.Series) []SeriesRow {
	var rows []SeriesRow
	for _, s := range series {
		for _, p := range s.Points {
			row := SeriesRow{Series: s.Name, Key: p.Key}
			if p.Valid {
				v := p.Value
				row.Value = &v
			}
			rows = append(rows, row)
		}
	}
	return rows
}

// ConvertPareto converts ranked entries into Parquet rows.
func ConvertPareto(entries []schema.ParetoEntry) []ParetoRow {
	rows := make([]ParetoRow, len(entries))
	for i, e := range entries {
		rows[i] = ParetoRow{
			Category:          e.Category,
			Count:             int64(e.Count),
			Percent:           e.Percent,
			CumulativePercent: e.CumulativePercent,
		}
	}
	return rows
}
