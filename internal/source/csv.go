package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/huangsam/airqc/internal/contract"
	"github.com/huangsam/airqc/schema"
)

// csvHeader is the column layout written by WriteCSV and expected by CSVSource.
var csvHeader = []string{
	"date", "airline", "gate",
	"turnaround_minutes", "bag_sla_minutes", "queue_minutes",
	"scan_failures", "total_bags", "passenger_flow", "delay_cause",
}

// CSVSource loads records from a CSV file with a header row.
// Columns may appear in any order.
type CSVSource struct {
	Path     string
	Progress io.Writer // nil disables the progress bar
}

var _ contract.RecordSource = &CSVSource{} // Compile-time check

// Name implements the RecordSource interface.
func (s *CSVSource) Name() string {
	return "csv " + s.Path
}

// Load implements the RecordSource interface.
func (s *CSVSource) Load(ctx context.Context) ([]schema.OperationalRecord, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return ReadCSV(ctx, f, s.Progress)
}

// ReadCSV parses and validates records from r.
func ReadCSV(ctx context.Context, r io.Reader, progress io.Writer) ([]schema.OperationalRecord, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("csv input is empty")
		}
		return nil, err
	}
	columns, err := indexColumns(header)
	if err != nil {
		return nil, err
	}

	bar := newBar(-1, "reading csv", progress)
	defer func() { _ = bar.Finish() }()

	var records []schema.OperationalRecord
	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		rec, err := parseRow(row, columns)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, rec)
		_ = bar.Add(1)
	}
	return records, nil
}

// WriteCSV writes records with a header row.
func WriteCSV(w io.Writer, records []schema.OperationalRecord) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			schema.FormatDay(r.Date),
			r.Airline,
			r.Gate,
			strconv.FormatFloat(r.TurnaroundMinutes, 'f', -1, 64),
			strconv.FormatFloat(r.BagSLAMinutes, 'f', -1, 64),
			strconv.FormatFloat(r.QueueMinutes, 'f', -1, 64),
			strconv.Itoa(r.ScanFailures),
			strconv.Itoa(r.TotalBags),
			strconv.Itoa(r.PassengerFlow),
			r.DelayCause,
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// indexColumns maps each expected column to its position in the header.
func indexColumns(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for i, h := range header {
		columns[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, want := range csvHeader {
		if _, ok := columns[want]; !ok {
			return nil, fmt.Errorf("csv header is missing column %q", want)
		}
	}
	return columns, nil
}

// parseRow converts one CSV row into a validated record.
func parseRow(row []string, columns map[string]int) (schema.OperationalRecord, error) {
	get := func(name string) string {
		idx := columns[name]
		if idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	var rec schema.OperationalRecord
	var err error
	if rec.Date, err = schema.ParseDay(get("date")); err != nil {
		return rec, fmt.Errorf("date: %w", err)
	}
	rec.Airline = get("airline")
	rec.Gate = get("gate")
	rec.DelayCause = get("delay_cause")

	floats := []struct {
		name string
		dst  *float64
	}{
		{"turnaround_minutes", &rec.TurnaroundMinutes},
		{"bag_sla_minutes", &rec.BagSLAMinutes},
		{"queue_minutes", &rec.QueueMinutes},
	}
	for _, f := range floats {
		if *f.dst, err = strconv.ParseFloat(get(f.name), 64); err != nil {
			return rec, fmt.Errorf("%s: %w", f.name, err)
		}
	}

	ints := []struct {
		name string
		dst  *int
	}{
		{"scan_failures", &rec.ScanFailures},
		{"total_bags", &rec.TotalBags},
		{"passenger_flow", &rec.PassengerFlow},
	}
	for _, i := range ints {
		if *i.dst, err = strconv.Atoi(get(i.name)); err != nil {
			return rec, fmt.Errorf("%s: %w", i.name, err)
		}
	}

	if err := rec.Validate(); err != nil {
		return rec, err
	}
	return rec, nil
}
