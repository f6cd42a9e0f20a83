package source

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/airqc/internal/contract"
	"github.com/huangsam/airqc/internal/parquet"
	"github.com/huangsam/airqc/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jan(d int) time.Time {
	return time.Date(2025, 1, d, 0, 0, 0, 0, time.UTC)
}

func TestSimulatorDeterministic(t *testing.T) {
	ctx := context.Background()
	a, err := NewSimulator(jan(1), jan(31), 7).Load(ctx)
	require.NoError(t, err)
	b, err := NewSimulator(jan(1), jan(31), 7).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := NewSimulator(jan(1), jan(31), 8).Load(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestSimulatorShape(t *testing.T) {
	records, err := NewSimulator(jan(1), jan(10), 42).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 10*len(schema.AllAirlines))

	// One record per (date, airline), in date then airline order.
	seen := make(map[string]bool)
	for i, r := range records {
		require.NoError(t, r.Validate())
		key := schema.FormatDay(r.Date) + "|" + r.Airline
		assert.False(t, seen[key], "duplicate %s", key)
		seen[key] = true
		assert.Equal(t, schema.AllAirlines[i%len(schema.AllAirlines)], r.Airline)
		assert.Equal(t, schema.NominalBagBatch, r.TotalBags)
	}
	assert.Equal(t, jan(1), records[0].Date)
	assert.Equal(t, jan(10), records[len(records)-1].Date)
}

func TestSimulatorMoments(t *testing.T) {
	sim := NewSimulator(jan(1), time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC), 42)
	records, err := sim.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 365*4)

	var turnaround, queue, failures, flow float64
	causes := make(map[string]int)
	for _, r := range records {
		turnaround += r.TurnaroundMinutes
		queue += r.QueueMinutes
		failures += float64(r.ScanFailures)
		flow += float64(r.PassengerFlow)
		causes[r.DelayCause]++
	}
	n := float64(len(records))
	assert.InDelta(t, 40, turnaround/n, 0.5)
	assert.InDelta(t, 8, queue/n, 0.25)
	assert.InDelta(t, 10, failures/n, 0.5)
	assert.InDelta(t, 20, flow/n, 0.5)
	assert.Greater(t, causes["Technical"], causes["Catering"])
}

func TestSimulatorInvalidSpan(t *testing.T) {
	_, err := NewSimulator(jan(5), jan(1), 1).Load(context.Background())
	assert.ErrorIs(t, err, schema.ErrInvalidRange)
}

func TestSimulatorCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewSimulator(jan(1), jan(2), 1).Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCSVRoundTrip(t *testing.T) {
	ctx := context.Background()
	records, err := NewSimulator(jan(1), jan(3), 3).Load(ctx)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, records))

	back, err := ReadCSV(ctx, &buf, nil)
	require.NoError(t, err)
	assert.Equal(t, records, back)
}

func TestReadCSVErrors(t *testing.T) {
	ctx := context.Background()
	header := strings.Join(csvHeader, ",") + "\n"

	tests := []struct {
		name    string
		input   string
		wantErr error
		errText string
	}{
		{"empty", "", nil, "empty"},
		{"missing column", "date,airline\n", nil, "missing column"},
		{"bad date", header + "01/02/2025,Saudia,G1,40,18,8,10,1000,20,Crew\n", nil, "line 2: date"},
		{"bad number", header + "2025-01-02,Saudia,G1,abc,18,8,10,1000,20,Crew\n", nil, "turnaround_minutes"},
		{"unknown airline", header + "2025-01-02,Qantas,G1,40,18,8,10,1000,20,Crew\n", schema.ErrUnknownCategory, ""},
		{"failures above bags", header + "2025-01-02,Saudia,G1,40,18,8,1001,1000,20,Crew\n", schema.ErrInvalidParameter, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(ctx, strings.NewReader(tt.input), nil)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.errText != "" {
				assert.Contains(t, err.Error(), tt.errText)
			}
		})
	}
}

func TestReadCSVColumnOrder(t *testing.T) {
	input := "delay_cause,date,gate,airline,turnaround_minutes,bag_sla_minutes,queue_minutes,scan_failures,total_bags,passenger_flow\n" +
		"Weather,2025-01-02,G7,Flyadeal,39.5,17,7.25,4,1000,21\n"
	records, err := ReadCSV(context.Background(), strings.NewReader(input), nil)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Flyadeal", records[0].Airline)
	assert.Equal(t, "G7", records[0].Gate)
	assert.Equal(t, 7.25, records[0].QueueMinutes)
}

func TestCSVSourceFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.csv")
	records, err := NewSimulator(jan(1), jan(2), 9).Load(context.Background())
	require.NoError(t, err)

	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, WriteCSV(f, records))
	require.NoError(t, f.Close())

	src := &CSVSource{Path: path}
	got, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, len(records))
	assert.Contains(t, src.Name(), "records.csv")
}

func TestParquetSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.parquet")
	records, err := NewSimulator(jan(1), jan(2), 9).Load(context.Background())
	require.NoError(t, err)
	require.NoError(t, parquet.WriteRecordsParquet(parquet.ConvertRecords(records), path))

	got, err := (&ParquetSource{Path: path}).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, got, len(records))
	assert.Equal(t, records[3].QueueMinutes, got[3].QueueMinutes)
}

func TestStoreSource(t *testing.T) {
	ctx := context.Background()
	store := &contract.MockRecordStore{}
	want := []schema.OperationalRecord{{Date: jan(2), Airline: "Saudia"}}
	store.On("LoadRecords", ctx, jan(1), jan(3)).Return(want, nil)

	got, err := (&StoreSource{Store: store, Start: jan(1), End: jan(3)}).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	store.AssertExpectations(t)
}

func TestNew(t *testing.T) {
	cfg := &contract.Config{Source: schema.SimulatedSource, SimStart: jan(1), SimEnd: jan(2), Seed: 1}
	src, err := New(cfg, nil, nil)
	require.NoError(t, err)
	assert.IsType(t, &Simulator{}, src)

	cfg.Source = schema.CSVSource
	cfg.SourcePath = "x.csv"
	src, err = New(cfg, nil, nil)
	require.NoError(t, err)
	assert.IsType(t, &CSVSource{}, src)

	cfg.Source = schema.ParquetSource
	src, err = New(cfg, nil, nil)
	require.NoError(t, err)
	assert.IsType(t, &ParquetSource{}, src)

	cfg.Source = schema.StoreSource
	_, err = New(cfg, nil, nil)
	assert.Error(t, err)

	mgr := &contract.MockStoreManager{}
	mgr.On("GetRecordStore").Return(&contract.MockRecordStore{})
	src, err = New(cfg, mgr, nil)
	require.NoError(t, err)
	assert.IsType(t, &StoreSource{}, src)
	mgr.AssertCalled(t, "GetRecordStore")
	mgr.AssertNumberOfCalls(t, "GetRecordStore", 2)
}
