// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/airqc/schema"
)

// RecordSource defines how operational records are produced.
// This allows the report pipeline to be tested without files, databases or randomness.
type RecordSource interface {
	// Load returns every record the source provides, validated and in source order.
	Load(ctx context.Context) ([]schema.OperationalRecord, error)

	// Name returns a short human-readable description for headers.
	Name() string
}

// StoreManager defines the interface for managing the record store.
// This allows the store layer to be mocked for testing.
type StoreManager interface {
	GetRecordStore() RecordStore
}

// RecordStore defines the interface for persisted operational records.
type RecordStore interface {
	// Import replaces stored records sharing a (date, airline) key and returns the row count written.
	Import(ctx context.Context, records []schema.OperationalRecord) (int, error)

	// LoadRecords returns stored records in the inclusive day range, ordered by date then airline.
	// Zero bounds are treated as open.
	LoadRecords(ctx context.Context, start, end time.Time) ([]schema.OperationalRecord, error)

	// GetStatus returns status information about the record store.
	GetStatus(ctx context.Context) (schema.StoreStatus, error)

	// Clear removes every stored record.
	Clear(ctx context.Context) error

	// Close closes the underlying connection.
	Close() error
}
