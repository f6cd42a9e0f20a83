package contract

import (
	"context"
	"time"

	"github.com/huangsam/airqc/schema"
	"github.com/stretchr/testify/mock"
)

// MockRecordSource is a mock implementation of RecordSource for testing.
type MockRecordSource struct {
	mock.Mock
}

var _ RecordSource = &MockRecordSource{} // Compile-time check

// Load implements the RecordSource interface.
func (m *MockRecordSource) Load(ctx context.Context) ([]schema.OperationalRecord, error) {
	args := m.Called(ctx)
	records, _ := args.Get(0).([]schema.OperationalRecord)
	return records, args.Error(1)
}

// Name implements the RecordSource interface.
func (m *MockRecordSource) Name() string {
	args := m.Called()
	return args.String(0)
}

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ StoreManager = &MockStoreManager{} // Compile-time check

// GetRecordStore implements the StoreManager interface.
func (m *MockStoreManager) GetRecordStore() RecordStore {
	ret := m.Called()
	store, _ := ret.Get(0).(RecordStore)
	return store
}

// MockRecordStore is a mock implementation of RecordStore for testing.
type MockRecordStore struct {
	mock.Mock
}

var _ RecordStore = &MockRecordStore{} // Compile-time check

// Import implements the RecordStore interface.
func (m *MockRecordStore) Import(ctx context.Context, records []schema.OperationalRecord) (int, error) {
	args := m.Called(ctx, records)
	return args.Int(0), args.Error(1)
}

// LoadRecords implements the RecordStore interface.
func (m *MockRecordStore) LoadRecords(ctx context.Context, start, end time.Time) ([]schema.OperationalRecord, error) {
	args := m.Called(ctx, start, end)
	records, _ := args.Get(0).([]schema.OperationalRecord)
	return records, args.Error(1)
}

// GetStatus implements the RecordStore interface.
func (m *MockRecordStore) GetStatus(ctx context.Context) (schema.StoreStatus, error) {
	args := m.Called(ctx)
	return args.Get(0).(schema.StoreStatus), args.Error(1)
}

// Clear implements the RecordStore interface.
func (m *MockRecordStore) Clear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Close implements the RecordStore interface.
func (m *MockRecordStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
