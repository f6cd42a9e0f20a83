// Package iocache persists operational records in a SQL store.
package iocache

import (
	"fmt"
	"sync"

	"github.com/huangsam/airqc/internal/contract"
	"github.com/huangsam/airqc/schema"
)

// RecordStoreManager guards the process-wide record store.
type RecordStoreManager struct {
	sync.RWMutex // Protects the store pointer during initialization
	records      contract.RecordStore
}

var _ contract.StoreManager = &RecordStoreManager{} // Compile-time check

// GetRecordStore returns the record store, or nil when the store is disabled.
func (mgr *RecordStoreManager) GetRecordStore() contract.RecordStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.records
}

// Global Manager instance for main logic.
var (
	Manager   = &RecordStoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// InitStore initializes the global manager with a record store.
// The none backend leaves the manager empty.
func InitStore(backend schema.DatabaseBackend, connStr string) error {
	var initErr error

	initOnce.Do(func() {
		if backend == "" || backend == schema.NoneBackend {
			return
		}
		store, err := NewRecordStore(backend, connStr)
		if err != nil {
			initErr = fmt.Errorf("failed to initialize record store: %w", err)
			return
		}
		Manager.Lock()
		Manager.records = store
		Manager.Unlock()
	})

	return initErr
}

// CloseStore should be called on application shutdown.
func CloseStore() { // called in main defer
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.records != nil {
			_ = Manager.records.Close()
			Manager.records = nil
		}
	})
}
