// Package history records deployment runs in a durable store.
package history

import (
	"github.com/chartpress/chartpress/internal/contract"
	"github.com/chartpress/chartpress/schema"
)

// ManagerImpl provides access to the configured history store.
type ManagerImpl struct {
	store contract.HistoryStore
}

var _ contract.HistoryManager = &ManagerImpl{} // Compile-time check

// GetStore returns the deployment history store.
func (m *ManagerImpl) GetStore() contract.HistoryStore {
	return m.store
}

// Manager is the global history manager instance, initialized once during
// command setup via InitStore.
var Manager = &ManagerImpl{}

// InitStore initializes the global history store with the validated config.
func InitStore(backend schema.DatabaseBackend, connStr string) error {
	store, err := NewStore(backend, connStr)
	if err != nil {
		return err
	}
	Manager.store = store
	return nil
}

// CloseStore closes the global history store if it was initialized.
func CloseStore() error {
	if Manager.store == nil {
		return nil
	}
	err := Manager.store.Close()
	Manager.store = nil
	return err
}
