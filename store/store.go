// Package store defines the tenant-scoped domain model and the Store facade
// every other layer talks to. Persistence lives behind the Driver interface;
// dialect implementations are under store/db/.
package store

import "context"

// Store is the thin facade over a Driver. All methods are tenant-scoped via
// the StoreID carried on the row or filter.
type Store struct {
	driver Driver
}

// New creates a Store backed by the given driver.
func New(driver Driver) *Store {
	return &Store{driver: driver}
}

// Migrate creates any missing tables.
func (s *Store) Migrate(ctx context.Context) error {
	return s.driver.EnsureTables(ctx)
}

// Close closes the underlying driver.
func (s *Store) Close() error {
	return s.driver.Close()
}
