package store

import "context"

// Customer is a buyer of a store.
type Customer struct {
	ID        int32
	StoreID   int32
	Name      string
	Email     string
	Phone     string
	City      string
	State     string
	CreatedTs int64
}

// FindCustomer filters for ListCustomers / GetCustomer.
type FindCustomer struct {
	StoreID *int32
	ID      *int32
	Email   *string
	Limit   *int
}

// CreateCustomer persists a new customer.
func (s *Store) CreateCustomer(ctx context.Context, create *Customer) (*Customer, error) {
	return s.driver.CreateCustomer(ctx, create)
}

// ListCustomers lists customers matching the filter.
func (s *Store) ListCustomers(ctx context.Context, find *FindCustomer) ([]*Customer, error) {
	return s.driver.ListCustomers(ctx, find)
}

// GetCustomer returns the first customer matching the filter, or nil.
func (s *Store) GetCustomer(ctx context.Context, find *FindCustomer) (*Customer, error) {
	return s.driver.GetCustomer(ctx, find)
}
