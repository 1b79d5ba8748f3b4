package store

import "context"

// AbandonedCart is a checkout that was started but never paid. Total is in
// paise. Recovered is set when the customer later completed the purchase.
type AbandonedCart struct {
	ID         int32
	StoreID    int32
	CustomerID int32
	Total      int64
	Recovered  bool
	CreatedTs  int64
}

// FindAbandonedCart filters for ListAbandonedCarts.
type FindAbandonedCart struct {
	StoreID       *int32
	Recovered     *bool
	CreatedAfter  *int64
	CreatedBefore *int64
}

// CreateAbandonedCart records a new abandoned checkout.
func (s *Store) CreateAbandonedCart(ctx context.Context, create *AbandonedCart) (*AbandonedCart, error) {
	return s.driver.CreateAbandonedCart(ctx, create)
}

// ListAbandonedCarts lists abandoned carts matching the filter.
func (s *Store) ListAbandonedCarts(ctx context.Context, find *FindAbandonedCart) ([]*AbandonedCart, error) {
	return s.driver.ListAbandonedCarts(ctx, find)
}
