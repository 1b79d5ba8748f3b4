package store

import "context"

// Product statuses.
const (
	ProductStatusDraft     = "draft"
	ProductStatusPublished = "published"
	ProductStatusArchived  = "archived"
)

// Product is a catalog item. Price is in paise.
type Product struct {
	ID           int32
	UID          string
	StoreID      int32
	Title        string
	Description  string
	Category     string
	Tags         string // space-separated, e.g. "#sale #summer"
	SKU          string
	Price        int64
	Stock        int32
	TrackStock   bool
	Status       string // draft | published | archived
	Featured     bool
	LeadTimeDays int32 // supplier lead time for reorder suggestions
	CreatedTs    int64
	UpdatedTs    int64
}

// FindProduct filters for ListProducts / GetProduct.
type FindProduct struct {
	StoreID  *int32
	ID       *int32
	UID      *string
	SKU      *string
	Status   *string
	Category *string
	Featured *bool
	// InStockOnly keeps rows with stock > 0.
	InStockOnly bool
	Limit       *int
}

// UpdateProduct carries the mutable fields; nil means unchanged.
type UpdateProduct struct {
	ID           int32
	StoreID      int32
	Title        *string
	Description  *string
	Category     *string
	Tags         *string
	Price        *int64
	Stock        *int32
	TrackStock   *bool
	Status       *string
	Featured     *bool
	LeadTimeDays *int32
}

// CreateProduct persists a new product.
func (s *Store) CreateProduct(ctx context.Context, create *Product) (*Product, error) {
	return s.driver.CreateProduct(ctx, create)
}

// UpdateProduct updates a product's mutable fields.
func (s *Store) UpdateProduct(ctx context.Context, update *UpdateProduct) (*Product, error) {
	return s.driver.UpdateProduct(ctx, update)
}

// ListProducts lists products matching the filter.
func (s *Store) ListProducts(ctx context.Context, find *FindProduct) ([]*Product, error) {
	return s.driver.ListProducts(ctx, find)
}

// GetProduct returns the first product matching the filter, or nil.
func (s *Store) GetProduct(ctx context.Context, find *FindProduct) (*Product, error) {
	return s.driver.GetProduct(ctx, find)
}

// DeleteProducts deletes the given products within a store and reports how
// many rows were removed.
func (s *Store) DeleteProducts(ctx context.Context, storeID int32, ids []int32) (int64, error) {
	return s.driver.DeleteProducts(ctx, storeID, ids)
}
