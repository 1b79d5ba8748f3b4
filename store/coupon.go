package store

import "context"

// Coupon kinds.
const (
	CouponKindPercent = "percent"
	CouponKindFlat    = "flat"
)

// Coupon is a discount code. Value is a percentage for percent coupons and a
// paise amount for flat ones. MaxUses nil means unbounded.
type Coupon struct {
	ID        int32
	StoreID   int32
	Code      string
	Kind      string
	Value     int64
	MaxUses   *int32
	TimesUsed int32
	Active    bool
	ExpiresTs int64 // 0 means never
	CreatedTs int64
}

// FindCoupon filters for ListCoupons.
type FindCoupon struct {
	StoreID    *int32
	Code       *string
	ActiveOnly bool
}

// UpdateCoupon carries the mutable fields; nil means unchanged.
type UpdateCoupon struct {
	ID        int32
	StoreID   int32
	Active    *bool
	MaxUses   *int32
	ExpiresTs *int64
}

// CreateCoupon persists a new coupon.
func (s *Store) CreateCoupon(ctx context.Context, create *Coupon) (*Coupon, error) {
	return s.driver.CreateCoupon(ctx, create)
}

// UpdateCoupon updates a coupon's mutable fields.
func (s *Store) UpdateCoupon(ctx context.Context, update *UpdateCoupon) (*Coupon, error) {
	return s.driver.UpdateCoupon(ctx, update)
}

// ListCoupons lists coupons matching the filter.
func (s *Store) ListCoupons(ctx context.Context, find *FindCoupon) ([]*Coupon, error) {
	return s.driver.ListCoupons(ctx, find)
}

// DeleteCoupon deletes a coupon by code within a store.
func (s *Store) DeleteCoupon(ctx context.Context, storeID int32, code string) error {
	return s.driver.DeleteCoupon(ctx, storeID, code)
}
