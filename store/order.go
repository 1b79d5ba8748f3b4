package store

import "context"

// Order statuses.
const (
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
	OrderStatusRefunded  = "refunded"
)

// PaidStatuses are the statuses that count toward revenue.
var PaidStatuses = []string{OrderStatusPaid, OrderStatusShipped, OrderStatusDelivered}

// Order is a customer order. All amounts are in paise.
type Order struct {
	ID            int32
	UID           string
	StoreID       int32
	CustomerID    int32
	Status        string
	PaymentMethod string // upi | card | netbanking | cod | wallet
	Subtotal      int64
	Discount      int64
	Total         int64
	CouponCode    string
	CreatedTs     int64
	ShippedTs     int64 // 0 until shipped
	Items         []*OrderItem
}

// OrderItem is a line item within an order. Price is the unit price in paise
// at purchase time.
type OrderItem struct {
	ID        int32
	OrderID   int32
	ProductID int32
	Title     string
	Quantity  int32
	Price     int64
}

// FindOrder filters for ListOrders / GetOrder.
type FindOrder struct {
	StoreID       *int32
	ID            *int32
	UID           *string
	CustomerID    *int32
	Status        *string
	Statuses      []string
	CouponCode    *string
	CreatedAfter  *int64
	CreatedBefore *int64
	Limit         *int
}

// UpdateOrder carries the mutable fields; nil means unchanged.
type UpdateOrder struct {
	ID        int32
	StoreID   int32
	Status    *string
	ShippedTs *int64
}

// CreateOrder persists a new order with its line items.
func (s *Store) CreateOrder(ctx context.Context, create *Order) (*Order, error) {
	return s.driver.CreateOrder(ctx, create)
}

// UpdateOrder updates an order's mutable fields.
func (s *Store) UpdateOrder(ctx context.Context, update *UpdateOrder) (*Order, error) {
	return s.driver.UpdateOrder(ctx, update)
}

// ListOrders lists orders matching the filter, line items included, newest
// first.
func (s *Store) ListOrders(ctx context.Context, find *FindOrder) ([]*Order, error) {
	return s.driver.ListOrders(ctx, find)
}

// GetOrder returns the first order matching the filter, or nil.
func (s *Store) GetOrder(ctx context.Context, find *FindOrder) (*Order, error) {
	return s.driver.GetOrder(ctx, find)
}

// IsPaidStatus reports whether the status counts toward revenue.
func IsPaidStatus(status string) bool {
	for _, s := range PaidStatuses {
		if s == status {
			return true
		}
	}
	return false
}
