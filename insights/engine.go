package insights

import (
	"context"

	"github.com/vendora/vendora/store"
)

// Reader is the slice of the store the engine queries. *store.Store satisfies
// it; tests substitute failing or canned implementations.
type Reader interface {
	ListProducts(ctx context.Context, find *store.FindProduct) ([]*store.Product, error)
	ListOrders(ctx context.Context, find *store.FindOrder) ([]*store.Order, error)
	ListCustomers(ctx context.Context, find *store.FindCustomer) ([]*store.Customer, error)
	ListCoupons(ctx context.Context, find *store.FindCoupon) ([]*store.Coupon, error)
	ListReviews(ctx context.Context, find *store.FindReview) ([]*store.Review, error)
	ListAbandonedCarts(ctx context.Context, find *store.FindAbandonedCart) ([]*store.AbandonedCart, error)
	ListNotifications(ctx context.Context, find *store.FindNotification) ([]*store.Notification, error)
}

// Engine computes business metrics for one store at a time. It holds no
// per-call state; callers own the window and the tenant scope.
type Engine struct {
	reader Reader
}

// NewEngine creates an engine over the given reader.
func NewEngine(reader Reader) *Engine {
	return &Engine{reader: reader}
}

// growthPct computes the percentage change from prev to cur. A zero previous
// period yields 0, never a division error.
func growthPct(cur, prev float64) float64 {
	if prev == 0 {
		return 0
	}
	return (cur - prev) / prev * 100
}

// paidRevenue sums the totals of revenue-counting orders.
func paidRevenue(orders []*store.Order) int64 {
	var total int64
	for _, o := range orders {
		if store.IsPaidStatus(o.Status) {
			total += o.Total
		}
	}
	return total
}

// paidOrders filters to revenue-counting orders.
func paidOrders(orders []*store.Order) []*store.Order {
	var paid []*store.Order
	for _, o := range orders {
		if store.IsPaidStatus(o.Status) {
			paid = append(paid, o)
		}
	}
	return paid
}
