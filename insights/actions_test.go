package insights

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendora/vendora/store"
)

func TestActionsRules(t *testing.T) {
	now := time.Unix(100*86400, 0)
	reader := &fakeReader{
		products: []*store.Product{
			{ID: 1, Status: store.ProductStatusPublished, TrackStock: true, Stock: 0},
			{ID: 2, Status: store.ProductStatusPublished, TrackStock: true, Stock: 2},
		},
		orders: []*store.Order{
			// Paid three days ago, still unshipped.
			{ID: 1, Status: store.OrderStatusPaid, Total: 100000, CreatedTs: now.Unix() - 3*86400},
		},
		reviews: []*store.Review{
			{ID: 1, Status: store.ReviewStatusPending},
		},
		coupons: []*store.Coupon{
			{Code: "SOON", Active: true, ExpiresTs: now.Unix() + 86400},
		},
		carts: []*store.AbandonedCart{
			{CreatedTs: now.Unix() - 100}, {CreatedTs: now.Unix() - 200},
			{CreatedTs: now.Unix() - 300}, {CreatedTs: now.Unix() - 400},
			{CreatedTs: now.Unix() - 500},
		},
		notifs: []*store.Notification{
			{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}, {ID: 5},
		},
	}
	eng := NewEngine(reader)

	ranked, err := eng.Actions(context.Background(), 1, now)
	require.NoError(t, err)

	assert.Equal(t, 2, ranked.Counts[PriorityCritical], "out-of-stock and aged unshipped orders")
	assert.GreaterOrEqual(t, ranked.Counts[PriorityHigh], 1, "low stock")
	assert.Equal(t, 3, ranked.Counts[PriorityMedium], "pending reviews, expiring coupons, abandoned carts")
	assert.GreaterOrEqual(t, ranked.Counts[PriorityLow], 1, "unread notifications")

	// The list itself is priority ordered.
	lastRank := -1
	for _, in := range ranked.Insights {
		r := priorityRank[in.Priority]
		assert.GreaterOrEqual(t, r, lastRank)
		lastRank = r
	}
}

func TestActionsQuietStore(t *testing.T) {
	// A healthy store with no stock problems, no backlog and steady revenue
	// produces no insights at all.
	now := time.Unix(100*86400, 0)
	reader := &fakeReader{
		products: []*store.Product{
			{ID: 1, Status: store.ProductStatusPublished, TrackStock: true, Stock: 40},
		},
		orders: []*store.Order{
			{Status: store.OrderStatusDelivered, Total: 100000, CreatedTs: now.Unix() - 2*86400, ShippedTs: now.Unix() - 86400},
			{Status: store.OrderStatusDelivered, Total: 100000, CreatedTs: now.Unix() - 9*86400, ShippedTs: now.Unix() - 8*86400},
		},
	}
	eng := NewEngine(reader)

	ranked, err := eng.Actions(context.Background(), 1, now)
	require.NoError(t, err)
	assert.Empty(t, ranked.Insights)
	assert.Zero(t, ranked.Counts[PriorityCritical])
}
