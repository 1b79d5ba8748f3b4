package insights

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendora/vendora/store"
)

func TestOverviewGrowthAndAOV(t *testing.T) {
	// Previous period: ₹10,000 paid revenue. Current: ₹12,000 over three paid
	// orders, so 20% growth and a ₹4,000 average order value.
	w := Window{PrevStart: 0, Start: 1000, End: 2000}
	reader := &fakeReader{
		orders: []*store.Order{
			{ID: 1, StoreID: 1, CustomerID: 10, Status: store.OrderStatusPaid, Total: 1000000, CreatedTs: 500},
			{ID: 2, StoreID: 1, CustomerID: 10, Status: store.OrderStatusPaid, Total: 500000, CreatedTs: 1100},
			{ID: 3, StoreID: 1, CustomerID: 11, Status: store.OrderStatusShipped, Total: 400000, CreatedTs: 1200, ShippedTs: 1200 + 7200},
			{ID: 4, StoreID: 1, CustomerID: 12, Status: store.OrderStatusDelivered, Total: 300000, CreatedTs: 1300},
			// Cancelled orders never count toward revenue.
			{ID: 5, StoreID: 1, CustomerID: 13, Status: store.OrderStatusCancelled, Total: 9900000, CreatedTs: 1400},
		},
	}
	eng := NewEngine(reader)

	o, err := eng.Overview(context.Background(), 1, w)
	require.NoError(t, err)

	assert.Equal(t, int64(1200000), o.Revenue)
	assert.Equal(t, int64(1000000), o.PrevRevenue)
	assert.InDelta(t, 20.0, o.RevenueGrowthPct, 0.001)
	assert.Equal(t, 3, o.OrderCount)
	assert.InDelta(t, 400000.0, o.AvgOrderValue, 0.001)

	// Customer 10 ordered before the window; 11, 12 and 13 are new.
	assert.Equal(t, 1, o.ReturningCustomers)
	assert.Equal(t, 3, o.NewCustomers)

	// One order shipped, two hours after creation.
	assert.InDelta(t, 2.0, o.AvgFulfillmentHours, 0.001)
}

func TestOverviewCancelledHistoryDoesNotMakeReturning(t *testing.T) {
	w := Window{PrevStart: 0, Start: 1000, End: 2000}
	reader := &fakeReader{
		orders: []*store.Order{
			// Customer 20's only history is a cancelled order: still new.
			{ID: 1, StoreID: 1, CustomerID: 20, Status: store.OrderStatusCancelled, Total: 100000, CreatedTs: 500},
			{ID: 2, StoreID: 1, CustomerID: 20, Status: store.OrderStatusPaid, Total: 200000, CreatedTs: 1100},
			// Customer 21 actually bought before the window.
			{ID: 3, StoreID: 1, CustomerID: 21, Status: store.OrderStatusDelivered, Total: 300000, CreatedTs: 600},
			{ID: 4, StoreID: 1, CustomerID: 21, Status: store.OrderStatusPaid, Total: 400000, CreatedTs: 1200},
		},
	}
	eng := NewEngine(reader)

	o, err := eng.Overview(context.Background(), 1, w)
	require.NoError(t, err)
	assert.Equal(t, 1, o.NewCustomers)
	assert.Equal(t, 1, o.ReturningCustomers)
}

func TestOverviewStockCountsPublishedOnly(t *testing.T) {
	reader := &fakeReader{
		products: []*store.Product{
			{ID: 1, Status: store.ProductStatusPublished, TrackStock: true, Stock: 0},
			{ID: 2, Status: store.ProductStatusPublished, TrackStock: true, Stock: 3},
			{ID: 3, Status: store.ProductStatusPublished, TrackStock: true, Stock: 50},
			// Draft and untracked products never count.
			{ID: 4, Status: store.ProductStatusDraft, TrackStock: true, Stock: 0},
			{ID: 5, Status: store.ProductStatusPublished, TrackStock: false, Stock: 0},
		},
	}
	eng := NewEngine(reader)

	o, err := eng.Overview(context.Background(), 1, Window{Start: 0, End: 100})
	require.NoError(t, err)
	assert.Equal(t, 1, o.OutOfStock)
	assert.Equal(t, 1, o.LowStock)
}

func TestTopProductsByRevenue(t *testing.T) {
	orders := []*store.Order{
		{Status: store.OrderStatusPaid, Items: []*store.OrderItem{
			{ProductID: 1, Title: "Mug", Quantity: 2, Price: 30000},
			{ProductID: 2, Title: "Tee", Quantity: 1, Price: 50000},
		}},
		{Status: store.OrderStatusPaid, Items: []*store.OrderItem{
			{ProductID: 1, Title: "Mug", Quantity: 1, Price: 30000},
		}},
	}
	top := topProductsByRevenue(orders, 5)
	require.Len(t, top, 2)
	assert.Equal(t, int32(1), top[0].ProductID)
	assert.Equal(t, int64(90000), top[0].Revenue)
	assert.Equal(t, int32(3), top[0].Units)
	assert.Equal(t, int32(2), top[1].ProductID)
}
