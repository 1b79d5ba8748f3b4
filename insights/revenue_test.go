package insights

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendora/vendora/store"
)

func TestRevenueBreakdown(t *testing.T) {
	w := Window{Start: 0, End: 14 * 86400}
	reader := &fakeReader{
		products: []*store.Product{
			{ID: 1, Category: "Mugs"},
			{ID: 2, Category: "Apparel"},
			{ID: 3},
		},
		orders: []*store.Order{
			{Status: store.OrderStatusPaid, PaymentMethod: "upi", Total: 600000, Discount: 50000, CouponCode: "X", CreatedTs: 100,
				Items: []*store.OrderItem{{ProductID: 1, Quantity: 2, Price: 300000}}},
			{Status: store.OrderStatusShipped, PaymentMethod: "upi", Total: 200000, CreatedTs: 200,
				Items: []*store.OrderItem{{ProductID: 2, Quantity: 1, Price: 200000}}},
			{Status: store.OrderStatusPaid, PaymentMethod: "cod", Total: 100000, CreatedTs: 8 * 86400,
				Items: []*store.OrderItem{{ProductID: 3, Quantity: 1, Price: 100000}}},
			{Status: store.OrderStatusPending, PaymentMethod: "card", Total: 900000, CreatedTs: 300},
		},
	}
	eng := NewEngine(reader)

	b, err := eng.Revenue(context.Background(), 1, w)
	require.NoError(t, err)

	assert.Equal(t, int64(900000), b.Revenue)
	assert.Equal(t, int64(50000), b.DiscountGiven)
	assert.Equal(t, 1, b.DiscountedOrders)

	require.Len(t, b.ByChannel, 2)
	assert.Equal(t, ChannelRevenue{Channel: "upi", Revenue: 800000, Orders: 2}, b.ByChannel[0])
	assert.Equal(t, ChannelRevenue{Channel: "cod", Revenue: 100000, Orders: 1}, b.ByChannel[1])

	require.Len(t, b.ByCategory, 3)
	assert.Equal(t, CategoryRevenue{Category: "Mugs", Revenue: 600000}, b.ByCategory[0])
	assert.Equal(t, CategoryRevenue{Category: "Apparel", Revenue: 200000}, b.ByCategory[1])
	assert.Equal(t, CategoryRevenue{Category: "uncategorized", Revenue: 100000}, b.ByCategory[2])

	// Two 7-day buckets: the first two orders land in week one, the cod order
	// in week two.
	require.Len(t, b.Weekly, 2)
	assert.Equal(t, int64(800000), b.Weekly[0].Revenue)
	assert.Equal(t, int64(100000), b.Weekly[1].Revenue)
}

func TestRevenueBreakdownTiesOrderByName(t *testing.T) {
	w := Window{Start: 0, End: 7 * 86400}
	reader := &fakeReader{
		products: []*store.Product{
			{ID: 1, Category: "Mugs"},
			{ID: 2, Category: "Apparel"},
		},
		orders: []*store.Order{
			{Status: store.OrderStatusPaid, PaymentMethod: "upi", Total: 100000, CreatedTs: 100,
				Items: []*store.OrderItem{{ProductID: 1, Quantity: 1, Price: 100000}}},
			{Status: store.OrderStatusPaid, PaymentMethod: "cod", Total: 100000, CreatedTs: 200,
				Items: []*store.OrderItem{{ProductID: 2, Quantity: 1, Price: 100000}}},
		},
	}
	eng := NewEngine(reader)

	b, err := eng.Revenue(context.Background(), 1, w)
	require.NoError(t, err)

	// Equal revenue rows fall back to lexical order.
	require.Len(t, b.ByChannel, 2)
	assert.Equal(t, "cod", b.ByChannel[0].Channel)
	assert.Equal(t, "upi", b.ByChannel[1].Channel)

	require.Len(t, b.ByCategory, 2)
	assert.Equal(t, "Apparel", b.ByCategory[0].Category)
	assert.Equal(t, "Mugs", b.ByCategory[1].Category)
}

func TestWeeklySeriesCapsBuckets(t *testing.T) {
	w := Window{Start: 0, End: 52 * 7 * 86400} // a year
	series := weeklySeries(nil, w)
	assert.Len(t, series, maxWeeklyBuckets)
}
