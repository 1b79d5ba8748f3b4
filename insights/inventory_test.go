package insights

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendora/vendora/store"
)

func TestInventoryVelocityAndReorder(t *testing.T) {
	end := int64(velocityWindowDays * 86400)
	w := Window{Start: end - 7*86400, End: end}
	reader := &fakeReader{
		products: []*store.Product{
			{ID: 1, Title: "Mug", Status: store.ProductStatusPublished, TrackStock: true, Stock: 10, LeadTimeDays: 7},
			{ID: 2, Title: "Tee", Status: store.ProductStatusPublished, TrackStock: true, Stock: 500},
			{ID: 3, Title: "Cap", Status: store.ProductStatusPublished, TrackStock: true, Stock: 8},
		},
		orders: []*store.Order{
			// 60 mugs over the trailing 30 days: velocity 2/day, 5 days of
			// stock left, reorder ceil(2*7*1.5) = 21.
			{Status: store.OrderStatusPaid, CreatedTs: 100, Items: []*store.OrderItem{
				{ProductID: 1, Quantity: 60},
			}},
			// 3 tees: velocity 0.1/day, 5000 days of stock, no reorder.
			{Status: store.OrderStatusDelivered, CreatedTs: 200, Items: []*store.OrderItem{
				{ProductID: 2, Quantity: 3},
			}},
		},
	}
	eng := NewEngine(reader)

	report, err := eng.Inventory(context.Background(), 1, w)
	require.NoError(t, err)

	require.Len(t, report.NeedsReorder, 1)
	mug := report.NeedsReorder[0]
	assert.Equal(t, int32(1), mug.ProductID)
	assert.InDelta(t, 2.0, mug.DailyVelocity, 0.001)
	require.NotNil(t, mug.DaysUntilStockout)
	assert.InDelta(t, 5.0, *mug.DaysUntilStockout, 0.001)
	assert.Equal(t, int32(21), mug.SuggestedReorder)

	// Cap never sold: zero velocity means no stockout projection at all.
	require.Len(t, report.DeadStock, 1)
	idle := report.DeadStock[0]
	assert.Equal(t, int32(3), idle.ProductID)
	assert.Nil(t, idle.DaysUntilStockout)
	assert.True(t, idle.DeadStock)

	// Best sellers ranked by velocity, mug first.
	require.Len(t, report.BestSellers, 2)
	assert.Equal(t, int32(1), report.BestSellers[0].ProductID)
}

func TestInventoryDefaultLeadTime(t *testing.T) {
	end := int64(velocityWindowDays * 86400)
	w := Window{Start: end - 86400, End: end}
	reader := &fakeReader{
		products: []*store.Product{
			// No lead time set: the 14-day default applies.
			{ID: 1, Title: "Mug", Status: store.ProductStatusPublished, TrackStock: true, Stock: 4},
		},
		orders: []*store.Order{
			{Status: store.OrderStatusPaid, CreatedTs: 100, Items: []*store.OrderItem{
				{ProductID: 1, Quantity: 30},
			}},
		},
	}
	eng := NewEngine(reader)

	report, err := eng.Inventory(context.Background(), 1, w)
	require.NoError(t, err)
	require.Len(t, report.NeedsReorder, 1)
	// velocity 1/day, ceil(1*14*1.5) = 21
	assert.Equal(t, int32(21), report.NeedsReorder[0].SuggestedReorder)
}
