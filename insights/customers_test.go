package insights

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendora/vendora/store"
)

func TestCustomersRepeatRateAndSegments(t *testing.T) {
	w := Window{Start: 1000, End: 2000}
	reader := &fakeReader{
		customers: []*store.Customer{
			{ID: 10, Name: "Asha", Email: "asha@example.com", State: "MH", City: "Mumbai"},
			{ID: 11, Name: "Ravi", Email: "ravi@example.com", State: "MH", City: "Pune"},
			{ID: 12, Name: "Meera", Email: "meera@example.com", State: "KA", City: "Bengaluru"},
			{ID: 13, Name: "Dev", Email: "dev@example.com", State: "DL", City: "Delhi"},
		},
		orders: []*store.Order{
			// Asha buys twice, everyone else once.
			{CustomerID: 10, Status: store.OrderStatusPaid, Total: 500000, CreatedTs: 1100},
			{CustomerID: 10, Status: store.OrderStatusPaid, Total: 500000, CreatedTs: 1200},
			{CustomerID: 11, Status: store.OrderStatusPaid, Total: 100000, CreatedTs: 1300},
			{CustomerID: 12, Status: store.OrderStatusShipped, Total: 100000, CreatedTs: 1400},
			{CustomerID: 13, Status: store.OrderStatusDelivered, Total: 100000, CreatedTs: 1500},
			// Cancelled orders don't make a customer active.
			{CustomerID: 14, Status: store.OrderStatusCancelled, Total: 100000, CreatedTs: 1600},
		},
	}
	eng := NewEngine(reader)

	ci, err := eng.Customers(context.Background(), 1, w)
	require.NoError(t, err)

	assert.Equal(t, 4, ci.ActiveCustomers)
	assert.Equal(t, 1, ci.RepeatCustomers)
	assert.InDelta(t, 25.0, ci.RepeatRatePct, 0.001)

	require.NotEmpty(t, ci.TopCustomers)
	assert.Equal(t, int32(10), ci.TopCustomers[0].CustomerID)
	assert.Equal(t, int64(1000000), ci.TopCustomers[0].Spend)
	assert.Equal(t, "Asha", ci.TopCustomers[0].Name)

	// Average spend 325000: Asha is high (>= 2x), the rest low (< 0.5x).
	assert.Equal(t, 1, ci.Segments.High)
	assert.Equal(t, 3, ci.Segments.Low)
	assert.Equal(t, 0, ci.Segments.Mid)

	require.NotEmpty(t, ci.TopStates)
	assert.Equal(t, RegionCount{Name: "MH", Count: 2}, ci.TopStates[0])
}
