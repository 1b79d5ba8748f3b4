package insights

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendora/vendora/store"
)

// fakeReader serves canned rows, honoring the filter fields the engine
// actually sets.
type fakeReader struct {
	products  []*store.Product
	orders    []*store.Order
	customers []*store.Customer
	coupons   []*store.Coupon
	reviews   []*store.Review
	carts     []*store.AbandonedCart
	notifs    []*store.Notification

	failOrders bool
}

func (f *fakeReader) ListProducts(_ context.Context, find *store.FindProduct) ([]*store.Product, error) {
	var out []*store.Product
	for _, p := range f.products {
		if find.Status != nil && p.Status != *find.Status {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeReader) ListOrders(_ context.Context, find *store.FindOrder) ([]*store.Order, error) {
	if f.failOrders {
		return nil, errors.New("connection refused")
	}
	var out []*store.Order
	for _, o := range f.orders {
		if find.Status != nil && o.Status != *find.Status {
			continue
		}
		if find.CustomerID != nil && o.CustomerID != *find.CustomerID {
			continue
		}
		if find.CreatedAfter != nil && o.CreatedTs < *find.CreatedAfter {
			continue
		}
		if find.CreatedBefore != nil && o.CreatedTs >= *find.CreatedBefore {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

func (f *fakeReader) ListCustomers(_ context.Context, _ *store.FindCustomer) ([]*store.Customer, error) {
	return f.customers, nil
}

func (f *fakeReader) ListCoupons(_ context.Context, find *store.FindCoupon) ([]*store.Coupon, error) {
	var out []*store.Coupon
	for _, c := range f.coupons {
		if find.ActiveOnly && !c.Active {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeReader) ListReviews(_ context.Context, find *store.FindReview) ([]*store.Review, error) {
	var out []*store.Review
	for _, r := range f.reviews {
		if find.Status != nil && r.Status != *find.Status {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeReader) ListAbandonedCarts(_ context.Context, find *store.FindAbandonedCart) ([]*store.AbandonedCart, error) {
	var out []*store.AbandonedCart
	for _, c := range f.carts {
		if find.Recovered != nil && c.Recovered != *find.Recovered {
			continue
		}
		if find.CreatedAfter != nil && c.CreatedTs < *find.CreatedAfter {
			continue
		}
		if find.CreatedBefore != nil && c.CreatedTs >= *find.CreatedBefore {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeReader) ListNotifications(_ context.Context, find *store.FindNotification) ([]*store.Notification, error) {
	var out []*store.Notification
	for _, n := range f.notifs {
		if find.Read != nil && n.Read != *find.Read {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func TestGrowthPct(t *testing.T) {
	assert.InDelta(t, 20.0, growthPct(1200000, 1000000), 0.001)
	assert.InDelta(t, -50.0, growthPct(50, 100), 0.001)
	assert.Equal(t, 0.0, growthPct(500, 0), "zero previous period must not divide")
	assert.Equal(t, 0.0, growthPct(0, 0))
}

func TestOverviewDegradesOnFailedOrderRead(t *testing.T) {
	reader := &fakeReader{
		failOrders: true,
		products: []*store.Product{
			{ID: 1, StoreID: 1, Title: "Mug", Status: store.ProductStatusPublished, TrackStock: true, Stock: 0},
		},
	}
	eng := NewEngine(reader)

	o, err := eng.Overview(context.Background(), 1, Window{Start: 100, End: 200, PrevStart: 0})
	require.NoError(t, err, "a failed sub-read must not fail the report")
	assert.Zero(t, o.Revenue)
	assert.Zero(t, o.OrderCount)
	assert.Equal(t, 1, o.OutOfStock, "independent reads still contribute")
}
