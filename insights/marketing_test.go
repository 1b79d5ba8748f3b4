package insights

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendora/vendora/store"
)

func TestMarketingCouponPerformance(t *testing.T) {
	w := Window{Start: 1000, End: 2000}
	maxUses := int32(100)
	reader := &fakeReader{
		coupons: []*store.Coupon{
			{ID: 1, Code: "DIWALI20", TimesUsed: 40, MaxUses: &maxUses, Active: true},
			{ID: 2, Code: "WELCOME", TimesUsed: 7, MaxUses: nil, Active: true},
		},
		orders: []*store.Order{
			{Status: store.OrderStatusPaid, CouponCode: "DIWALI20", Total: 800000, Discount: 200000, CreatedTs: 1500},
			{Status: store.OrderStatusPaid, CouponCode: "DIWALI20", Total: 400000, Discount: 100000, CreatedTs: 1600},
			// Pending orders carry no attributed revenue.
			{Status: store.OrderStatusPending, CouponCode: "DIWALI20", Total: 900000, Discount: 100000, CreatedTs: 1700},
		},
	}
	eng := NewEngine(reader)

	mi, err := eng.Marketing(context.Background(), 1, w)
	require.NoError(t, err)
	require.Len(t, mi.Coupons, 2)

	diwali := mi.Coupons[0]
	require.NotNil(t, diwali.RedemptionRatePct)
	assert.InDelta(t, 40.0, *diwali.RedemptionRatePct, 0.001)
	assert.Equal(t, int64(1200000), diwali.RevenueAttributed)
	assert.Equal(t, int64(300000), diwali.DiscountGiven)
	require.NotNil(t, diwali.ROI)
	assert.InDelta(t, 4.0, *diwali.ROI, 0.001)

	welcome := mi.Coupons[1]
	assert.Nil(t, welcome.RedemptionRatePct, "unbounded coupons have no redemption rate")
	assert.Nil(t, welcome.ROI, "no discount given means no ROI")
}

func TestMarketingExpiringSoon(t *testing.T) {
	w := Window{Start: 0, End: 1_000_000}
	reader := &fakeReader{
		coupons: []*store.Coupon{
			{Code: "SOON", Active: true, ExpiresTs: w.End + 86400},
			{Code: "LATER", Active: true, ExpiresTs: w.End + 10*86400},
			{Code: "GONE", Active: true, ExpiresTs: w.End - 100},
			{Code: "DEAD", Active: false, ExpiresTs: w.End + 86400},
		},
	}
	eng := NewEngine(reader)

	mi, err := eng.Marketing(context.Background(), 1, w)
	require.NoError(t, err)
	require.Len(t, mi.ExpiringSoon, 1)
	assert.Equal(t, "SOON", mi.ExpiringSoon[0].Code)
}

func TestFeatureCandidates(t *testing.T) {
	products := []*store.Product{
		{ID: 1, Title: "Mug", Status: store.ProductStatusPublished},
		{ID: 2, Title: "Tee", Status: store.ProductStatusPublished},
		{ID: 3, Title: "Cap", Status: store.ProductStatusPublished, Featured: true},
		{ID: 4, Title: "Pen", Status: store.ProductStatusDraft},
	}
	reviews := []*store.Review{
		{ProductID: 1, Rating: 5}, {ProductID: 1, Rating: 4},
		{ProductID: 2, Rating: 5}, // only one review
		{ProductID: 3, Rating: 5}, {ProductID: 3, Rating: 5}, // already featured
		{ProductID: 4, Rating: 5}, {ProductID: 4, Rating: 5}, // draft
	}
	candidates := featureCandidates(products, reviews)
	require.Len(t, candidates, 1)
	assert.Equal(t, int32(1), candidates[0].ProductID)
	assert.InDelta(t, 4.5, candidates[0].AvgRating, 0.001)
	assert.Equal(t, 2, candidates[0].Reviews)
}

func TestMarketingCartRecovery(t *testing.T) {
	w := Window{Start: 0, End: 1000}
	reader := &fakeReader{
		carts: []*store.AbandonedCart{
			{CreatedTs: 100, Recovered: true},
			{CreatedTs: 200},
			{CreatedTs: 300},
			{CreatedTs: 400},
		},
	}
	eng := NewEngine(reader)

	mi, err := eng.Marketing(context.Background(), 1, w)
	require.NoError(t, err)
	assert.Equal(t, 4, mi.AbandonedCarts)
	assert.InDelta(t, 25.0, mi.CartRecoveryPct, 0.001)
}
