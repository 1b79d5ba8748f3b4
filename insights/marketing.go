package insights

import (
	"context"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/vendora/vendora/store"
)

// couponExpiryHorizon flags coupons expiring within this many seconds.
const couponExpiryHorizon = 3 * 86400

// CouponPerformance is the per-coupon report row.
type CouponPerformance struct {
	Code              string   `json:"code"`
	TimesUsed         int32    `json:"timesUsed"`
	MaxUses           *int32   `json:"maxUses"`
	RedemptionRatePct *float64 `json:"redemptionRatePct"` // nil when unbounded
	RevenueAttributed int64    `json:"revenueAttributed"`
	DiscountGiven     int64    `json:"discountGiven"`
	ROI               *float64 `json:"roi"` // nil when no discount given
	ExpiresTs         int64    `json:"expiresTs"`
}

// FeatureCandidate is an unfeatured product worth promoting.
type FeatureCandidate struct {
	ProductID int32   `json:"productId"`
	Title     string  `json:"title"`
	AvgRating float64 `json:"avgRating"`
	Reviews   int     `json:"reviews"`
}

// MarketingInsight is the marketing effectiveness report.
type MarketingInsight struct {
	Window            Window              `json:"window"`
	Coupons           []CouponPerformance `json:"coupons"`
	ExpiringSoon      []CouponPerformance `json:"expiringSoon"`
	CartRecoveryPct   float64             `json:"cartRecoveryPct"`
	AbandonedCarts    int                 `json:"abandonedCarts"`
	FeatureCandidates []FeatureCandidate  `json:"featureCandidates"`
}

// Marketing computes coupon performance, cart recovery and feature
// candidates for the window.
func (e *Engine) Marketing(ctx context.Context, storeID int32, w Window) (*MarketingInsight, error) {
	var (
		coupons  []*store.Coupon
		orders   []*store.Order
		carts    []*store.AbandonedCart
		reviews  []*store.Review
		products []*store.Product
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if coupons, err = e.reader.ListCoupons(gctx, &store.FindCoupon{StoreID: &storeID}); err != nil {
			slog.Warn("marketing coupons read failed", "err", err)
			coupons = nil
		}
		return nil
	})
	g.Go(func() error {
		orders = e.listOrdersBetween(gctx, storeID, w.Start, w.End, "marketing orders")
		return nil
	})
	g.Go(func() error {
		var err error
		if carts, err = e.reader.ListAbandonedCarts(gctx, &store.FindAbandonedCart{
			StoreID: &storeID, CreatedAfter: &w.Start, CreatedBefore: &w.End,
		}); err != nil {
			slog.Warn("marketing carts read failed", "err", err)
			carts = nil
		}
		return nil
	})
	g.Go(func() error {
		var err error
		status := store.ReviewStatusApproved
		if reviews, err = e.reader.ListReviews(gctx, &store.FindReview{StoreID: &storeID, Status: &status}); err != nil {
			slog.Warn("marketing reviews read failed", "err", err)
			reviews = nil
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if products, err = e.reader.ListProducts(gctx, &store.FindProduct{StoreID: &storeID}); err != nil {
			slog.Warn("marketing products read failed", "err", err)
			products = nil
		}
		return nil
	})
	_ = g.Wait()

	type attribution struct {
		revenue  int64
		discount int64
	}
	byCoupon := map[string]*attribution{}
	for _, o := range paidOrders(orders) {
		if o.CouponCode == "" {
			continue
		}
		a, ok := byCoupon[o.CouponCode]
		if !ok {
			a = &attribution{}
			byCoupon[o.CouponCode] = a
		}
		a.revenue += o.Total
		a.discount += o.Discount
	}

	mi := &MarketingInsight{Window: w}
	for _, c := range coupons {
		perf := CouponPerformance{
			Code:      c.Code,
			TimesUsed: c.TimesUsed,
			MaxUses:   c.MaxUses,
			ExpiresTs: c.ExpiresTs,
		}
		if c.MaxUses != nil && *c.MaxUses > 0 {
			rate := float64(c.TimesUsed) / float64(*c.MaxUses) * 100
			perf.RedemptionRatePct = &rate
		}
		if a := byCoupon[c.Code]; a != nil {
			perf.RevenueAttributed = a.revenue
			perf.DiscountGiven = a.discount
			if a.discount > 0 {
				roi := float64(a.revenue) / float64(a.discount)
				perf.ROI = &roi
			}
		}
		mi.Coupons = append(mi.Coupons, perf)
		if c.Active && c.ExpiresTs > w.End && c.ExpiresTs <= w.End+couponExpiryHorizon {
			mi.ExpiringSoon = append(mi.ExpiringSoon, perf)
		}
	}

	mi.AbandonedCarts = len(carts)
	recovered := 0
	for _, c := range carts {
		if c.Recovered {
			recovered++
		}
	}
	if mi.AbandonedCarts > 0 {
		mi.CartRecoveryPct = float64(recovered) / float64(mi.AbandonedCarts) * 100
	}

	mi.FeatureCandidates = featureCandidates(products, reviews)
	return mi, nil
}

// featureCandidates surfaces unfeatured published products with at least two
// approved reviews averaging 4.0 or better, best rated first.
func featureCandidates(products []*store.Product, approved []*store.Review) []FeatureCandidate {
	type stats struct {
		sum   int32
		count int
	}
	byProduct := map[int32]*stats{}
	for _, r := range approved {
		s, ok := byProduct[r.ProductID]
		if !ok {
			s = &stats{}
			byProduct[r.ProductID] = s
		}
		s.sum += r.Rating
		s.count++
	}

	var candidates []FeatureCandidate
	for _, p := range products {
		if p.Featured || p.Status != store.ProductStatusPublished {
			continue
		}
		s := byProduct[p.ID]
		if s == nil || s.count < 2 {
			continue
		}
		avg := float64(s.sum) / float64(s.count)
		if avg < 4.0 {
			continue
		}
		candidates = append(candidates, FeatureCandidate{
			ProductID: p.ID,
			Title:     p.Title,
			AvgRating: avg,
			Reviews:   s.count,
		})
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].AvgRating != candidates[j].AvgRating {
			return candidates[i].AvgRating > candidates[j].AvgRating
		}
		return candidates[i].Reviews > candidates[j].Reviews
	})
	return candidates
}
