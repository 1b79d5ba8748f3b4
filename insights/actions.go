package insights

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vendora/vendora/store"
)

const (
	unshippedAgeLimit      = 48 * 3600
	revenueDropAlertPct    = -10.0
	revenueGrowthCheerPct  = 20.0
	abandonedCartAlertMin  = 5
	unreadBacklogAlertMin  = 5
)

// Actions inspects live store counts and emits prioritized action items,
// ranked. Rules are fixed; each fires zero or one insight.
func (e *Engine) Actions(ctx context.Context, storeID int32, now time.Time) (*Ranked, error) {
	var (
		products      []*store.Product
		recentOrders  []*store.Order
		priorOrders   []*store.Order
		unshipped     []*store.Order
		pendingReview []*store.Review
		coupons       []*store.Coupon
		carts         []*store.AbandonedCart
		unread        []*store.Notification
	)

	week := LastNDays(7, now)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		status := store.ProductStatusPublished
		if products, err = e.reader.ListProducts(gctx, &store.FindProduct{StoreID: &storeID, Status: &status}); err != nil {
			slog.Warn("actions products read failed", "err", err)
			products = nil
		}
		return nil
	})
	g.Go(func() error {
		recentOrders = e.listOrdersBetween(gctx, storeID, week.Start, week.End, "actions recent orders")
		return nil
	})
	g.Go(func() error {
		priorOrders = e.listOrdersBetween(gctx, storeID, week.PrevStart, week.Start, "actions prior orders")
		return nil
	})
	g.Go(func() error {
		var err error
		status := store.OrderStatusPaid
		if unshipped, err = e.reader.ListOrders(gctx, &store.FindOrder{StoreID: &storeID, Status: &status}); err != nil {
			slog.Warn("actions unshipped read failed", "err", err)
			unshipped = nil
		}
		return nil
	})
	g.Go(func() error {
		var err error
		status := store.ReviewStatusPending
		if pendingReview, err = e.reader.ListReviews(gctx, &store.FindReview{StoreID: &storeID, Status: &status}); err != nil {
			slog.Warn("actions reviews read failed", "err", err)
			pendingReview = nil
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if coupons, err = e.reader.ListCoupons(gctx, &store.FindCoupon{StoreID: &storeID, ActiveOnly: true}); err != nil {
			slog.Warn("actions coupons read failed", "err", err)
			coupons = nil
		}
		return nil
	})
	g.Go(func() error {
		var err error
		recovered := false
		if carts, err = e.reader.ListAbandonedCarts(gctx, &store.FindAbandonedCart{StoreID: &storeID, Recovered: &recovered}); err != nil {
			slog.Warn("actions carts read failed", "err", err)
			carts = nil
		}
		return nil
	})
	g.Go(func() error {
		var err error
		isRead := false
		if unread, err = e.reader.ListNotifications(gctx, &store.FindNotification{StoreID: &storeID, Read: &isRead}); err != nil {
			slog.Warn("actions notifications read failed", "err", err)
			unread = nil
		}
		return nil
	})
	_ = g.Wait()

	var outOfStock, lowStock int
	for _, p := range products {
		if !p.TrackStock {
			continue
		}
		switch {
		case p.Stock == 0:
			outOfStock++
		case p.Stock <= lowStockThreshold:
			lowStock++
		}
	}

	var agedUnshipped int
	cutoff := now.Unix() - unshippedAgeLimit
	for _, o := range unshipped {
		if o.ShippedTs == 0 && o.CreatedTs < cutoff {
			agedUnshipped++
		}
	}

	var expiringSoon int
	horizon := now.Unix() + couponExpiryHorizon
	for _, c := range coupons {
		if c.ExpiresTs > now.Unix() && c.ExpiresTs <= horizon {
			expiringSoon++
		}
	}

	revenueChange := growthPct(float64(paidRevenue(recentOrders)), float64(paidRevenue(priorOrders)))

	var insights []Insight
	if outOfStock > 0 {
		insights = append(insights, Insight{
			Priority:        PriorityCritical,
			Category:        "inventory",
			Title:           fmt.Sprintf("%d products out of stock", outOfStock),
			Detail:          "Published products with zero stock cannot be purchased.",
			SuggestedAction: "Restock or unpublish them.",
		})
	}
	if agedUnshipped > 0 {
		insights = append(insights, Insight{
			Priority:        PriorityCritical,
			Category:        "orders",
			Title:           fmt.Sprintf("%d paid orders unshipped for over 48 hours", agedUnshipped),
			Detail:          "Delayed fulfillment drives refund requests and bad reviews.",
			SuggestedAction: "Ship the oldest orders first.",
		})
	}
	if revenueChange < revenueDropAlertPct {
		insights = append(insights, Insight{
			Priority:        PriorityHigh,
			Category:        "revenue",
			Title:           fmt.Sprintf("Revenue down %.1f%% week over week", -revenueChange),
			Detail:          "This week's revenue fell more than 10% below the prior week.",
			SuggestedAction: "Review traffic and top-product availability.",
		})
	}
	if lowStock > 0 {
		insights = append(insights, Insight{
			Priority:        PriorityHigh,
			Category:        "inventory",
			Title:           fmt.Sprintf("%d products low on stock", lowStock),
			Detail:          fmt.Sprintf("Tracked products at or below %d units.", lowStockThreshold),
			SuggestedAction: "Reorder before they stock out.",
		})
	}
	if len(pendingReview) > 0 {
		insights = append(insights, Insight{
			Priority:        PriorityMedium,
			Category:        "reviews",
			Title:           fmt.Sprintf("%d reviews awaiting moderation", len(pendingReview)),
			Detail:          "Unmoderated reviews are invisible to shoppers.",
			SuggestedAction: "Approve or reject them.",
		})
	}
	if expiringSoon > 0 {
		insights = append(insights, Insight{
			Priority:        PriorityMedium,
			Category:        "marketing",
			Title:           fmt.Sprintf("%d coupons expire within 3 days", expiringSoon),
			Detail:          "Active coupons are about to lapse.",
			SuggestedAction: "Extend them or announce a last-chance push.",
		})
	}
	if len(carts) >= abandonedCartAlertMin {
		insights = append(insights, Insight{
			Priority:        PriorityMedium,
			Category:        "marketing",
			Title:           fmt.Sprintf("%d abandoned carts unrecovered", len(carts)),
			Detail:          "Checkouts were started but never paid.",
			SuggestedAction: "Send a recovery reminder, optionally with a coupon.",
		})
	}
	if revenueChange > revenueGrowthCheerPct {
		insights = append(insights, Insight{
			Priority:        PriorityLow,
			Category:        "revenue",
			Title:           fmt.Sprintf("Revenue up %.1f%% week over week", revenueChange),
			Detail:          "This week's revenue grew more than 20% over the prior week.",
			SuggestedAction: "Check stock on best sellers to sustain it.",
		})
	}
	if len(unread) >= unreadBacklogAlertMin {
		insights = append(insights, Insight{
			Priority:        PriorityLow,
			Category:        "notifications",
			Title:           fmt.Sprintf("%d unread notifications", len(unread)),
			Detail:          "The notification backlog is piling up.",
			SuggestedAction: "Clear the dashboard inbox.",
		})
	}

	ranked := Rank(insights)
	return &ranked, nil
}
