package insights

import (
	"context"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/vendora/vendora/store"
)

// lowStockThreshold is the on-hand quantity at or below which a tracked
// product counts as low stock.
const lowStockThreshold = 5

// ProductRevenue is one row of the top-products ranking.
type ProductRevenue struct {
	ProductID int32  `json:"productId"`
	Title     string `json:"title"`
	Revenue   int64  `json:"revenue"`
	Units     int32  `json:"units"`
}

// Overview is the composite store health report.
type Overview struct {
	Window              Window           `json:"window"`
	Revenue             int64            `json:"revenue"`
	PrevRevenue         int64            `json:"prevRevenue"`
	RevenueGrowthPct    float64          `json:"revenueGrowthPct"`
	OrderCount          int              `json:"orderCount"`
	PrevOrderCount      int              `json:"prevOrderCount"`
	OrderGrowthPct      float64          `json:"orderGrowthPct"`
	AvgOrderValue       float64          `json:"avgOrderValue"`
	TopProducts         []ProductRevenue `json:"topProducts"`
	PendingOrders       int              `json:"pendingOrders"`
	LowStock            int              `json:"lowStock"`
	OutOfStock          int              `json:"outOfStock"`
	NewCustomers        int              `json:"newCustomers"`
	ReturningCustomers  int              `json:"returningCustomers"`
	AvgFulfillmentHours float64          `json:"avgFulfillmentHours"`
}

// Overview computes the composite report for the window. Underlying reads run
// concurrently; a failed read degrades its derived values to zeros rather
// than failing the report.
func (e *Engine) Overview(ctx context.Context, storeID int32, w Window) (*Overview, error) {
	var (
		current  []*store.Order
		previous []*store.Order
		earlier  []*store.Order
		products []*store.Product
		pending  []*store.Order
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		current = e.listOrdersBetween(gctx, storeID, w.Start, w.End, "overview current orders")
		return nil
	})
	g.Go(func() error {
		previous = e.listOrdersBetween(gctx, storeID, w.PrevStart, w.Start, "overview previous orders")
		return nil
	})
	g.Go(func() error {
		// Everything before the window, to tell new customers from returning.
		earlier = e.listOrdersBetween(gctx, storeID, 0, w.Start, "overview earlier orders")
		return nil
	})
	g.Go(func() error {
		var err error
		if products, err = e.reader.ListProducts(gctx, &store.FindProduct{StoreID: &storeID}); err != nil {
			slog.Warn("overview products read failed", "err", err)
			products = nil
		}
		return nil
	})
	g.Go(func() error {
		var err error
		status := store.OrderStatusPending
		if pending, err = e.reader.ListOrders(gctx, &store.FindOrder{StoreID: &storeID, Status: &status}); err != nil {
			slog.Warn("overview pending orders read failed", "err", err)
			pending = nil
		}
		return nil
	})
	_ = g.Wait()

	paid := paidOrders(current)
	prevPaid := paidOrders(previous)
	revenue := paidRevenue(current)
	prevRevenue := paidRevenue(previous)

	o := &Overview{
		Window:           w,
		Revenue:          revenue,
		PrevRevenue:      prevRevenue,
		RevenueGrowthPct: growthPct(float64(revenue), float64(prevRevenue)),
		OrderCount:       len(paid),
		PrevOrderCount:   len(prevPaid),
		OrderGrowthPct:   growthPct(float64(len(paid)), float64(len(prevPaid))),
		PendingOrders:    len(pending),
		TopProducts:      topProductsByRevenue(paid, 5),
	}
	if len(paid) > 0 {
		o.AvgOrderValue = float64(revenue) / float64(len(paid))
	}

	for _, p := range products {
		if !p.TrackStock || p.Status != store.ProductStatusPublished {
			continue
		}
		switch {
		case p.Stock == 0:
			o.OutOfStock++
		case p.Stock <= lowStockThreshold:
			o.LowStock++
		}
	}

	// Only revenue-counting history makes a customer returning; a cancelled
	// order is not a prior purchase.
	seenBefore := map[int32]bool{}
	for _, ord := range paidOrders(earlier) {
		seenBefore[ord.CustomerID] = true
	}
	inWindow := map[int32]bool{}
	for _, ord := range current {
		if inWindow[ord.CustomerID] {
			continue
		}
		inWindow[ord.CustomerID] = true
		if seenBefore[ord.CustomerID] {
			o.ReturningCustomers++
		} else {
			o.NewCustomers++
		}
	}

	var shipped, latency int64
	for _, ord := range current {
		if ord.ShippedTs > ord.CreatedTs {
			shipped++
			latency += ord.ShippedTs - ord.CreatedTs
		}
	}
	if shipped > 0 {
		o.AvgFulfillmentHours = float64(latency) / float64(shipped) / 3600
	}

	return o, nil
}

// listOrdersBetween reads orders in [after, before), degrading to nil on
// failure. A zero bound is omitted.
func (e *Engine) listOrdersBetween(ctx context.Context, storeID int32, after, before int64, what string) []*store.Order {
	find := &store.FindOrder{StoreID: &storeID}
	if after > 0 {
		find.CreatedAfter = &after
	}
	if before > 0 {
		find.CreatedBefore = &before
	}
	orders, err := e.reader.ListOrders(ctx, find)
	if err != nil {
		slog.Warn("read failed", "what", what, "err", err)
		return nil
	}
	return orders
}

// topProductsByRevenue ranks line items across orders by revenue.
func topProductsByRevenue(orders []*store.Order, n int) []ProductRevenue {
	byProduct := map[int32]*ProductRevenue{}
	for _, o := range orders {
		for _, item := range o.Items {
			row, ok := byProduct[item.ProductID]
			if !ok {
				row = &ProductRevenue{ProductID: item.ProductID, Title: item.Title}
				byProduct[item.ProductID] = row
			}
			row.Revenue += item.Price * int64(item.Quantity)
			row.Units += item.Quantity
		}
	}
	ranked := make([]ProductRevenue, 0, len(byProduct))
	for _, row := range byProduct {
		ranked = append(ranked, *row)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Revenue != ranked[j].Revenue {
			return ranked[i].Revenue > ranked[j].Revenue
		}
		return ranked[i].ProductID < ranked[j].ProductID
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
