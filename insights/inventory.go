package insights

import (
	"context"
	"log/slog"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/vendora/vendora/store"
)

const (
	// velocityWindowDays is the trailing window velocity is averaged over.
	velocityWindowDays = 30

	// reorderHorizonDays: a product that will stock out within this many
	// days needs a reorder.
	reorderHorizonDays = 14

	// defaultLeadTimeDays is assumed when a product has no lead time set.
	defaultLeadTimeDays = 14

	// reorderSafetyFactor pads the suggested reorder quantity.
	reorderSafetyFactor = 1.5
)

// ProductHealth is the per-product inventory picture.
type ProductHealth struct {
	ProductID         int32    `json:"productId"`
	Title             string   `json:"title"`
	Stock             int32    `json:"stock"`
	UnitsSold30d      int32    `json:"unitsSold30d"`
	DailyVelocity     float64  `json:"dailyVelocity"`
	DaysUntilStockout *float64 `json:"daysUntilStockout"` // nil when velocity is zero
	NeedsReorder      bool     `json:"needsReorder"`
	SuggestedReorder  int32    `json:"suggestedReorder"`
	DeadStock         bool     `json:"deadStock"`
}

// InventoryHealth is the stock report.
type InventoryHealth struct {
	Window       Window          `json:"window"`
	OutOfStock   []ProductHealth `json:"outOfStock"`
	DeadStock    []ProductHealth `json:"deadStock"`
	NeedsReorder []ProductHealth `json:"needsReorder"`
	BestSellers  []ProductHealth `json:"bestSellers"`
}

// Inventory computes stock health. Velocity is averaged over the trailing 30
// days ending at the window end; only published, stock-tracked products are
// considered.
func (e *Engine) Inventory(ctx context.Context, storeID int32, w Window) (*InventoryHealth, error) {
	var (
		products []*store.Product
		orders   []*store.Order
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		status := store.ProductStatusPublished
		if products, err = e.reader.ListProducts(gctx, &store.FindProduct{StoreID: &storeID, Status: &status}); err != nil {
			slog.Warn("inventory products read failed", "err", err)
			products = nil
		}
		return nil
	})
	g.Go(func() error {
		velocityStart := w.End - velocityWindowDays*86400
		orders = e.listOrdersBetween(gctx, storeID, velocityStart, w.End, "inventory orders")
		return nil
	})
	_ = g.Wait()

	unitsSold := map[int32]int32{}
	for _, o := range paidOrders(orders) {
		for _, item := range o.Items {
			unitsSold[item.ProductID] += item.Quantity
		}
	}

	report := &InventoryHealth{Window: w}
	for _, p := range products {
		if !p.TrackStock {
			continue
		}
		h := ProductHealth{
			ProductID:    p.ID,
			Title:        p.Title,
			Stock:        p.Stock,
			UnitsSold30d: unitsSold[p.ID],
		}
		h.DailyVelocity = float64(h.UnitsSold30d) / velocityWindowDays
		if h.DailyVelocity > 0 {
			days := float64(p.Stock) / h.DailyVelocity
			h.DaysUntilStockout = &days
			h.NeedsReorder = days <= reorderHorizonDays
			leadTime := float64(p.LeadTimeDays)
			if leadTime == 0 {
				leadTime = defaultLeadTimeDays
			}
			h.SuggestedReorder = int32(math.Ceil(h.DailyVelocity * leadTime * reorderSafetyFactor))
		}
		h.DeadStock = p.Stock > 0 && h.UnitsSold30d == 0

		switch {
		case p.Stock == 0:
			report.OutOfStock = append(report.OutOfStock, h)
		case h.DeadStock:
			report.DeadStock = append(report.DeadStock, h)
		}
		if h.NeedsReorder && p.Stock > 0 {
			report.NeedsReorder = append(report.NeedsReorder, h)
		}
		if h.DailyVelocity > 0 {
			report.BestSellers = append(report.BestSellers, h)
		}
	}

	// Soonest stockout first.
	sort.Slice(report.NeedsReorder, func(i, j int) bool {
		return *report.NeedsReorder[i].DaysUntilStockout < *report.NeedsReorder[j].DaysUntilStockout
	})
	sort.Slice(report.BestSellers, func(i, j int) bool {
		return report.BestSellers[i].DailyVelocity > report.BestSellers[j].DailyVelocity
	})
	if len(report.BestSellers) > 10 {
		report.BestSellers = report.BestSellers[:10]
	}
	sort.Slice(report.OutOfStock, func(i, j int) bool {
		return report.OutOfStock[i].DailyVelocity > report.OutOfStock[j].DailyVelocity
	})
	sort.Slice(report.DeadStock, func(i, j int) bool {
		return report.DeadStock[i].Stock > report.DeadStock[j].Stock
	})

	return report, nil
}
