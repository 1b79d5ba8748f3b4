package insights

import (
	"context"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/vendora/vendora/store"
)

// maxWeeklyBuckets caps the revenue series length.
const maxWeeklyBuckets = 13

// ChannelRevenue is revenue grouped by payment method.
type ChannelRevenue struct {
	Channel string `json:"channel"`
	Revenue int64  `json:"revenue"`
	Orders  int    `json:"orders"`
}

// CategoryRevenue is revenue grouped by product category.
type CategoryRevenue struct {
	Category string `json:"category"`
	Revenue  int64  `json:"revenue"`
}

// WeekRevenue is one bucket of the weekly series.
type WeekRevenue struct {
	Start   int64 `json:"start"`
	Revenue int64 `json:"revenue"`
}

// RevenueBreakdown groups window revenue by channel, category and week.
type RevenueBreakdown struct {
	Window           Window            `json:"window"`
	Revenue          int64             `json:"revenue"`
	ByChannel        []ChannelRevenue  `json:"byChannel"`
	ByCategory       []CategoryRevenue `json:"byCategory"`
	DiscountGiven    int64             `json:"discountGiven"`
	DiscountedOrders int               `json:"discountedOrders"`
	Weekly           []WeekRevenue     `json:"weekly"`
}

// Revenue computes the revenue breakdown for the window.
func (e *Engine) Revenue(ctx context.Context, storeID int32, w Window) (*RevenueBreakdown, error) {
	var (
		orders   []*store.Order
		products []*store.Product
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		orders = e.listOrdersBetween(gctx, storeID, w.Start, w.End, "revenue orders")
		return nil
	})
	g.Go(func() error {
		var err error
		if products, err = e.reader.ListProducts(gctx, &store.FindProduct{StoreID: &storeID}); err != nil {
			slog.Warn("revenue products read failed", "err", err)
			products = nil
		}
		return nil
	})
	_ = g.Wait()

	paid := paidOrders(orders)
	b := &RevenueBreakdown{
		Window:  w,
		Revenue: paidRevenue(orders),
	}

	byChannel := map[string]*ChannelRevenue{}
	for _, o := range paid {
		channel := o.PaymentMethod
		if channel == "" {
			channel = "unknown"
		}
		row, ok := byChannel[channel]
		if !ok {
			row = &ChannelRevenue{Channel: channel}
			byChannel[channel] = row
		}
		row.Revenue += o.Total
		row.Orders++
		if o.CouponCode != "" {
			b.DiscountedOrders++
		}
		b.DiscountGiven += o.Discount
	}
	for _, row := range byChannel {
		b.ByChannel = append(b.ByChannel, *row)
	}
	sort.SliceStable(b.ByChannel, func(i, j int) bool {
		if b.ByChannel[i].Revenue != b.ByChannel[j].Revenue {
			return b.ByChannel[i].Revenue > b.ByChannel[j].Revenue
		}
		return b.ByChannel[i].Channel < b.ByChannel[j].Channel
	})

	categoryOf := map[int32]string{}
	for _, p := range products {
		categoryOf[p.ID] = p.Category
	}
	byCategory := map[string]int64{}
	for _, o := range paid {
		for _, item := range o.Items {
			category := categoryOf[item.ProductID]
			if category == "" {
				category = "uncategorized"
			}
			byCategory[category] += item.Price * int64(item.Quantity)
		}
	}
	for category, revenue := range byCategory {
		b.ByCategory = append(b.ByCategory, CategoryRevenue{Category: category, Revenue: revenue})
	}
	sort.SliceStable(b.ByCategory, func(i, j int) bool {
		if b.ByCategory[i].Revenue != b.ByCategory[j].Revenue {
			return b.ByCategory[i].Revenue > b.ByCategory[j].Revenue
		}
		return b.ByCategory[i].Category < b.ByCategory[j].Category
	})

	b.Weekly = weeklySeries(paid, w)
	return b, nil
}

// weeklySeries buckets paid-order revenue into at most maxWeeklyBuckets equal
// buckets covering the window.
func weeklySeries(paid []*store.Order, w Window) []WeekRevenue {
	span := w.End - w.Start
	if span <= 0 {
		return nil
	}
	bucketLen := int64(7 * 86400)
	buckets := int((span + bucketLen - 1) / bucketLen)
	if buckets > maxWeeklyBuckets {
		buckets = maxWeeklyBuckets
		bucketLen = (span + int64(buckets) - 1) / int64(buckets)
	}
	series := make([]WeekRevenue, buckets)
	for i := range series {
		series[i].Start = w.Start + int64(i)*bucketLen
	}
	for _, o := range paid {
		idx := int((o.CreatedTs - w.Start) / bucketLen)
		if idx < 0 || idx >= buckets {
			continue
		}
		series[idx].Revenue += o.Total
	}
	return series
}
