package insights

import (
	"context"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/vendora/vendora/store"
)

// CustomerSpend is one row of the top-customers ranking. Spend is the
// customer's lifetime value approximated as total paid spend in the window.
type CustomerSpend struct {
	CustomerID int32  `json:"customerId"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Spend      int64  `json:"spend"`
	Orders     int    `json:"orders"`
}

// Segments buckets customers by spend against the window average.
type Segments struct {
	High int `json:"high"` // spend >= 2x average
	Mid  int `json:"mid"`
	Low  int `json:"low"` // spend < 0.5x average
}

// RegionCount is a geographic distribution row.
type RegionCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// CustomerInsight is the customer behaviour report.
type CustomerInsight struct {
	Window           Window          `json:"window"`
	RepeatRatePct    float64         `json:"repeatRatePct"`
	TopCustomers     []CustomerSpend `json:"topCustomers"`
	Segments         Segments        `json:"segments"`
	TopStates        []RegionCount   `json:"topStates"`
	TopCities        []RegionCount   `json:"topCities"`
	CartRecoveryPct  float64         `json:"cartRecoveryPct"`
	AbandonedCarts   int             `json:"abandonedCarts"`
	RecoveredCarts   int             `json:"recoveredCarts"`
	ActiveCustomers  int             `json:"activeCustomers"`
	RepeatCustomers  int             `json:"repeatCustomers"`
}

// Customers computes the customer behaviour report for the window. Customer
// identity is always the order's CustomerID.
func (e *Engine) Customers(ctx context.Context, storeID int32, w Window) (*CustomerInsight, error) {
	var (
		orders    []*store.Order
		customers []*store.Customer
		carts     []*store.AbandonedCart
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		orders = e.listOrdersBetween(gctx, storeID, w.Start, w.End, "customers orders")
		return nil
	})
	g.Go(func() error {
		var err error
		if customers, err = e.reader.ListCustomers(gctx, &store.FindCustomer{StoreID: &storeID}); err != nil {
			slog.Warn("customers read failed", "err", err)
			customers = nil
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if carts, err = e.reader.ListAbandonedCarts(gctx, &store.FindAbandonedCart{
			StoreID: &storeID, CreatedAfter: &w.Start, CreatedBefore: &w.End,
		}); err != nil {
			slog.Warn("abandoned carts read failed", "err", err)
			carts = nil
		}
		return nil
	})
	_ = g.Wait()

	customerByID := map[int32]*store.Customer{}
	for _, c := range customers {
		customerByID[c.ID] = c
	}

	spendByCustomer := map[int32]*CustomerSpend{}
	for _, o := range paidOrders(orders) {
		row, ok := spendByCustomer[o.CustomerID]
		if !ok {
			row = &CustomerSpend{CustomerID: o.CustomerID}
			if c := customerByID[o.CustomerID]; c != nil {
				row.Name, row.Email = c.Name, c.Email
			}
			spendByCustomer[o.CustomerID] = row
		}
		row.Spend += o.Total
		row.Orders++
	}

	ci := &CustomerInsight{Window: w, ActiveCustomers: len(spendByCustomer)}

	for _, row := range spendByCustomer {
		if row.Orders >= 2 {
			ci.RepeatCustomers++
		}
	}
	if ci.ActiveCustomers > 0 {
		ci.RepeatRatePct = float64(ci.RepeatCustomers) / float64(ci.ActiveCustomers) * 100
	}

	ranked := make([]CustomerSpend, 0, len(spendByCustomer))
	var totalSpend int64
	for _, row := range spendByCustomer {
		ranked = append(ranked, *row)
		totalSpend += row.Spend
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Spend != ranked[j].Spend {
			return ranked[i].Spend > ranked[j].Spend
		}
		return ranked[i].CustomerID < ranked[j].CustomerID
	})
	top := ranked
	if len(top) > 10 {
		top = top[:10]
	}
	ci.TopCustomers = top

	if len(ranked) > 0 {
		avg := float64(totalSpend) / float64(len(ranked))
		for _, row := range ranked {
			switch {
			case float64(row.Spend) >= avg*2:
				ci.Segments.High++
			case float64(row.Spend) < avg*0.5:
				ci.Segments.Low++
			default:
				ci.Segments.Mid++
			}
		}
	}

	states, cities := map[string]int{}, map[string]int{}
	for id := range spendByCustomer {
		c := customerByID[id]
		if c == nil {
			continue
		}
		if c.State != "" {
			states[c.State]++
		}
		if c.City != "" {
			cities[c.City]++
		}
	}
	ci.TopStates = topRegions(states, 5)
	ci.TopCities = topRegions(cities, 5)

	ci.AbandonedCarts = len(carts)
	for _, c := range carts {
		if c.Recovered {
			ci.RecoveredCarts++
		}
	}
	if ci.AbandonedCarts > 0 {
		ci.CartRecoveryPct = float64(ci.RecoveredCarts) / float64(ci.AbandonedCarts) * 100
	}

	return ci, nil
}

func topRegions(counts map[string]int, n int) []RegionCount {
	ranked := make([]RegionCount, 0, len(counts))
	for name, count := range counts {
		ranked = append(ranked, RegionCount{Name: name, Count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Name < ranked[j].Name
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
