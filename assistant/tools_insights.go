package assistant

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/tmc/langchaingo/tools"

	"github.com/vendora/vendora/insights"
)

const defaultInsightDays = 30

// insightTool wraps one insights.Engine computation. All six analytics tools
// share the same shape: optional `days` in, JSON report out.
type insightTool struct {
	name        string
	description string
	run         func(ctx context.Context, storeID int32, w insights.Window) (any, error)
}

func (t *insightTool) Name() string        { return t.name }
func (t *insightTool) Description() string { return t.description }
func (t *insightTool) Call(ctx context.Context, input string) (string, error) {
	slog.Info("[AGENT TOOL CALL]", "tool", t.Name(), "input", input)
	var payload struct {
		Days int `json:"days"`
	}
	if input != "" {
		if err := json.Unmarshal([]byte(input), &payload); err != nil {
			return "Error: failed to parse input JSON.", nil
		}
	}
	days := payload.Days
	if days <= 0 {
		days = defaultInsightDays
	}

	storeID := StoreIDFromContext(ctx)
	report, err := t.run(ctx, storeID, insights.LastNDays(days, time.Now()))
	if err != nil {
		return "Error: " + err.Error(), nil
	}
	out, err := json.Marshal(report)
	if err != nil {
		return "Error: " + err.Error(), nil
	}
	return string(out), nil
}

func newStoreOverviewTool(eng *insights.Engine) tools.Tool {
	return &insightTool{
		name:        "get_store_overview",
		description: "Store health snapshot: revenue and order growth, average order value, top products, fulfillment speed, customer mix. Input is a JSON string with optional key `days` (number, default 30).",
		run: func(ctx context.Context, storeID int32, w insights.Window) (any, error) {
			return eng.Overview(ctx, storeID, w)
		},
	}
}

func newRevenueBreakdownTool(eng *insights.Engine) tools.Tool {
	return &insightTool{
		name:        "get_revenue_breakdown",
		description: "Revenue split by payment method, category and week, plus discount totals. Input is a JSON string with optional key `days` (number, default 30).",
		run: func(ctx context.Context, storeID int32, w insights.Window) (any, error) {
			return eng.Revenue(ctx, storeID, w)
		},
	}
}

func newCustomerInsightsTool(eng *insights.Engine) tools.Tool {
	return &insightTool{
		name:        "get_customer_insights",
		description: "Customer analytics: repeat rate, top spenders, spend segments, regions, cart recovery. Input is a JSON string with optional key `days` (number, default 30).",
		run: func(ctx context.Context, storeID int32, w insights.Window) (any, error) {
			return eng.Customers(ctx, storeID, w)
		},
	}
}

func newInventoryHealthTool(eng *insights.Engine) tools.Tool {
	return &insightTool{
		name:        "get_inventory_health",
		description: "Inventory analytics: out-of-stock and dead stock, reorder suggestions with days-until-stockout, best sellers by sales velocity. Input is a JSON string with optional key `days` (number, default 30).",
		run: func(ctx context.Context, storeID int32, w insights.Window) (any, error) {
			return eng.Inventory(ctx, storeID, w)
		},
	}
}

func newMarketingInsightsTool(eng *insights.Engine) tools.Tool {
	return &insightTool{
		name:        "get_marketing_insights",
		description: "Marketing analytics: coupon redemption and ROI, expiring coupons, abandoned cart recovery, products worth featuring. Input is a JSON string with optional key `days` (number, default 30).",
		run: func(ctx context.Context, storeID int32, w insights.Window) (any, error) {
			return eng.Marketing(ctx, storeID, w)
		},
	}
}

func newActionableInsightsTool(eng *insights.Engine) tools.Tool {
	return &insightTool{
		name:        "get_actionable_insights",
		description: "Prioritized list of things needing attention right now: stockouts, late shipments, revenue dips, pending reviews, expiring coupons. No parameters needed.",
		run: func(ctx context.Context, storeID int32, _ insights.Window) (any, error) {
			return eng.Actions(ctx, storeID, time.Now())
		},
	}
}
