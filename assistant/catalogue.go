package assistant

import (
	"fmt"

	"github.com/vendora/vendora/insights"
	"github.com/vendora/vendora/plugin/productindex"
	"github.com/vendora/vendora/store"
)

// Catalogue builds the full tool set and registers it. Called once at startup;
// the registry is immutable afterwards.
func Catalogue(reg *Registry, st *store.Store, eng *insights.Engine, idx *productindex.Index) {
	for _, def := range catalogueDefs(st, eng, idx) {
		reg.MustRegister(def)
	}
}

func catalogueDefs(st *store.Store, eng *insights.Engine, idx *productindex.Index) []*Definition {
	return []*Definition{
		// products
		{
			Name:        "get_products",
			Description: "List products, optionally filtered by status, category or stock.",
			Effect:      EffectRead,
			Schema: Schema{Properties: map[string]Property{
				"status":        {Type: "string", Description: "Filter by status.", Enum: []any{"draft", "published", "archived"}},
				"category":      {Type: "string", Description: "Filter by category."},
				"in_stock_only": {Type: "boolean", Description: "Only products with stock > 0."},
				"limit":         {Type: "number", Description: "Max rows to return (default 20)."},
			}},
			Tool: newGetProductsTool(st),
		},
		{
			Name:        "get_product",
			Description: "Fetch a single product by id or SKU.",
			Effect:      EffectRead,
			Schema: Schema{Properties: map[string]Property{
				"id":  {Type: "number", Description: "Product id."},
				"sku": {Type: "string", Description: "Product SKU."},
			}},
			Tool: newGetProductTool(st),
		},
		{
			Name:        "search_products",
			Description: "Search the catalogue semantically for products matching a concept.",
			Effect:      EffectRead,
			Schema: Schema{
				Required: []string{"query"},
				Properties: map[string]Property{
					"query": {Type: "string", Description: "What to look for, e.g. 'warm winter jackets'."},
					"limit": {Type: "number", Description: "Max hits to return (default 5)."},
				},
			},
			Tool: newSearchProductsTool(idx, st),
		},
		{
			Name:        "create_product",
			Description: "Create a new product.",
			Effect:      EffectWrite,
			Schema: Schema{
				Required: []string{"title", "price"},
				Properties: map[string]Property{
					"title":          {Type: "string", Description: "Product title."},
					"price":          {Type: "number", Description: "Price in the smallest currency unit."},
					"description":    {Type: "string", Description: "Product description."},
					"category":       {Type: "string", Description: "Category name."},
					"tags":           {Type: "string", Description: "Space-separated hashtags, e.g. '#sale #summer'."},
					"sku":            {Type: "string", Description: "Stock keeping unit."},
					"stock":          {Type: "number", Description: "Initial stock level."},
					"status":         {Type: "string", Description: "Initial status (default draft).", Enum: []any{"draft", "published"}},
					"lead_time_days": {Type: "number", Description: "Supplier lead time in days."},
				},
			},
			Tool: newCreateProductTool(st, idx),
		},
		{
			Name:        "update_product",
			Description: "Update fields of an existing product.",
			Effect:      EffectWrite,
			Schema: Schema{
				Required: []string{"id"},
				Properties: map[string]Property{
					"id":             {Type: "number", Description: "Product id."},
					"title":          {Type: "string", Description: "New title."},
					"description":    {Type: "string", Description: "New description."},
					"category":       {Type: "string", Description: "New category."},
					"tags":           {Type: "string", Description: "New hashtags."},
					"price":          {Type: "number", Description: "New price in the smallest currency unit."},
					"status":         {Type: "string", Description: "New status.", Enum: []any{"draft", "published", "archived"}},
					"lead_time_days": {Type: "number", Description: "New supplier lead time in days."},
				},
			},
			Tool: newUpdateProductTool(st, idx),
		},
		{
			Name:        "update_stock",
			Description: "Set the stock level of a product.",
			Effect:      EffectWrite,
			Schema: Schema{
				Required: []string{"id", "stock"},
				Properties: map[string]Property{
					"id":    {Type: "number", Description: "Product id."},
					"stock": {Type: "number", Description: "New stock level."},
				},
			},
			Tool: newUpdateStockTool(st),
		},
		{
			Name:        "feature_product",
			Description: "Feature or unfeature a product on the storefront.",
			Effect:      EffectWrite,
			Schema: Schema{
				Required: []string{"id", "featured"},
				Properties: map[string]Property{
					"id":       {Type: "number", Description: "Product id."},
					"featured": {Type: "boolean", Description: "Whether the product is featured."},
				},
			},
			Tool: newFeatureProductTool(st),
		},
		{
			Name:        "delete_product",
			Description: "Permanently delete a product.",
			Effect:      EffectDestructive,
			Schema: Schema{
				Required: []string{"id"},
				Properties: map[string]Property{
					"id": {Type: "number", Description: "Product id."},
				},
			},
			Confirm: func(args map[string]any) *ConfirmSpec {
				return &ConfirmSpec{
					Type:        ActionDelete,
					Title:       "Delete product",
					Description: fmt.Sprintf("Permanently delete product %v. This cannot be undone.", args["id"]),
				}
			},
			Tool: newDeleteProductTool(st, idx),
		},
		{
			Name:        "bulk_delete_products",
			Description: "Permanently delete several products at once.",
			Effect:      EffectDestructive,
			Schema: Schema{
				Required: []string{"ids"},
				Properties: map[string]Property{
					"ids": {Type: "array", Description: "Product ids to delete.", Items: map[string]any{"type": "number"}},
				},
			},
			Confirm: func(args map[string]any) *ConfirmSpec {
				n := 0
				if ids, ok := args["ids"].([]any); ok {
					n = len(ids)
				}
				return &ConfirmSpec{
					Type:        ActionBulkDelete,
					Title:       "Delete multiple products",
					Description: fmt.Sprintf("Permanently delete %d products. This cannot be undone.", n),
				}
			},
			Tool: newBulkDeleteProductsTool(st, idx),
		},

		// orders
		{
			Name:        "get_orders",
			Description: "List orders, newest first.",
			Effect:      EffectRead,
			Schema: Schema{Properties: map[string]Property{
				"status": {Type: "string", Description: "Filter by status.", Enum: []any{"pending", "paid", "shipped", "delivered", "cancelled", "refunded"}},
				"days":   {Type: "number", Description: "Only orders from the last N days."},
				"limit":  {Type: "number", Description: "Max rows to return (default 20)."},
			}},
			Tool: newGetOrdersTool(st),
		},
		{
			Name:        "get_order",
			Description: "Fetch a single order with its line items.",
			Effect:      EffectRead,
			Schema: Schema{
				Required: []string{"id"},
				Properties: map[string]Property{
					"id": {Type: "number", Description: "Order id."},
				},
			},
			Tool: newGetOrderTool(st),
		},
		{
			Name:        "update_order_status",
			Description: "Move an order to a new status.",
			Effect:      EffectWrite,
			Schema: Schema{
				Required: []string{"id", "status"},
				Properties: map[string]Property{
					"id":     {Type: "number", Description: "Order id."},
					"status": {Type: "string", Description: "Target status.", Enum: []any{"paid", "shipped", "delivered", "cancelled", "refunded"}},
				},
			},
			// Cancelling or refunding loses the sale; everything else is
			// routine fulfillment.
			Confirm: func(args map[string]any) *ConfirmSpec {
				status, _ := args["status"].(string)
				if status != store.OrderStatusCancelled && status != store.OrderStatusRefunded {
					return nil
				}
				return &ConfirmSpec{
					Type:        ActionStatusChange,
					Title:       "Change order status",
					Description: fmt.Sprintf("Move order %v to %s.", args["id"], status),
				}
			},
			Tool: newUpdateOrderStatusTool(st),
		},
		{
			Name:        "refund_order",
			Description: "Refund a paid order and restock its items.",
			Effect:      EffectDestructive,
			Schema: Schema{
				Required: []string{"id"},
				Properties: map[string]Property{
					"id":     {Type: "number", Description: "Order id."},
					"reason": {Type: "string", Description: "Why the order is being refunded."},
				},
			},
			Confirm: func(args map[string]any) *ConfirmSpec {
				return &ConfirmSpec{
					Type:        ActionRefund,
					Title:       "Refund order",
					Description: fmt.Sprintf("Refund order %v and return its items to stock.", args["id"]),
				}
			},
			Tool: newRefundOrderTool(st),
		},

		// coupons
		{
			Name:        "get_coupons",
			Description: "List coupons.",
			Effect:      EffectRead,
			Schema: Schema{Properties: map[string]Property{
				"active_only": {Type: "boolean", Description: "Only active coupons."},
			}},
			Tool: newGetCouponsTool(st),
		},
		{
			Name:        "create_coupon",
			Description: "Create a discount coupon.",
			Effect:      EffectWrite,
			Schema: Schema{
				Required: []string{"code", "kind", "value"},
				Properties: map[string]Property{
					"code":            {Type: "string", Description: "Coupon code, e.g. DIWALI20."},
					"kind":            {Type: "string", Description: "Discount kind.", Enum: []any{"percent", "flat"}},
					"value":           {Type: "number", Description: "Percent 1-100, or flat amount in the smallest currency unit."},
					"max_uses":        {Type: "number", Description: "Redemption cap. Omit for unlimited."},
					"expires_in_days": {Type: "number", Description: "Days until expiry. Omit for no expiry."},
				},
			},
			Tool: newCreateCouponTool(st),
		},
		{
			Name:        "deactivate_coupon",
			Description: "Deactivate a coupon so it can no longer be redeemed.",
			Effect:      EffectWrite,
			Schema: Schema{
				Required: []string{"code"},
				Properties: map[string]Property{
					"code": {Type: "string", Description: "Coupon code."},
				},
			},
			Tool: newDeactivateCouponTool(st),
		},
		{
			Name:        "delete_coupon",
			Description: "Permanently delete a coupon.",
			Effect:      EffectDestructive,
			Schema: Schema{
				Required: []string{"code"},
				Properties: map[string]Property{
					"code": {Type: "string", Description: "Coupon code."},
				},
			},
			Confirm: func(args map[string]any) *ConfirmSpec {
				return &ConfirmSpec{
					Type:        ActionDelete,
					Title:       "Delete coupon",
					Description: fmt.Sprintf("Permanently delete coupon %v.", args["code"]),
				}
			},
			Tool: newDeleteCouponTool(st),
		},

		// customers
		{
			Name:        "get_customers",
			Description: "List customers, newest first.",
			Effect:      EffectRead,
			Schema: Schema{Properties: map[string]Property{
				"limit": {Type: "number", Description: "Max rows to return (default 20)."},
			}},
			Tool: newGetCustomersTool(st),
		},
		{
			Name:        "get_customer",
			Description: "Fetch a single customer with their order history.",
			Effect:      EffectRead,
			Schema: Schema{Properties: map[string]Property{
				"id":    {Type: "number", Description: "Customer id."},
				"email": {Type: "string", Description: "Customer email."},
			}},
			Tool: newGetCustomerTool(st),
		},

		// reviews
		{
			Name:        "get_reviews",
			Description: "List product reviews.",
			Effect:      EffectRead,
			Schema: Schema{Properties: map[string]Property{
				"status":     {Type: "string", Description: "Filter by status.", Enum: []any{"pending", "approved", "rejected"}},
				"product_id": {Type: "number", Description: "Filter by product."},
			}},
			Tool: newGetReviewsTool(st),
		},
		{
			Name:        "moderate_review",
			Description: "Approve or reject a pending review.",
			Effect:      EffectWrite,
			Schema: Schema{
				Required: []string{"id", "status"},
				Properties: map[string]Property{
					"id":     {Type: "number", Description: "Review id."},
					"status": {Type: "string", Description: "Moderation decision.", Enum: []any{"approved", "rejected"}},
				},
			},
			Tool: newModerateReviewTool(st),
		},

		// analytics
		{
			Name:        "get_store_overview",
			Description: "Store health snapshot: revenue and order growth, average order value, top products, fulfillment speed, customer mix.",
			Effect:      EffectRead,
			Schema: Schema{Properties: map[string]Property{
				"days": {Type: "number", Description: "Reporting window in days (default 30)."},
			}},
			Tool: newStoreOverviewTool(eng),
		},
		{
			Name:        "get_revenue_breakdown",
			Description: "Revenue split by payment method, category and week, plus discount totals.",
			Effect:      EffectRead,
			Schema: Schema{Properties: map[string]Property{
				"days": {Type: "number", Description: "Reporting window in days (default 30)."},
			}},
			Tool: newRevenueBreakdownTool(eng),
		},
		{
			Name:        "get_customer_insights",
			Description: "Customer analytics: repeat rate, top spenders, spend segments, regions, cart recovery.",
			Effect:      EffectRead,
			Schema: Schema{Properties: map[string]Property{
				"days": {Type: "number", Description: "Reporting window in days (default 30)."},
			}},
			Tool: newCustomerInsightsTool(eng),
		},
		{
			Name:        "get_inventory_health",
			Description: "Inventory analytics: out-of-stock and dead stock, reorder suggestions, best sellers.",
			Effect:      EffectRead,
			Schema: Schema{Properties: map[string]Property{
				"days": {Type: "number", Description: "Reporting window in days (default 30)."},
			}},
			Tool: newInventoryHealthTool(eng),
		},
		{
			Name:        "get_marketing_insights",
			Description: "Marketing analytics: coupon redemption and ROI, expiring coupons, cart recovery, feature candidates.",
			Effect:      EffectRead,
			Schema: Schema{Properties: map[string]Property{
				"days": {Type: "number", Description: "Reporting window in days (default 30)."},
			}},
			Tool: newMarketingInsightsTool(eng),
		},
		{
			Name:        "get_actionable_insights",
			Description: "Prioritized list of things needing attention right now.",
			Effect:      EffectRead,
			Schema:      Schema{Properties: map[string]Property{}},
			Tool:        newActionableInsightsTool(eng),
		},
	}
}
