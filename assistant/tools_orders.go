package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/tmc/langchaingo/tools"

	"github.com/vendora/vendora/store"
)

// validOrderTransitions lists the allowed next statuses per current status.
var validOrderTransitions = map[string][]string{
	store.OrderStatusPending:   {store.OrderStatusPaid, store.OrderStatusCancelled},
	store.OrderStatusPaid:      {store.OrderStatusShipped, store.OrderStatusCancelled, store.OrderStatusRefunded},
	store.OrderStatusShipped:   {store.OrderStatusDelivered, store.OrderStatusRefunded},
	store.OrderStatusDelivered: {store.OrderStatusRefunded},
}

func orderTransitionAllowed(from, to string) bool {
	for _, s := range validOrderTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// ─────────────────────────────────────────────────────────────────────────────
// Helper: GetOrders tool
// ─────────────────────────────────────────────────────────────────────────────

type getOrdersTool struct {
	store *store.Store
}

func newGetOrdersTool(st *store.Store) tools.Tool {
	return &getOrdersTool{store: st}
}

func (t *getOrdersTool) Name() string { return "get_orders" }
func (t *getOrdersTool) Description() string {
	return "List orders, newest first. Input is a JSON string with optional keys `status` (pending|paid|shipped|delivered|cancelled|refunded), `days` (number, only orders from the last N days), `limit` (number)."
}
func (t *getOrdersTool) Call(ctx context.Context, input string) (string, error) {
	slog.Info("[AGENT TOOL CALL]", "tool", t.Name(), "input", input)
	var payload struct {
		Status string `json:"status"`
		Days   int    `json:"days"`
		Limit  int    `json:"limit"`
	}
	if input != "" {
		if err := json.Unmarshal([]byte(input), &payload); err != nil {
			return "Error: failed to parse input JSON.", nil
		}
	}

	storeID := StoreIDFromContext(ctx)
	find := &store.FindOrder{StoreID: &storeID}
	if payload.Status != "" {
		find.Status = &payload.Status
	}
	if payload.Days > 0 {
		after := time.Now().AddDate(0, 0, -payload.Days).Unix()
		find.CreatedAfter = &after
	}
	limit := payload.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	find.Limit = &limit

	orders, err := t.store.ListOrders(ctx, find)
	if err != nil {
		return "Error: " + err.Error(), nil
	}
	if len(orders) == 0 {
		return "No orders found.", nil
	}
	out, err := json.Marshal(orders)
	if err != nil {
		return "Error: " + err.Error(), nil
	}
	return string(out), nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Helper: GetOrder tool
// ─────────────────────────────────────────────────────────────────────────────

type getOrderTool struct {
	store *store.Store
}

func newGetOrderTool(st *store.Store) tools.Tool {
	return &getOrderTool{store: st}
}

func (t *getOrderTool) Name() string { return "get_order" }
func (t *getOrderTool) Description() string {
	return "Fetch a single order with its line items. Input is a JSON string with key `id` (number)."
}
func (t *getOrderTool) Call(ctx context.Context, input string) (string, error) {
	slog.Info("[AGENT TOOL CALL]", "tool", t.Name(), "input", input)
	var payload struct {
		ID int32 `json:"id"`
	}
	if err := json.Unmarshal([]byte(input), &payload); err != nil {
		return "Error: failed to parse input JSON.", nil
	}
	if payload.ID == 0 {
		return "Error: id is required.", nil
	}

	storeID := StoreIDFromContext(ctx)
	o, err := t.store.GetOrder(ctx, &store.FindOrder{StoreID: &storeID, ID: &payload.ID})
	if err != nil {
		return "Error: " + err.Error(), nil
	}
	if o == nil {
		return "Error: order not found.", nil
	}
	out, err := json.Marshal(o)
	if err != nil {
		return "Error: " + err.Error(), nil
	}
	return string(out), nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Helper: UpdateOrderStatus tool
// ─────────────────────────────────────────────────────────────────────────────

type updateOrderStatusTool struct {
	store *store.Store
}

func newUpdateOrderStatusTool(st *store.Store) tools.Tool {
	return &updateOrderStatusTool{store: st}
}

func (t *updateOrderStatusTool) Name() string { return "update_order_status" }
func (t *updateOrderStatusTool) Description() string {
	return "Move an order to a new status. Input is a JSON string with keys `id` (number) and `status` (paid|shipped|delivered|cancelled|refunded)."
}
func (t *updateOrderStatusTool) Call(ctx context.Context, input string) (string, error) {
	slog.Info("[AGENT TOOL CALL]", "tool", t.Name(), "input", input)
	var payload struct {
		ID     int32  `json:"id"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal([]byte(input), &payload); err != nil {
		return "Error: failed to parse input JSON.", nil
	}
	if payload.ID == 0 || payload.Status == "" {
		return "Error: id and status are required.", nil
	}

	storeID := StoreIDFromContext(ctx)
	o, err := t.store.GetOrder(ctx, &store.FindOrder{StoreID: &storeID, ID: &payload.ID})
	if err != nil {
		return "Error: " + err.Error(), nil
	}
	if o == nil {
		return "Error: order not found.", nil
	}
	if !orderTransitionAllowed(o.Status, payload.Status) {
		return fmt.Sprintf("Error: cannot move order from %s to %s.", o.Status, payload.Status), nil
	}

	update := &store.UpdateOrder{ID: payload.ID, StoreID: storeID, Status: &payload.Status}
	if payload.Status == store.OrderStatusShipped {
		now := time.Now().Unix()
		update.ShippedTs = &now
	}
	if _, err := t.store.UpdateOrder(ctx, update); err != nil {
		return "Error: " + err.Error(), nil
	}
	return fmt.Sprintf("Order %d moved from %s to %s.", payload.ID, o.Status, payload.Status), nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Helper: RefundOrder tool
// ─────────────────────────────────────────────────────────────────────────────

type refundOrderTool struct {
	store *store.Store
}

func newRefundOrderTool(st *store.Store) tools.Tool {
	return &refundOrderTool{store: st}
}

func (t *refundOrderTool) Name() string { return "refund_order" }
func (t *refundOrderTool) Description() string {
	return "Refund a paid order and restock its items. Input is a JSON string with key `id` (number) and optional `reason` (string)."
}
func (t *refundOrderTool) Call(ctx context.Context, input string) (string, error) {
	slog.Info("[AGENT TOOL CALL]", "tool", t.Name(), "input", input)
	var payload struct {
		ID     int32  `json:"id"`
		Reason string `json:"reason"`
	}
	if err := json.Unmarshal([]byte(input), &payload); err != nil {
		return "Error: failed to parse input JSON.", nil
	}
	if payload.ID == 0 {
		return "Error: id is required.", nil
	}

	storeID := StoreIDFromContext(ctx)
	o, err := t.store.GetOrder(ctx, &store.FindOrder{StoreID: &storeID, ID: &payload.ID})
	if err != nil {
		return "Error: " + err.Error(), nil
	}
	if o == nil {
		return "Error: order not found.", nil
	}
	if !store.IsPaidStatus(o.Status) {
		return fmt.Sprintf("Error: only paid orders can be refunded, order is %s.", o.Status), nil
	}

	status := store.OrderStatusRefunded
	if _, err := t.store.UpdateOrder(ctx, &store.UpdateOrder{ID: payload.ID, StoreID: storeID, Status: &status}); err != nil {
		return "Error: " + err.Error(), nil
	}

	// Return the refunded units to stock.
	for _, item := range o.Items {
		pid := item.ProductID
		p, err := t.store.GetProduct(ctx, &store.FindProduct{StoreID: &storeID, ID: &pid})
		if err != nil || p == nil || !p.TrackStock {
			continue
		}
		restocked := p.Stock + item.Quantity
		if _, err := t.store.UpdateProduct(ctx, &store.UpdateProduct{ID: p.ID, StoreID: storeID, Stock: &restocked}); err != nil {
			slog.Warn("restock after refund failed", "product", p.ID, "err", err)
		}
	}
	return fmt.Sprintf("Order %d refunded (%d to be returned to the customer).", o.ID, o.Total), nil
}
