package assistant

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/tmc/langchaingo/tools"

	"github.com/vendora/vendora/store"
)

// ─────────────────────────────────────────────────────────────────────────────
// Helper: GetCustomers tool
// ─────────────────────────────────────────────────────────────────────────────

type getCustomersTool struct {
	store *store.Store
}

func newGetCustomersTool(st *store.Store) tools.Tool {
	return &getCustomersTool{store: st}
}

func (t *getCustomersTool) Name() string { return "get_customers" }
func (t *getCustomersTool) Description() string {
	return "List customers, newest first. Input is a JSON string with optional key `limit` (number)."
}
func (t *getCustomersTool) Call(ctx context.Context, input string) (string, error) {
	slog.Info("[AGENT TOOL CALL]", "tool", t.Name(), "input", input)
	var payload struct {
		Limit int `json:"limit"`
	}
	if input != "" {
		if err := json.Unmarshal([]byte(input), &payload); err != nil {
			return "Error: failed to parse input JSON.", nil
		}
	}

	storeID := StoreIDFromContext(ctx)
	limit := payload.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	customers, err := t.store.ListCustomers(ctx, &store.FindCustomer{StoreID: &storeID, Limit: &limit})
	if err != nil {
		return "Error: " + err.Error(), nil
	}
	if len(customers) == 0 {
		return "No customers found.", nil
	}
	out, err := json.Marshal(customers)
	if err != nil {
		return "Error: " + err.Error(), nil
	}
	return string(out), nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Helper: GetCustomer tool
// ─────────────────────────────────────────────────────────────────────────────

type getCustomerTool struct {
	store *store.Store
}

func newGetCustomerTool(st *store.Store) tools.Tool {
	return &getCustomerTool{store: st}
}

func (t *getCustomerTool) Name() string { return "get_customer" }
func (t *getCustomerTool) Description() string {
	return "Fetch a single customer with their order history. Input is a JSON string with key `id` (number) or `email` (string)."
}
func (t *getCustomerTool) Call(ctx context.Context, input string) (string, error) {
	slog.Info("[AGENT TOOL CALL]", "tool", t.Name(), "input", input)
	var payload struct {
		ID    int32  `json:"id"`
		Email string `json:"email"`
	}
	if err := json.Unmarshal([]byte(input), &payload); err != nil {
		return "Error: failed to parse input JSON.", nil
	}
	if payload.ID == 0 && payload.Email == "" {
		return "Error: either id or email is required.", nil
	}

	storeID := StoreIDFromContext(ctx)
	find := &store.FindCustomer{StoreID: &storeID}
	if payload.ID != 0 {
		find.ID = &payload.ID
	} else {
		find.Email = &payload.Email
	}
	c, err := t.store.GetCustomer(ctx, find)
	if err != nil {
		return "Error: " + err.Error(), nil
	}
	if c == nil {
		return "Error: customer not found.", nil
	}

	orders, err := t.store.ListOrders(ctx, &store.FindOrder{StoreID: &storeID, CustomerID: &c.ID})
	if err != nil {
		slog.Warn("customer order history read failed", "customer", c.ID, "err", err)
		orders = nil
	}
	out, err := json.Marshal(map[string]any{
		"customer": c,
		"orders":   orders,
	})
	if err != nil {
		return "Error: " + err.Error(), nil
	}
	return string(out), nil
}
