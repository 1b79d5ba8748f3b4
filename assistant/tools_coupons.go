package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tmc/langchaingo/tools"

	"github.com/vendora/vendora/store"
)

// ─────────────────────────────────────────────────────────────────────────────
// Helper: GetCoupons tool
// ─────────────────────────────────────────────────────────────────────────────

type getCouponsTool struct {
	store *store.Store
}

func newGetCouponsTool(st *store.Store) tools.Tool {
	return &getCouponsTool{store: st}
}

func (t *getCouponsTool) Name() string { return "get_coupons" }
func (t *getCouponsTool) Description() string {
	return "List coupons. Input is a JSON string with optional key `active_only` (bool)."
}
func (t *getCouponsTool) Call(ctx context.Context, input string) (string, error) {
	slog.Info("[AGENT TOOL CALL]", "tool", t.Name(), "input", input)
	var payload struct {
		ActiveOnly bool `json:"active_only"`
	}
	if input != "" {
		if err := json.Unmarshal([]byte(input), &payload); err != nil {
			return "Error: failed to parse input JSON.", nil
		}
	}

	storeID := StoreIDFromContext(ctx)
	coupons, err := t.store.ListCoupons(ctx, &store.FindCoupon{StoreID: &storeID, ActiveOnly: payload.ActiveOnly})
	if err != nil {
		return "Error: " + err.Error(), nil
	}
	if len(coupons) == 0 {
		return "No coupons found.", nil
	}
	out, err := json.Marshal(coupons)
	if err != nil {
		return "Error: " + err.Error(), nil
	}
	return string(out), nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Helper: CreateCoupon tool
// ─────────────────────────────────────────────────────────────────────────────

type createCouponTool struct {
	store *store.Store
}

func newCreateCouponTool(st *store.Store) tools.Tool {
	return &createCouponTool{store: st}
}

func (t *createCouponTool) Name() string { return "create_coupon" }
func (t *createCouponTool) Description() string {
	return "Create a discount coupon. Input is a JSON string with keys `code` (string), `kind` (percent|flat), `value` (number: percent 1-100, or flat amount in smallest currency unit), plus optional `max_uses` (number) and `expires_in_days` (number)."
}
func (t *createCouponTool) Call(ctx context.Context, input string) (string, error) {
	slog.Info("[AGENT TOOL CALL]", "tool", t.Name(), "input", input)
	var payload struct {
		Code          string `json:"code"`
		Kind          string `json:"kind"`
		Value         int64  `json:"value"`
		MaxUses       *int32 `json:"max_uses"`
		ExpiresInDays int    `json:"expires_in_days"`
	}
	if err := json.Unmarshal([]byte(input), &payload); err != nil {
		return "Error: failed to parse input JSON.", nil
	}
	payload.Code = strings.ToUpper(strings.TrimSpace(payload.Code))
	if payload.Code == "" {
		return "Error: code is required.", nil
	}
	switch payload.Kind {
	case store.CouponKindPercent:
		if payload.Value < 1 || payload.Value > 100 {
			return "Error: percent value must be between 1 and 100.", nil
		}
	case store.CouponKindFlat:
		if payload.Value <= 0 {
			return "Error: flat value must be positive.", nil
		}
	default:
		return "Error: kind must be percent or flat.", nil
	}

	storeID := StoreIDFromContext(ctx)
	var expiresTs int64
	if payload.ExpiresInDays > 0 {
		expiresTs = time.Now().AddDate(0, 0, payload.ExpiresInDays).Unix()
	}
	c, err := t.store.CreateCoupon(ctx, &store.Coupon{
		StoreID:   storeID,
		Code:      payload.Code,
		Kind:      payload.Kind,
		Value:     payload.Value,
		MaxUses:   payload.MaxUses,
		Active:    true,
		ExpiresTs: expiresTs,
	})
	if err != nil {
		return "Error creating coupon: " + err.Error(), nil
	}
	return fmt.Sprintf("Coupon %s created.", c.Code), nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Helper: DeactivateCoupon tool
// ─────────────────────────────────────────────────────────────────────────────

type deactivateCouponTool struct {
	store *store.Store
}

func newDeactivateCouponTool(st *store.Store) tools.Tool {
	return &deactivateCouponTool{store: st}
}

func (t *deactivateCouponTool) Name() string { return "deactivate_coupon" }
func (t *deactivateCouponTool) Description() string {
	return "Deactivate a coupon so it can no longer be redeemed. Input is a JSON string with key `code` (string)."
}
func (t *deactivateCouponTool) Call(ctx context.Context, input string) (string, error) {
	slog.Info("[AGENT TOOL CALL]", "tool", t.Name(), "input", input)
	var payload struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal([]byte(input), &payload); err != nil {
		return "Error: failed to parse input JSON.", nil
	}
	payload.Code = strings.ToUpper(strings.TrimSpace(payload.Code))
	if payload.Code == "" {
		return "Error: code is required.", nil
	}

	storeID := StoreIDFromContext(ctx)
	coupons, err := t.store.ListCoupons(ctx, &store.FindCoupon{StoreID: &storeID, Code: &payload.Code})
	if err != nil {
		return "Error: " + err.Error(), nil
	}
	if len(coupons) == 0 {
		return "Error: coupon not found.", nil
	}
	active := false
	if _, err := t.store.UpdateCoupon(ctx, &store.UpdateCoupon{ID: coupons[0].ID, StoreID: storeID, Active: &active}); err != nil {
		return "Error: " + err.Error(), nil
	}
	return fmt.Sprintf("Coupon %s deactivated.", payload.Code), nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Helper: DeleteCoupon tool
// ─────────────────────────────────────────────────────────────────────────────

type deleteCouponTool struct {
	store *store.Store
}

func newDeleteCouponTool(st *store.Store) tools.Tool {
	return &deleteCouponTool{store: st}
}

func (t *deleteCouponTool) Name() string { return "delete_coupon" }
func (t *deleteCouponTool) Description() string {
	return "Permanently delete a coupon. Input is a JSON string with key `code` (string)."
}
func (t *deleteCouponTool) Call(ctx context.Context, input string) (string, error) {
	slog.Info("[AGENT TOOL CALL]", "tool", t.Name(), "input", input)
	var payload struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal([]byte(input), &payload); err != nil {
		return "Error: failed to parse input JSON.", nil
	}
	payload.Code = strings.ToUpper(strings.TrimSpace(payload.Code))
	if payload.Code == "" {
		return "Error: code is required.", nil
	}

	storeID := StoreIDFromContext(ctx)
	if err := t.store.DeleteCoupon(ctx, storeID, payload.Code); err != nil {
		return "Error: " + err.Error(), nil
	}
	return fmt.Sprintf("Coupon %s deleted.", payload.Code), nil
}
