package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/tmc/langchaingo/tools"

	"github.com/vendora/vendora/store"
)

// ─────────────────────────────────────────────────────────────────────────────
// Helper: GetReviews tool
// ─────────────────────────────────────────────────────────────────────────────

type getReviewsTool struct {
	store *store.Store
}

func newGetReviewsTool(st *store.Store) tools.Tool {
	return &getReviewsTool{store: st}
}

func (t *getReviewsTool) Name() string { return "get_reviews" }
func (t *getReviewsTool) Description() string {
	return "List product reviews. Input is a JSON string with optional keys `status` (pending|approved|rejected) and `product_id` (number)."
}
func (t *getReviewsTool) Call(ctx context.Context, input string) (string, error) {
	slog.Info("[AGENT TOOL CALL]", "tool", t.Name(), "input", input)
	var payload struct {
		Status    string `json:"status"`
		ProductID int32  `json:"product_id"`
	}
	if input != "" {
		if err := json.Unmarshal([]byte(input), &payload); err != nil {
			return "Error: failed to parse input JSON.", nil
		}
	}

	storeID := StoreIDFromContext(ctx)
	find := &store.FindReview{StoreID: &storeID}
	if payload.Status != "" {
		find.Status = &payload.Status
	}
	if payload.ProductID != 0 {
		find.ProductID = &payload.ProductID
	}
	reviews, err := t.store.ListReviews(ctx, find)
	if err != nil {
		return "Error: " + err.Error(), nil
	}
	if len(reviews) == 0 {
		return "No reviews found.", nil
	}
	out, err := json.Marshal(reviews)
	if err != nil {
		return "Error: " + err.Error(), nil
	}
	return string(out), nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Helper: ModerateReview tool
// ─────────────────────────────────────────────────────────────────────────────

type moderateReviewTool struct {
	store *store.Store
}

func newModerateReviewTool(st *store.Store) tools.Tool {
	return &moderateReviewTool{store: st}
}

func (t *moderateReviewTool) Name() string { return "moderate_review" }
func (t *moderateReviewTool) Description() string {
	return "Approve or reject a pending review. Input is a JSON string with keys `id` (number) and `status` (approved|rejected)."
}
func (t *moderateReviewTool) Call(ctx context.Context, input string) (string, error) {
	slog.Info("[AGENT TOOL CALL]", "tool", t.Name(), "input", input)
	var payload struct {
		ID     int32  `json:"id"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal([]byte(input), &payload); err != nil {
		return "Error: failed to parse input JSON.", nil
	}
	if payload.ID == 0 {
		return "Error: id is required.", nil
	}
	if payload.Status != store.ReviewStatusApproved && payload.Status != store.ReviewStatusRejected {
		return "Error: status must be approved or rejected.", nil
	}

	storeID := StoreIDFromContext(ctx)
	r, err := t.store.UpdateReview(ctx, &store.UpdateReview{ID: payload.ID, StoreID: storeID, Status: &payload.Status})
	if err != nil {
		return "Error: " + err.Error(), nil
	}
	if r == nil {
		return "Error: review not found.", nil
	}
	return fmt.Sprintf("Review %d marked %s.", r.ID, payload.Status), nil
}
