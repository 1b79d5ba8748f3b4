package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lithammer/shortuuid/v4"
	"github.com/tmc/langchaingo/tools"

	"github.com/vendora/vendora/plugin/productindex"
	"github.com/vendora/vendora/store"
)

const defaultListLimit = 20

// ─────────────────────────────────────────────────────────────────────────────
// Helper: GetProducts tool
// ─────────────────────────────────────────────────────────────────────────────

type getProductsTool struct {
	store *store.Store
}

func newGetProductsTool(st *store.Store) tools.Tool {
	return &getProductsTool{store: st}
}

func (t *getProductsTool) Name() string { return "get_products" }
func (t *getProductsTool) Description() string {
	return "List products, optionally filtered by status, category or stock. Input is a JSON string with optional keys `status`, `category`, `in_stock_only` (bool), `limit` (number)."
}
func (t *getProductsTool) Call(ctx context.Context, input string) (string, error) {
	slog.Info("[AGENT TOOL CALL]", "tool", t.Name(), "input", input)
	var payload struct {
		Status      string `json:"status"`
		Category    string `json:"category"`
		InStockOnly bool   `json:"in_stock_only"`
		Limit       int    `json:"limit"`
	}
	if input != "" {
		if err := json.Unmarshal([]byte(input), &payload); err != nil {
			return "Error: failed to parse input JSON.", nil
		}
	}

	storeID := StoreIDFromContext(ctx)
	find := &store.FindProduct{StoreID: &storeID, InStockOnly: payload.InStockOnly}
	if payload.Status != "" {
		find.Status = &payload.Status
	}
	if payload.Category != "" {
		find.Category = &payload.Category
	}
	limit := payload.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	find.Limit = &limit

	products, err := t.store.ListProducts(ctx, find)
	if err != nil {
		return "Error: " + err.Error(), nil
	}
	if len(products) == 0 {
		return "No products found.", nil
	}
	out, err := json.Marshal(products)
	if err != nil {
		return "Error: " + err.Error(), nil
	}
	return string(out), nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Helper: GetProduct tool
// ─────────────────────────────────────────────────────────────────────────────

type getProductTool struct {
	store *store.Store
}

func newGetProductTool(st *store.Store) tools.Tool {
	return &getProductTool{store: st}
}

func (t *getProductTool) Name() string { return "get_product" }
func (t *getProductTool) Description() string {
	return "Fetch a single product by `id` (number) or `sku` (string). Input is a JSON string with one of those keys."
}
func (t *getProductTool) Call(ctx context.Context, input string) (string, error) {
	slog.Info("[AGENT TOOL CALL]", "tool", t.Name(), "input", input)
	var payload struct {
		ID  int32  `json:"id"`
		SKU string `json:"sku"`
	}
	if err := json.Unmarshal([]byte(input), &payload); err != nil {
		return "Error: failed to parse input JSON.", nil
	}
	if payload.ID == 0 && payload.SKU == "" {
		return "Error: either id or sku is required.", nil
	}

	storeID := StoreIDFromContext(ctx)
	find := &store.FindProduct{StoreID: &storeID}
	if payload.ID != 0 {
		find.ID = &payload.ID
	} else {
		find.SKU = &payload.SKU
	}
	p, err := t.store.GetProduct(ctx, find)
	if err != nil {
		return "Error: " + err.Error(), nil
	}
	if p == nil {
		return "Error: product not found.", nil
	}
	out, err := json.Marshal(p)
	if err != nil {
		return "Error: " + err.Error(), nil
	}
	return string(out), nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Helper: SearchProducts tool
// ─────────────────────────────────────────────────────────────────────────────

type searchProductsTool struct {
	index *productindex.Index
	store *store.Store
}

func newSearchProductsTool(idx *productindex.Index, st *store.Store) tools.Tool {
	return &searchProductsTool{index: idx, store: st}
}

func (t *searchProductsTool) Name() string { return "search_products" }
func (t *searchProductsTool) Description() string {
	return "Search the catalogue semantically for products matching a concept, e.g. 'warm winter jackets'. Input is a JSON string with key `query` (string) and optional `limit` (number)."
}
func (t *searchProductsTool) Call(ctx context.Context, input string) (string, error) {
	slog.Info("[AGENT TOOL CALL]", "tool", t.Name(), "input", input)
	if t.index == nil {
		return "Product search index not available.", nil
	}
	var payload struct {
		Query string `json:"query"`
		Limit int    `json:"limit"`
	}
	if err := json.Unmarshal([]byte(input), &payload); err != nil {
		return "Error: failed to parse input JSON.", nil
	}
	if payload.Query == "" {
		return "Error: query is required.", nil
	}
	limit := payload.Limit
	if limit <= 0 {
		limit = 5
	}

	storeID := StoreIDFromContext(ctx)
	results, err := t.index.Search(ctx, storeID, payload.Query, limit)
	if err != nil {
		return "Error: " + err.Error(), nil
	}
	if len(results) == 0 {
		return "No matching products found.", nil
	}

	var sb strings.Builder
	for i, r := range results {
		p, err := t.store.GetProduct(ctx, &store.FindProduct{StoreID: &storeID, UID: &r.ProductUID})
		if err != nil || p == nil {
			continue
		}
		sb.WriteString(fmt.Sprintf("[%d] %s (id %d, sku %s, score %.2f): price %d, stock %d, status %s\n",
			i+1, p.Title, p.ID, p.SKU, r.Score, p.Price, p.Stock, p.Status))
	}
	if sb.Len() == 0 {
		return "No matching products found.", nil
	}
	return sb.String(), nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Helper: CreateProduct tool
// ─────────────────────────────────────────────────────────────────────────────

type createProductTool struct {
	store *store.Store
	index *productindex.Index
}

func newCreateProductTool(st *store.Store, idx *productindex.Index) tools.Tool {
	return &createProductTool{store: st, index: idx}
}

func (t *createProductTool) Name() string { return "create_product" }
func (t *createProductTool) Description() string {
	return "Create a new product. Input is a JSON string with keys `title` (string) and `price` (number, smallest currency unit), plus optional `description`, `category`, `tags`, `sku`, `stock` (number), `status` (draft|published), `lead_time_days` (number)."
}
func (t *createProductTool) Call(ctx context.Context, input string) (string, error) {
	slog.Info("[AGENT TOOL CALL]", "tool", t.Name(), "input", input)
	var payload struct {
		Title        string `json:"title"`
		Price        int64  `json:"price"`
		Description  string `json:"description"`
		Category     string `json:"category"`
		Tags         string `json:"tags"`
		SKU          string `json:"sku"`
		Stock        int32  `json:"stock"`
		Status       string `json:"status"`
		LeadTimeDays int32  `json:"lead_time_days"`
	}
	if err := json.Unmarshal([]byte(input), &payload); err != nil {
		return "Error: failed to parse input JSON.", nil
	}
	if payload.Title == "" {
		return "Error: title is required.", nil
	}
	if payload.Price < 0 {
		return "Error: price must not be negative.", nil
	}
	status := payload.Status
	if status == "" {
		status = store.ProductStatusDraft
	}
	if status != store.ProductStatusDraft && status != store.ProductStatusPublished {
		return "Error: status must be draft or published.", nil
	}

	storeID := StoreIDFromContext(ctx)
	p, err := t.store.CreateProduct(ctx, &store.Product{
		UID:          shortuuid.New(),
		StoreID:      storeID,
		Title:        payload.Title,
		Description:  payload.Description,
		Category:     payload.Category,
		Tags:         payload.Tags,
		SKU:          payload.SKU,
		Price:        payload.Price,
		Stock:        payload.Stock,
		TrackStock:   true,
		Status:       status,
		LeadTimeDays: payload.LeadTimeDays,
	})
	if err != nil {
		return "Error creating product: " + err.Error(), nil
	}
	if t.index != nil {
		if err := t.index.Upsert(ctx, p); err != nil {
			slog.Warn("product index upsert failed", "product", p.UID, "err", err)
		}
	}
	return fmt.Sprintf("Product created with id %d (uid %s).", p.ID, p.UID), nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Helper: UpdateProduct tool
// ─────────────────────────────────────────────────────────────────────────────

type updateProductTool struct {
	store *store.Store
	index *productindex.Index
}

func newUpdateProductTool(st *store.Store, idx *productindex.Index) tools.Tool {
	return &updateProductTool{store: st, index: idx}
}

func (t *updateProductTool) Name() string { return "update_product" }
func (t *updateProductTool) Description() string {
	return "Update fields of an existing product. Input is a JSON string with key `id` (number) and any of `title`, `description`, `category`, `tags`, `price` (number), `status` (draft|published|archived), `lead_time_days` (number)."
}
func (t *updateProductTool) Call(ctx context.Context, input string) (string, error) {
	slog.Info("[AGENT TOOL CALL]", "tool", t.Name(), "input", input)
	var payload struct {
		ID           int32   `json:"id"`
		Title        *string `json:"title"`
		Description  *string `json:"description"`
		Category     *string `json:"category"`
		Tags         *string `json:"tags"`
		Price        *int64  `json:"price"`
		Status       *string `json:"status"`
		LeadTimeDays *int32  `json:"lead_time_days"`
	}
	if err := json.Unmarshal([]byte(input), &payload); err != nil {
		return "Error: failed to parse input JSON.", nil
	}
	if payload.ID == 0 {
		return "Error: id is required.", nil
	}
	if payload.Price != nil && *payload.Price < 0 {
		return "Error: price must not be negative.", nil
	}
	if payload.Status != nil {
		switch *payload.Status {
		case store.ProductStatusDraft, store.ProductStatusPublished, store.ProductStatusArchived:
		default:
			return "Error: status must be draft, published or archived.", nil
		}
	}

	storeID := StoreIDFromContext(ctx)
	p, err := t.store.UpdateProduct(ctx, &store.UpdateProduct{
		ID:           payload.ID,
		StoreID:      storeID,
		Title:        payload.Title,
		Description:  payload.Description,
		Category:     payload.Category,
		Tags:         payload.Tags,
		Price:        payload.Price,
		Status:       payload.Status,
		LeadTimeDays: payload.LeadTimeDays,
	})
	if err != nil {
		return "Error: " + err.Error(), nil
	}
	if p == nil {
		return "Error: product not found.", nil
	}
	if t.index != nil {
		if err := t.index.Upsert(ctx, p); err != nil {
			slog.Warn("product index upsert failed", "product", p.UID, "err", err)
		}
	}
	return "Product successfully updated.", nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Helper: UpdateStock tool
// ─────────────────────────────────────────────────────────────────────────────

type updateStockTool struct {
	store *store.Store
}

func newUpdateStockTool(st *store.Store) tools.Tool {
	return &updateStockTool{store: st}
}

func (t *updateStockTool) Name() string { return "update_stock" }
func (t *updateStockTool) Description() string {
	return "Set the stock level of a product. Input is a JSON string with keys `id` (number) and `stock` (number, >= 0)."
}
func (t *updateStockTool) Call(ctx context.Context, input string) (string, error) {
	slog.Info("[AGENT TOOL CALL]", "tool", t.Name(), "input", input)
	var payload struct {
		ID    int32  `json:"id"`
		Stock *int32 `json:"stock"`
	}
	if err := json.Unmarshal([]byte(input), &payload); err != nil {
		return "Error: failed to parse input JSON.", nil
	}
	if payload.ID == 0 || payload.Stock == nil {
		return "Error: id and stock are required.", nil
	}
	if *payload.Stock < 0 {
		return "Error: stock must not be negative.", nil
	}

	storeID := StoreIDFromContext(ctx)
	p, err := t.store.UpdateProduct(ctx, &store.UpdateProduct{
		ID:      payload.ID,
		StoreID: storeID,
		Stock:   payload.Stock,
	})
	if err != nil {
		return "Error: " + err.Error(), nil
	}
	if p == nil {
		return "Error: product not found.", nil
	}
	return fmt.Sprintf("Stock for %q set to %d.", p.Title, *payload.Stock), nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Helper: FeatureProduct tool
// ─────────────────────────────────────────────────────────────────────────────

type featureProductTool struct {
	store *store.Store
}

func newFeatureProductTool(st *store.Store) tools.Tool {
	return &featureProductTool{store: st}
}

func (t *featureProductTool) Name() string { return "feature_product" }
func (t *featureProductTool) Description() string {
	return "Feature or unfeature a product on the storefront. Input is a JSON string with keys `id` (number) and `featured` (bool)."
}
func (t *featureProductTool) Call(ctx context.Context, input string) (string, error) {
	slog.Info("[AGENT TOOL CALL]", "tool", t.Name(), "input", input)
	var payload struct {
		ID       int32 `json:"id"`
		Featured bool  `json:"featured"`
	}
	if err := json.Unmarshal([]byte(input), &payload); err != nil {
		return "Error: failed to parse input JSON.", nil
	}
	if payload.ID == 0 {
		return "Error: id is required.", nil
	}

	storeID := StoreIDFromContext(ctx)
	p, err := t.store.UpdateProduct(ctx, &store.UpdateProduct{
		ID:       payload.ID,
		StoreID:  storeID,
		Featured: &payload.Featured,
	})
	if err != nil {
		return "Error: " + err.Error(), nil
	}
	if p == nil {
		return "Error: product not found.", nil
	}
	if payload.Featured {
		return fmt.Sprintf("%q is now featured.", p.Title), nil
	}
	return fmt.Sprintf("%q is no longer featured.", p.Title), nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Helper: DeleteProduct tool
// ─────────────────────────────────────────────────────────────────────────────

type deleteProductTool struct {
	store *store.Store
	index *productindex.Index
}

func newDeleteProductTool(st *store.Store, idx *productindex.Index) tools.Tool {
	return &deleteProductTool{store: st, index: idx}
}

func (t *deleteProductTool) Name() string { return "delete_product" }
func (t *deleteProductTool) Description() string {
	return "Permanently delete a product. Input is a JSON string with key `id` (number)."
}
func (t *deleteProductTool) Call(ctx context.Context, input string) (string, error) {
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
	p, err := t.store.GetProduct(ctx, &store.FindProduct{StoreID: &storeID, ID: &payload.ID})
	if err != nil {
		return "Error: " + err.Error(), nil
	}
	if p == nil {
		return "Error: product not found.", nil
	}
	if _, err := t.store.DeleteProducts(ctx, storeID, []int32{payload.ID}); err != nil {
		return "Error: " + err.Error(), nil
	}
	if t.index != nil {
		if err := t.index.Remove(ctx, storeID, p.UID); err != nil {
			slog.Warn("product index remove failed", "product", p.UID, "err", err)
		}
	}
	return fmt.Sprintf("Product %q deleted.", p.Title), nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Helper: BulkDeleteProducts tool
// ─────────────────────────────────────────────────────────────────────────────

type bulkDeleteProductsTool struct {
	store *store.Store
	index *productindex.Index
}

func newBulkDeleteProductsTool(st *store.Store, idx *productindex.Index) tools.Tool {
	return &bulkDeleteProductsTool{store: st, index: idx}
}

func (t *bulkDeleteProductsTool) Name() string { return "bulk_delete_products" }
func (t *bulkDeleteProductsTool) Description() string {
	return "Permanently delete several products at once. Input is a JSON string with key `ids` (array of numbers)."
}
func (t *bulkDeleteProductsTool) Call(ctx context.Context, input string) (string, error) {
	slog.Info("[AGENT TOOL CALL]", "tool", t.Name(), "input", input)
	var payload struct {
		IDs []int32 `json:"ids"`
	}
	if err := json.Unmarshal([]byte(input), &payload); err != nil {
		return "Error: failed to parse input JSON.", nil
	}
	if len(payload.IDs) == 0 {
		return "Error: ids is required.", nil
	}

	storeID := StoreIDFromContext(ctx)
	var uids []string
	for _, id := range payload.IDs {
		id := id
		p, err := t.store.GetProduct(ctx, &store.FindProduct{StoreID: &storeID, ID: &id})
		if err == nil && p != nil {
			uids = append(uids, p.UID)
		}
	}
	deleted, err := t.store.DeleteProducts(ctx, storeID, payload.IDs)
	if err != nil {
		return "Error: " + err.Error(), nil
	}
	if t.index != nil {
		for _, uid := range uids {
			if err := t.index.Remove(ctx, storeID, uid); err != nil {
				slog.Warn("product index remove failed", "product", uid, "err", err)
			}
		}
	}
	return fmt.Sprintf("Deleted %d of %d products.", deleted, len(payload.IDs)), nil
}
