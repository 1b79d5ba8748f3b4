// Package productindex keeps a semantic search index over each store's
// product catalogue, backed by chromem-go with disk persistence.
package productindex

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	chromem "github.com/philippgille/chromem-go"

	"github.com/vendora/vendora/store"
)

// SearchResult is a single semantic-search hit.
type SearchResult struct {
	ProductUID string
	Title      string
	Score      float32
}

// Index wraps chromem-go with per-store collections and disk persistence.
type Index struct {
	mu      sync.RWMutex
	db      *chromem.DB
	dataDir string
	embedFn chromem.EmbeddingFunc
}

// New creates (or opens) the persistent index at dataDir/productindex/.
// embedFunc is the embedding function to use — pass chromem.NewEmbeddingFuncOpenAICompat
// pointed at the OpenRouter embeddings endpoint.
func New(dataDir string, embedFunc chromem.EmbeddingFunc) (*Index, error) {
	dir := filepath.Join(dataDir, "productindex")
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create productindex dir: %w", err)
	}
	db, err := chromem.NewPersistentDB(dir, false)
	if err != nil {
		return nil, fmt.Errorf("open productindex: %w", err)
	}
	return &Index{db: db, dataDir: dir, embedFn: embedFunc}, nil
}

func collectionName(storeID int32) string {
	return fmt.Sprintf("store_%d_products", storeID)
}

// getOrCreateCollection returns (or creates) the per-store collection.
func (i *Index) getOrCreateCollection(storeID int32) *chromem.Collection {
	name := collectionName(storeID)
	col := i.db.GetCollection(name, i.embedFn)
	if col == nil {
		var err error
		col, err = i.db.CreateCollection(name, nil, i.embedFn)
		if err != nil {
			slog.Error("failed to create product collection", "store", storeID, "err", err)
			return nil
		}
	}
	return col
}

// Upsert indexes (or re-indexes) a product. The document body is the title,
// category, tags and description joined, so queries match on any of them.
func (i *Index) Upsert(ctx context.Context, p *store.Product) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	col := i.getOrCreateCollection(p.StoreID)
	if col == nil {
		return fmt.Errorf("productindex: nil collection for store %d", p.StoreID)
	}

	body := strings.TrimSpace(strings.Join([]string{p.Title, p.Category, p.Tags, p.Description}, "\n"))
	doc := chromem.Document{
		ID:      p.UID,
		Content: body,
		Metadata: map[string]string{
			"title":    p.Title,
			"category": p.Category,
		},
	}
	return col.AddDocument(ctx, doc)
}

// Remove drops a product from the store's collection.
func (i *Index) Remove(ctx context.Context, storeID int32, productUID string) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	col := i.db.GetCollection(collectionName(storeID), i.embedFn)
	if col == nil {
		return nil
	}
	return col.Delete(ctx, nil, nil, productUID)
}

// Search returns the top-k products most semantically similar to the query.
func (i *Index) Search(ctx context.Context, storeID int32, query string, k int) ([]SearchResult, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	col := i.getOrCreateCollection(storeID)
	if col == nil {
		return nil, nil
	}

	count := col.Count()
	if count == 0 {
		return nil, nil
	}
	if k > count {
		k = count
	}

	var results []chromem.Result
	var err error

	// chromem-go sometimes throws "nResults must be <= number of documents" despite Count checks.
	// Step down k if it fails.
	for attemptK := k; attemptK > 0; attemptK-- {
		results, err = col.Query(ctx, query, attemptK, nil, nil)
		if err == nil {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	out := make([]SearchResult, 0, len(results))
	for _, r := range results {
		out = append(out, SearchResult{
			ProductUID: r.ID,
			Title:      r.Metadata["title"],
			Score:      r.Similarity,
		})
	}
	return out, nil
}
