package mysql

import (
	"context"
	"fmt"
	"strings"

	"github.com/vendora/vendora/store"
)

func (d *DB) CreateReview(ctx context.Context, create *store.Review) (*store.Review, error) {
	if create.Status == "" {
		create.Status = store.ReviewStatusPending
	}
	createdTs := create.CreatedTs
	if createdTs == 0 {
		createdTs = nowUnix()
	}
	result, err := d.db.ExecContext(ctx,
		"INSERT INTO review (store_id, product_id, customer_id, rating, status, body, created_ts) VALUES (?, ?, ?, ?, ?, ?, ?)",
		create.StoreID, create.ProductID, create.CustomerID, create.Rating, create.Status, create.Body, createdTs,
	)
	if err != nil {
		return nil, err
	}
	rawID, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	id := int32(rawID)
	list, err := d.ListReviews(ctx, &store.FindReview{StoreID: &create.StoreID, ID: &id})
	if err != nil || len(list) == 0 {
		return nil, err
	}
	return list[0], nil
}

func (d *DB) UpdateReview(ctx context.Context, update *store.UpdateReview) (*store.Review, error) {
	if v := update.Status; v != nil {
		if _, err := d.db.ExecContext(ctx,
			"UPDATE review SET status = ? WHERE id = ? AND store_id = ?",
			*v, update.ID, update.StoreID,
		); err != nil {
			return nil, err
		}
	}
	list, err := d.ListReviews(ctx, &store.FindReview{StoreID: &update.StoreID, ID: &update.ID})
	if err != nil || len(list) == 0 {
		return nil, err
	}
	return list[0], nil
}

func (d *DB) ListReviews(ctx context.Context, find *store.FindReview) ([]*store.Review, error) {
	where, args := []string{"1 = 1"}, []any{}
	if v := find.StoreID; v != nil {
		where, args = append(where, "store_id = ?"), append(args, *v)
	}
	if v := find.ID; v != nil {
		where, args = append(where, "id = ?"), append(args, *v)
	}
	if v := find.ProductID; v != nil {
		where, args = append(where, "product_id = ?"), append(args, *v)
	}
	if v := find.Status; v != nil {
		where, args = append(where, "status = ?"), append(args, *v)
	}
	query := fmt.Sprintf(
		"SELECT id, store_id, product_id, customer_id, rating, status, body, created_ts FROM review WHERE %s ORDER BY created_ts DESC",
		strings.Join(where, " AND "),
	)
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*store.Review
	for rows.Next() {
		r := &store.Review{}
		if err := rows.Scan(&r.ID, &r.StoreID, &r.ProductID, &r.CustomerID, &r.Rating, &r.Status, &r.Body, &r.CreatedTs); err != nil {
			return nil, err
		}
		list = append(list, r)
	}
	return list, rows.Err()
}
