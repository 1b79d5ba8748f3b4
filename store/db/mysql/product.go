package mysql

import (
	"context"
	"fmt"
	"strings"

	"github.com/vendora/vendora/store"
)

func (d *DB) CreateProduct(ctx context.Context, create *store.Product) (*store.Product, error) {
	stmt := `INSERT INTO product (uid, store_id, title, description, category, tags, sku, price, stock, track_stock, status, featured, lead_time_days, created_ts, updated_ts)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	leadTime := create.LeadTimeDays
	if leadTime == 0 {
		leadTime = 14
	}
	if create.Status == "" {
		create.Status = store.ProductStatusDraft
	}
	if _, err := d.db.ExecContext(ctx, stmt,
		create.UID, create.StoreID, create.Title, create.Description, create.Category,
		create.Tags, create.SKU, create.Price, create.Stock, create.TrackStock,
		create.Status, create.Featured, leadTime, nowUnix(), nowUnix(),
	); err != nil {
		return nil, err
	}
	return d.GetProduct(ctx, &store.FindProduct{StoreID: &create.StoreID, UID: &create.UID})
}

func (d *DB) UpdateProduct(ctx context.Context, update *store.UpdateProduct) (*store.Product, error) {
	set, args := []string{"updated_ts = ?"}, []any{nowUnix()}
	if v := update.Title; v != nil {
		set, args = append(set, "title = ?"), append(args, *v)
	}
	if v := update.Description; v != nil {
		set, args = append(set, "description = ?"), append(args, *v)
	}
	if v := update.Category; v != nil {
		set, args = append(set, "category = ?"), append(args, *v)
	}
	if v := update.Tags; v != nil {
		set, args = append(set, "tags = ?"), append(args, *v)
	}
	if v := update.Price; v != nil {
		set, args = append(set, "price = ?"), append(args, *v)
	}
	if v := update.Stock; v != nil {
		set, args = append(set, "stock = ?"), append(args, *v)
	}
	if v := update.TrackStock; v != nil {
		set, args = append(set, "track_stock = ?"), append(args, *v)
	}
	if v := update.Status; v != nil {
		set, args = append(set, "status = ?"), append(args, *v)
	}
	if v := update.Featured; v != nil {
		set, args = append(set, "featured = ?"), append(args, *v)
	}
	if v := update.LeadTimeDays; v != nil {
		set, args = append(set, "lead_time_days = ?"), append(args, *v)
	}
	args = append(args, update.ID, update.StoreID)
	stmt := fmt.Sprintf("UPDATE product SET %s WHERE id = ? AND store_id = ?", strings.Join(set, ", "))
	if _, err := d.db.ExecContext(ctx, stmt, args...); err != nil {
		return nil, err
	}
	return d.GetProduct(ctx, &store.FindProduct{StoreID: &update.StoreID, ID: &update.ID})
}

func (d *DB) ListProducts(ctx context.Context, find *store.FindProduct) ([]*store.Product, error) {
	where, args := []string{"1 = 1"}, []any{}
	if v := find.StoreID; v != nil {
		where, args = append(where, "store_id = ?"), append(args, *v)
	}
	if v := find.ID; v != nil {
		where, args = append(where, "id = ?"), append(args, *v)
	}
	if v := find.UID; v != nil {
		where, args = append(where, "uid = ?"), append(args, *v)
	}
	if v := find.SKU; v != nil {
		where, args = append(where, "sku = ?"), append(args, *v)
	}
	if v := find.Status; v != nil {
		where, args = append(where, "status = ?"), append(args, *v)
	}
	if v := find.Category; v != nil {
		where, args = append(where, "category = ?"), append(args, *v)
	}
	if v := find.Featured; v != nil {
		where, args = append(where, "featured = ?"), append(args, *v)
	}
	if find.InStockOnly {
		where = append(where, "stock > 0")
	}
	query := fmt.Sprintf(
		`SELECT id, uid, store_id, title, description, category, tags, sku, price, stock, track_stock, status, featured, lead_time_days, created_ts, updated_ts
		 FROM product WHERE %s ORDER BY created_ts DESC`,
		strings.Join(where, " AND "),
	)
	if v := find.Limit; v != nil {
		query = fmt.Sprintf("%s LIMIT %d", query, *v)
	}
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*store.Product
	for rows.Next() {
		p := &store.Product{}
		if err := rows.Scan(
			&p.ID, &p.UID, &p.StoreID, &p.Title, &p.Description, &p.Category, &p.Tags,
			&p.SKU, &p.Price, &p.Stock, &p.TrackStock, &p.Status, &p.Featured,
			&p.LeadTimeDays, &p.CreatedTs, &p.UpdatedTs,
		); err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func (d *DB) GetProduct(ctx context.Context, find *store.FindProduct) (*store.Product, error) {
	one := 1
	find.Limit = &one
	list, err := d.ListProducts(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (d *DB) DeleteProducts(ctx context.Context, storeID int32, ids []int32) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(ids)), ", ")
	args := make([]any, 0, len(ids)+1)
	args = append(args, storeID)
	for _, id := range ids {
		args = append(args, id)
	}
	stmt := fmt.Sprintf("DELETE FROM product WHERE store_id = ? AND id IN (%s)", placeholders)
	result, err := d.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
