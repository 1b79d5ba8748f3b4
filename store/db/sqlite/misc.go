package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/vendora/vendora/store"
)

func (d *DB) CreateAbandonedCart(ctx context.Context, create *store.AbandonedCart) (*store.AbandonedCart, error) {
	createdTs := create.CreatedTs
	if createdTs == 0 {
		createdTs = nowUnix()
	}
	result, err := d.db.ExecContext(ctx,
		"INSERT INTO abandoned_cart (store_id, customer_id, total, recovered, created_ts) VALUES (?, ?, ?, ?, ?)",
		create.StoreID, create.CustomerID, create.Total, create.Recovered, createdTs,
	)
	if err != nil {
		return nil, err
	}
	rawID, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	create.ID = int32(rawID)
	create.CreatedTs = createdTs
	return create, nil
}

func (d *DB) ListAbandonedCarts(ctx context.Context, find *store.FindAbandonedCart) ([]*store.AbandonedCart, error) {
	where, args := []string{"1 = 1"}, []any{}
	if v := find.StoreID; v != nil {
		where, args = append(where, "store_id = ?"), append(args, *v)
	}
	if v := find.Recovered; v != nil {
		where, args = append(where, "recovered = ?"), append(args, *v)
	}
	if v := find.CreatedAfter; v != nil {
		where, args = append(where, "created_ts >= ?"), append(args, *v)
	}
	if v := find.CreatedBefore; v != nil {
		where, args = append(where, "created_ts < ?"), append(args, *v)
	}
	query := fmt.Sprintf(
		"SELECT id, store_id, customer_id, total, recovered, created_ts FROM abandoned_cart WHERE %s ORDER BY created_ts DESC",
		strings.Join(where, " AND "),
	)
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*store.AbandonedCart
	for rows.Next() {
		c := &store.AbandonedCart{}
		if err := rows.Scan(&c.ID, &c.StoreID, &c.CustomerID, &c.Total, &c.Recovered, &c.CreatedTs); err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func (d *DB) CreateNotification(ctx context.Context, create *store.Notification) (*store.Notification, error) {
	createdTs := create.CreatedTs
	if createdTs == 0 {
		createdTs = nowUnix()
	}
	result, err := d.db.ExecContext(ctx,
		"INSERT INTO notification (store_id, kind, body, is_read, created_ts) VALUES (?, ?, ?, ?, ?)",
		create.StoreID, create.Kind, create.Body, create.Read, createdTs,
	)
	if err != nil {
		return nil, err
	}
	rawID, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	create.ID = int32(rawID)
	create.CreatedTs = createdTs
	return create, nil
}

func (d *DB) ListNotifications(ctx context.Context, find *store.FindNotification) ([]*store.Notification, error) {
	where, args := []string{"1 = 1"}, []any{}
	if v := find.StoreID; v != nil {
		where, args = append(where, "store_id = ?"), append(args, *v)
	}
	if v := find.Read; v != nil {
		where, args = append(where, "is_read = ?"), append(args, *v)
	}
	query := fmt.Sprintf(
		"SELECT id, store_id, kind, body, is_read, created_ts FROM notification WHERE %s ORDER BY created_ts DESC",
		strings.Join(where, " AND "),
	)
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*store.Notification
	for rows.Next() {
		n := &store.Notification{}
		if err := rows.Scan(&n.ID, &n.StoreID, &n.Kind, &n.Body, &n.Read, &n.CreatedTs); err != nil {
			return nil, err
		}
		list = append(list, n)
	}
	return list, rows.Err()
}
