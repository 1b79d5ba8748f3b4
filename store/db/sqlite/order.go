package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/vendora/vendora/store"
)

func (d *DB) CreateOrder(ctx context.Context, create *store.Order) (*store.Order, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	stmt := `INSERT INTO customer_order (uid, store_id, customer_id, status, payment_method, subtotal, discount, total, coupon_code, created_ts, shipped_ts)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	createdTs := create.CreatedTs
	if createdTs == 0 {
		createdTs = nowUnix()
	}
	if create.Status == "" {
		create.Status = store.OrderStatusPending
	}
	result, err := tx.ExecContext(ctx, stmt,
		create.UID, create.StoreID, create.CustomerID, create.Status, create.PaymentMethod,
		create.Subtotal, create.Discount, create.Total, create.CouponCode, createdTs, create.ShippedTs,
	)
	if err != nil {
		return nil, err
	}
	orderID, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	for _, item := range create.Items {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO order_item (order_id, product_id, title, quantity, price) VALUES (?, ?, ?, ?, ?)",
			orderID, item.ProductID, item.Title, item.Quantity, item.Price,
		); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return d.GetOrder(ctx, &store.FindOrder{StoreID: &create.StoreID, UID: &create.UID})
}

func (d *DB) UpdateOrder(ctx context.Context, update *store.UpdateOrder) (*store.Order, error) {
	set, args := []string{}, []any{}
	if v := update.Status; v != nil {
		set, args = append(set, "status = ?"), append(args, *v)
	}
	if v := update.ShippedTs; v != nil {
		set, args = append(set, "shipped_ts = ?"), append(args, *v)
	}
	if len(set) == 0 {
		return d.GetOrder(ctx, &store.FindOrder{StoreID: &update.StoreID, ID: &update.ID})
	}
	args = append(args, update.ID, update.StoreID)
	stmt := fmt.Sprintf("UPDATE customer_order SET %s WHERE id = ? AND store_id = ?", strings.Join(set, ", "))
	if _, err := d.db.ExecContext(ctx, stmt, args...); err != nil {
		return nil, err
	}
	return d.GetOrder(ctx, &store.FindOrder{StoreID: &update.StoreID, ID: &update.ID})
}

func (d *DB) ListOrders(ctx context.Context, find *store.FindOrder) ([]*store.Order, error) {
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
	if v := find.CustomerID; v != nil {
		where, args = append(where, "customer_id = ?"), append(args, *v)
	}
	if v := find.Status; v != nil {
		where, args = append(where, "status = ?"), append(args, *v)
	}
	if len(find.Statuses) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(find.Statuses)), ", ")
		where = append(where, fmt.Sprintf("status IN (%s)", placeholders))
		for _, s := range find.Statuses {
			args = append(args, s)
		}
	}
	if v := find.CouponCode; v != nil {
		where, args = append(where, "coupon_code = ?"), append(args, *v)
	}
	if v := find.CreatedAfter; v != nil {
		where, args = append(where, "created_ts >= ?"), append(args, *v)
	}
	if v := find.CreatedBefore; v != nil {
		where, args = append(where, "created_ts < ?"), append(args, *v)
	}
	query := fmt.Sprintf(
		`SELECT id, uid, store_id, customer_id, status, payment_method, subtotal, discount, total, coupon_code, created_ts, shipped_ts
		 FROM customer_order WHERE %s ORDER BY created_ts DESC`,
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

	var list []*store.Order
	byID := map[int32]*store.Order{}
	for rows.Next() {
		o := &store.Order{}
		if err := rows.Scan(
			&o.ID, &o.UID, &o.StoreID, &o.CustomerID, &o.Status, &o.PaymentMethod,
			&o.Subtotal, &o.Discount, &o.Total, &o.CouponCode, &o.CreatedTs, &o.ShippedTs,
		); err != nil {
			return nil, err
		}
		list = append(list, o)
		byID[o.ID] = o
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(list)), ", ")
	itemArgs := make([]any, 0, len(list))
	for _, o := range list {
		itemArgs = append(itemArgs, o.ID)
	}
	itemRows, err := d.db.QueryContext(ctx, fmt.Sprintf(
		"SELECT id, order_id, product_id, title, quantity, price FROM order_item WHERE order_id IN (%s)",
		placeholders,
	), itemArgs...)
	if err != nil {
		return nil, err
	}
	defer itemRows.Close()
	for itemRows.Next() {
		item := &store.OrderItem{}
		if err := itemRows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Title, &item.Quantity, &item.Price); err != nil {
			return nil, err
		}
		if o, ok := byID[item.OrderID]; ok {
			o.Items = append(o.Items, item)
		}
	}
	return list, itemRows.Err()
}

func (d *DB) GetOrder(ctx context.Context, find *store.FindOrder) (*store.Order, error) {
	one := 1
	find.Limit = &one
	list, err := d.ListOrders(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}
