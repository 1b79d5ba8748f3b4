package mysql

import (
	"context"
	"fmt"
	"strings"

	"github.com/vendora/vendora/store"
)

func (d *DB) CreateCustomer(ctx context.Context, create *store.Customer) (*store.Customer, error) {
	createdTs := create.CreatedTs
	if createdTs == 0 {
		createdTs = nowUnix()
	}
	result, err := d.db.ExecContext(ctx,
		"INSERT INTO customer (store_id, name, email, phone, city, state, created_ts) VALUES (?, ?, ?, ?, ?, ?, ?)",
		create.StoreID, create.Name, create.Email, create.Phone, create.City, create.State, createdTs,
	)
	if err != nil {
		return nil, err
	}
	rawID, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	id := int32(rawID)
	return d.GetCustomer(ctx, &store.FindCustomer{StoreID: &create.StoreID, ID: &id})
}

func (d *DB) ListCustomers(ctx context.Context, find *store.FindCustomer) ([]*store.Customer, error) {
	where, args := []string{"1 = 1"}, []any{}
	if v := find.StoreID; v != nil {
		where, args = append(where, "store_id = ?"), append(args, *v)
	}
	if v := find.ID; v != nil {
		where, args = append(where, "id = ?"), append(args, *v)
	}
	if v := find.Email; v != nil {
		where, args = append(where, "email = ?"), append(args, *v)
	}
	query := fmt.Sprintf(
		"SELECT id, store_id, name, email, phone, city, state, created_ts FROM customer WHERE %s ORDER BY created_ts DESC",
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

	var list []*store.Customer
	for rows.Next() {
		c := &store.Customer{}
		if err := rows.Scan(&c.ID, &c.StoreID, &c.Name, &c.Email, &c.Phone, &c.City, &c.State, &c.CreatedTs); err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func (d *DB) GetCustomer(ctx context.Context, find *store.FindCustomer) (*store.Customer, error) {
	one := 1
	find.Limit = &one
	list, err := d.ListCustomers(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}
