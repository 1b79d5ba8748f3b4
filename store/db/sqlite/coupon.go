package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/vendora/vendora/store"
)

func (d *DB) CreateCoupon(ctx context.Context, create *store.Coupon) (*store.Coupon, error) {
	if create.Kind == "" {
		create.Kind = store.CouponKindPercent
	}
	if _, err := d.db.ExecContext(ctx,
		"INSERT INTO coupon (store_id, code, kind, value, max_uses, times_used, active, expires_ts) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		create.StoreID, create.Code, create.Kind, create.Value, create.MaxUses, create.TimesUsed, create.Active, create.ExpiresTs,
	); err != nil {
		return nil, err
	}
	list, err := d.ListCoupons(ctx, &store.FindCoupon{StoreID: &create.StoreID, Code: &create.Code})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (d *DB) UpdateCoupon(ctx context.Context, update *store.UpdateCoupon) (*store.Coupon, error) {
	set, args := []string{}, []any{}
	if v := update.Active; v != nil {
		set, args = append(set, "active = ?"), append(args, *v)
	}
	if v := update.MaxUses; v != nil {
		set, args = append(set, "max_uses = ?"), append(args, *v)
	}
	if v := update.ExpiresTs; v != nil {
		set, args = append(set, "expires_ts = ?"), append(args, *v)
	}
	if len(set) > 0 {
		args = append(args, update.ID, update.StoreID)
		stmt := fmt.Sprintf("UPDATE coupon SET %s WHERE id = ? AND store_id = ?", strings.Join(set, ", "))
		if _, err := d.db.ExecContext(ctx, stmt, args...); err != nil {
			return nil, err
		}
	}
	rows, err := d.db.QueryContext(ctx,
		"SELECT id, store_id, code, kind, value, max_uses, times_used, active, expires_ts, created_ts FROM coupon WHERE id = ? AND store_id = ?",
		update.ID, update.StoreID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	if !rows.Next() {
		return nil, rows.Err()
	}
	c := &store.Coupon{}
	if err := rows.Scan(&c.ID, &c.StoreID, &c.Code, &c.Kind, &c.Value, &c.MaxUses, &c.TimesUsed, &c.Active, &c.ExpiresTs, &c.CreatedTs); err != nil {
		return nil, err
	}
	return c, nil
}

func (d *DB) ListCoupons(ctx context.Context, find *store.FindCoupon) ([]*store.Coupon, error) {
	where, args := []string{"1 = 1"}, []any{}
	if v := find.StoreID; v != nil {
		where, args = append(where, "store_id = ?"), append(args, *v)
	}
	if v := find.Code; v != nil {
		where, args = append(where, "code = ?"), append(args, *v)
	}
	if find.ActiveOnly {
		where = append(where, "active = 1")
	}
	query := fmt.Sprintf(
		"SELECT id, store_id, code, kind, value, max_uses, times_used, active, expires_ts, created_ts FROM coupon WHERE %s ORDER BY created_ts DESC",
		strings.Join(where, " AND "),
	)
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*store.Coupon
	for rows.Next() {
		c := &store.Coupon{}
		if err := rows.Scan(&c.ID, &c.StoreID, &c.Code, &c.Kind, &c.Value, &c.MaxUses, &c.TimesUsed, &c.Active, &c.ExpiresTs, &c.CreatedTs); err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func (d *DB) DeleteCoupon(ctx context.Context, storeID int32, code string) error {
	_, err := d.db.ExecContext(ctx, "DELETE FROM coupon WHERE store_id = ? AND code = ?", storeID, code)
	return err
}
