// Package sqlite implements store.Driver on SQLite via the pure-Go
// modernc.org driver. It is the default dialect and the one used by tests.
package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

func nowUnix() int64 { return time.Now().Unix() }

// DB implements store.Driver.
type DB struct {
	db *sql.DB
}

// New opens (or creates) the SQLite database at dsn.
func New(dsn string) (*DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}
	// SQLite handles one writer at a time; a single connection avoids
	// SQLITE_BUSY under concurrent aggregation reads.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, errors.Wrap(err, "enable foreign keys")
	}
	return &DB{db: db}, nil
}

// Close closes the database handle.
func (d *DB) Close() error {
	return d.db.Close()
}

// EnsureTables creates any missing tables and indexes.
func (d *DB) EnsureTables(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS product (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			uid            TEXT NOT NULL UNIQUE,
			store_id       INTEGER NOT NULL,
			title          TEXT NOT NULL,
			description    TEXT NOT NULL DEFAULT '',
			category       TEXT NOT NULL DEFAULT '',
			tags           TEXT NOT NULL DEFAULT '',
			sku            TEXT NOT NULL DEFAULT '',
			price          INTEGER NOT NULL DEFAULT 0,
			stock          INTEGER NOT NULL DEFAULT 0,
			track_stock    INTEGER NOT NULL DEFAULT 1,
			status         TEXT NOT NULL DEFAULT 'draft',
			featured       INTEGER NOT NULL DEFAULT 0,
			lead_time_days INTEGER NOT NULL DEFAULT 14,
			created_ts     BIGINT NOT NULL DEFAULT (strftime('%s', 'now')),
			updated_ts     BIGINT NOT NULL DEFAULT (strftime('%s', 'now'))
		)`,
		`CREATE INDEX IF NOT EXISTS idx_product_store ON product(store_id)`,
		`CREATE TABLE IF NOT EXISTS customer (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			store_id   INTEGER NOT NULL,
			name       TEXT NOT NULL,
			email      TEXT NOT NULL DEFAULT '',
			phone      TEXT NOT NULL DEFAULT '',
			city       TEXT NOT NULL DEFAULT '',
			state      TEXT NOT NULL DEFAULT '',
			created_ts BIGINT NOT NULL DEFAULT (strftime('%s', 'now'))
		)`,
		`CREATE INDEX IF NOT EXISTS idx_customer_store ON customer(store_id)`,
		`CREATE TABLE IF NOT EXISTS customer_order (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			uid            TEXT NOT NULL UNIQUE,
			store_id       INTEGER NOT NULL,
			customer_id    INTEGER NOT NULL,
			status         TEXT NOT NULL DEFAULT 'pending',
			payment_method TEXT NOT NULL DEFAULT '',
			subtotal       INTEGER NOT NULL DEFAULT 0,
			discount       INTEGER NOT NULL DEFAULT 0,
			total          INTEGER NOT NULL DEFAULT 0,
			coupon_code    TEXT NOT NULL DEFAULT '',
			created_ts     BIGINT NOT NULL DEFAULT (strftime('%s', 'now')),
			shipped_ts     BIGINT NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_order_store_created ON customer_order(store_id, created_ts)`,
		`CREATE TABLE IF NOT EXISTS order_item (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			order_id   INTEGER NOT NULL REFERENCES customer_order(id) ON DELETE CASCADE,
			product_id INTEGER NOT NULL,
			title      TEXT NOT NULL,
			quantity   INTEGER NOT NULL DEFAULT 1,
			price      INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_order_item_order ON order_item(order_id)`,
		`CREATE TABLE IF NOT EXISTS coupon (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			store_id   INTEGER NOT NULL,
			code       TEXT NOT NULL,
			kind       TEXT NOT NULL DEFAULT 'percent',
			value      INTEGER NOT NULL DEFAULT 0,
			max_uses   INTEGER,
			times_used INTEGER NOT NULL DEFAULT 0,
			active     INTEGER NOT NULL DEFAULT 1,
			expires_ts BIGINT NOT NULL DEFAULT 0,
			created_ts BIGINT NOT NULL DEFAULT (strftime('%s', 'now')),
			UNIQUE(store_id, code)
		)`,
		`CREATE TABLE IF NOT EXISTS review (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			store_id    INTEGER NOT NULL,
			product_id  INTEGER NOT NULL,
			customer_id INTEGER NOT NULL DEFAULT 0,
			rating      INTEGER NOT NULL,
			status      TEXT NOT NULL DEFAULT 'pending',
			body        TEXT NOT NULL DEFAULT '',
			created_ts  BIGINT NOT NULL DEFAULT (strftime('%s', 'now'))
		)`,
		`CREATE TABLE IF NOT EXISTS abandoned_cart (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			store_id    INTEGER NOT NULL,
			customer_id INTEGER NOT NULL DEFAULT 0,
			total       INTEGER NOT NULL DEFAULT 0,
			recovered   INTEGER NOT NULL DEFAULT 0,
			created_ts  BIGINT NOT NULL DEFAULT (strftime('%s', 'now'))
		)`,
		`CREATE TABLE IF NOT EXISTS notification (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			store_id   INTEGER NOT NULL,
			kind       TEXT NOT NULL DEFAULT 'system',
			body       TEXT NOT NULL DEFAULT '',
			is_read    INTEGER NOT NULL DEFAULT 0,
			created_ts BIGINT NOT NULL DEFAULT (strftime('%s', 'now'))
		)`,
		`CREATE TABLE IF NOT EXISTS assistant_session (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			uid        TEXT NOT NULL UNIQUE,
			store_id   INTEGER NOT NULL,
			title      TEXT NOT NULL DEFAULT 'New Chat',
			summary    TEXT NOT NULL DEFAULT '',
			created_ts BIGINT NOT NULL DEFAULT (strftime('%s', 'now')),
			updated_ts BIGINT NOT NULL DEFAULT (strftime('%s', 'now'))
		)`,
		`CREATE TABLE IF NOT EXISTS assistant_message (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id  INTEGER NOT NULL REFERENCES assistant_session(id) ON DELETE CASCADE,
			role        TEXT NOT NULL,
			content     TEXT NOT NULL,
			tool_name   TEXT NOT NULL DEFAULT '',
			token_count INTEGER NOT NULL DEFAULT 0,
			created_ts  BIGINT NOT NULL DEFAULT (strftime('%s', 'now'))
		)`,
		`CREATE INDEX IF NOT EXISTS idx_assistant_message_session ON assistant_message(session_id)`,
	}
	for _, stmt := range stmts {
		if _, err := d.db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(err, "ensure tables")
		}
	}
	return nil
}
