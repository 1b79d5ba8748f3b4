// Package mysql implements store.Driver on MySQL 8+.
package mysql

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
)

// DB implements store.Driver.
type DB struct {
	db *sql.DB
}

// New opens a MySQL connection with the given DSN, e.g.
// "vendora:vendora@tcp(127.0.0.1:3306)/vendora?parseTime=false".
func New(dsn string) (*DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open mysql")
	}
	if err := db.Ping(); err != nil {
		return nil, errors.Wrap(err, "ping mysql")
	}
	return &DB{db: db}, nil
}

// Close closes the database handle.
func (d *DB) Close() error {
	return d.db.Close()
}

func nowUnix() int64 { return time.Now().Unix() }

// EnsureTables creates any missing tables and indexes.
func (d *DB) EnsureTables(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS product (
			id             INT NOT NULL AUTO_INCREMENT PRIMARY KEY,
			uid            VARCHAR(256) NOT NULL UNIQUE,
			store_id       INT NOT NULL,
			title          TEXT NOT NULL,
			description    TEXT NOT NULL,
			category       VARCHAR(256) NOT NULL DEFAULT '',
			tags           TEXT NOT NULL,
			sku            VARCHAR(256) NOT NULL DEFAULT '',
			price          BIGINT NOT NULL DEFAULT 0,
			stock          INT NOT NULL DEFAULT 0,
			track_stock    TINYINT(1) NOT NULL DEFAULT 1,
			status         VARCHAR(32) NOT NULL DEFAULT 'draft',
			featured       TINYINT(1) NOT NULL DEFAULT 0,
			lead_time_days INT NOT NULL DEFAULT 14,
			created_ts     BIGINT NOT NULL DEFAULT 0,
			updated_ts     BIGINT NOT NULL DEFAULT 0,
			INDEX idx_product_store (store_id)
		)`,
		`CREATE TABLE IF NOT EXISTS customer (
			id         INT NOT NULL AUTO_INCREMENT PRIMARY KEY,
			store_id   INT NOT NULL,
			name       VARCHAR(256) NOT NULL,
			email      VARCHAR(256) NOT NULL DEFAULT '',
			phone      VARCHAR(64) NOT NULL DEFAULT '',
			city       VARCHAR(128) NOT NULL DEFAULT '',
			state      VARCHAR(128) NOT NULL DEFAULT '',
			created_ts BIGINT NOT NULL DEFAULT 0,
			INDEX idx_customer_store (store_id)
		)`,
		`CREATE TABLE IF NOT EXISTS customer_order (
			id             INT NOT NULL AUTO_INCREMENT PRIMARY KEY,
			uid            VARCHAR(256) NOT NULL UNIQUE,
			store_id       INT NOT NULL,
			customer_id    INT NOT NULL,
			status         VARCHAR(32) NOT NULL DEFAULT 'pending',
			payment_method VARCHAR(32) NOT NULL DEFAULT '',
			subtotal       BIGINT NOT NULL DEFAULT 0,
			discount       BIGINT NOT NULL DEFAULT 0,
			total          BIGINT NOT NULL DEFAULT 0,
			coupon_code    VARCHAR(64) NOT NULL DEFAULT '',
			created_ts     BIGINT NOT NULL DEFAULT 0,
			shipped_ts     BIGINT NOT NULL DEFAULT 0,
			INDEX idx_order_store_created (store_id, created_ts)
		)`,
		`CREATE TABLE IF NOT EXISTS order_item (
			id         INT NOT NULL AUTO_INCREMENT PRIMARY KEY,
			order_id   INT NOT NULL,
			product_id INT NOT NULL,
			title      TEXT NOT NULL,
			quantity   INT NOT NULL DEFAULT 1,
			price      BIGINT NOT NULL DEFAULT 0,
			INDEX idx_order_item_order (order_id),
			CONSTRAINT fk_order_item_order FOREIGN KEY (order_id) REFERENCES customer_order(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS coupon (
			id         INT NOT NULL AUTO_INCREMENT PRIMARY KEY,
			store_id   INT NOT NULL,
			code       VARCHAR(64) NOT NULL,
			kind       VARCHAR(16) NOT NULL DEFAULT 'percent',
			value      BIGINT NOT NULL DEFAULT 0,
			max_uses   INT,
			times_used INT NOT NULL DEFAULT 0,
			active     TINYINT(1) NOT NULL DEFAULT 1,
			expires_ts BIGINT NOT NULL DEFAULT 0,
			created_ts BIGINT NOT NULL DEFAULT 0,
			UNIQUE KEY uq_coupon_store_code (store_id, code)
		)`,
		`CREATE TABLE IF NOT EXISTS review (
			id          INT NOT NULL AUTO_INCREMENT PRIMARY KEY,
			store_id    INT NOT NULL,
			product_id  INT NOT NULL,
			customer_id INT NOT NULL DEFAULT 0,
			rating      INT NOT NULL,
			status      VARCHAR(32) NOT NULL DEFAULT 'pending',
			body        TEXT NOT NULL,
			created_ts  BIGINT NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS abandoned_cart (
			id          INT NOT NULL AUTO_INCREMENT PRIMARY KEY,
			store_id    INT NOT NULL,
			customer_id INT NOT NULL DEFAULT 0,
			total       BIGINT NOT NULL DEFAULT 0,
			recovered   TINYINT(1) NOT NULL DEFAULT 0,
			created_ts  BIGINT NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS notification (
			id         INT NOT NULL AUTO_INCREMENT PRIMARY KEY,
			store_id   INT NOT NULL,
			kind       VARCHAR(32) NOT NULL DEFAULT 'system',
			body       TEXT NOT NULL,
			is_read    TINYINT(1) NOT NULL DEFAULT 0,
			created_ts BIGINT NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS assistant_session (
			id         INT NOT NULL AUTO_INCREMENT PRIMARY KEY,
			uid        VARCHAR(256) NOT NULL UNIQUE,
			store_id   INT NOT NULL,
			title      TEXT NOT NULL,
			summary    TEXT NOT NULL,
			created_ts BIGINT NOT NULL DEFAULT 0,
			updated_ts BIGINT NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS assistant_message (
			id          INT NOT NULL AUTO_INCREMENT PRIMARY KEY,
			session_id  INT NOT NULL,
			role        VARCHAR(32) NOT NULL,
			content     TEXT NOT NULL,
			tool_name   VARCHAR(256) NOT NULL DEFAULT '',
			token_count INT NOT NULL DEFAULT 0,
			created_ts  BIGINT NOT NULL DEFAULT 0,
			INDEX idx_assistant_message_session (session_id),
			CONSTRAINT fk_assistant_message_session FOREIGN KEY (session_id) REFERENCES assistant_session(id) ON DELETE CASCADE
		)`,
	}
	for _, stmt := range stmts {
		if _, err := d.db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(err, "ensure tables")
		}
	}
	return nil
}
