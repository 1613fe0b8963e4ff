package postgres

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id VARCHAR(36) PRIMARY KEY,
		email VARCHAR(255) NOT NULL UNIQUE,
		username VARCHAR(255) NOT NULL UNIQUE,
		password_hash VARCHAR(100) NOT NULL,
		first_name VARCHAR(255) NOT NULL DEFAULT '',
		last_name VARCHAR(255) NOT NULL DEFAULT '',
		nickname VARCHAR(255) NOT NULL DEFAULT '',
		display_name VARCHAR(255) NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id VARCHAR(36) PRIMARY KEY,
		name VARCHAR(255) NOT NULL UNIQUE,
		price_cents INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id VARCHAR(36) PRIMARY KEY,
		customer_id VARCHAR(36) NOT NULL,
		status VARCHAR(20) NOT NULL,
		total_cents INTEGER NOT NULL DEFAULT 0,
		billing_first_name VARCHAR(255) NOT NULL DEFAULT '',
		billing_email VARCHAR(255) NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		id SERIAL PRIMARY KEY,
		order_id VARCHAR(36) NOT NULL REFERENCES orders(id),
		product_id VARCHAR(36) NOT NULL REFERENCES products(id),
		qty INTEGER NOT NULL,
		price_cents INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS order_meta (
		order_id VARCHAR(36) NOT NULL REFERENCES orders(id),
		meta_key VARCHAR(100) NOT NULL,
		meta_value TEXT NOT NULL,
		UNIQUE (order_id, meta_key)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_order_meta_kv ON order_meta (meta_key, meta_value)`,
	`CREATE TABLE IF NOT EXISTS order_notes (
		id SERIAL PRIMARY KEY,
		order_id VARCHAR(36) NOT NULL REFERENCES orders(id),
		note TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS settings (
		key VARCHAR(100) PRIMARY KEY,
		value TEXT NOT NULL
	)`,
}

// Migrate applies the schema. Every statement is idempotent, so this
// runs unconditionally at service start.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for i, m := range migrations {
		if _, err := pool.Exec(ctx, m); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	log.Println("migrations completed")
	return nil
}
