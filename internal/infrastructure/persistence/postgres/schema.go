package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS products (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		price NUMERIC(12,2) NOT NULL,
		image_url TEXT NOT NULL DEFAULT '',
		stock INT NOT NULL DEFAULT 0,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		allows_customization BOOLEAN NOT NULL DEFAULT FALSE
	);`,
	`CREATE TABLE IF NOT EXISTS delivery_areas (
		id BIGSERIAL PRIMARY KEY,
		city TEXT NOT NULL,
		neighborhood TEXT NOT NULL,
		price NUMERIC(12,2) NOT NULL,
		UNIQUE (city, neighborhood)
	);`,
	`CREATE TABLE IF NOT EXISTS addresses (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		street TEXT NOT NULL DEFAULT '',
		number TEXT NOT NULL DEFAULT '',
		complement TEXT NOT NULL DEFAULT '',
		neighborhood TEXT NOT NULL DEFAULT '',
		city TEXT NOT NULL DEFAULT '',
		state TEXT NOT NULL DEFAULT '',
		zip_code TEXT NOT NULL DEFAULT ''
	);`,
	`CREATE TABLE IF NOT EXISTS payment_methods (
		key TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		enabled BOOLEAN NOT NULL DEFAULT FALSE,
		description TEXT NOT NULL DEFAULT ''
	);`,
	`CREATE TABLE IF NOT EXISTS foods (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		active BOOLEAN NOT NULL DEFAULT TRUE
	);`,
	`CREATE TABLE IF NOT EXISTS substitution_groups (
		id TEXT PRIMARY KEY,
		product_id TEXT NOT NULL,
		default_food_id TEXT NOT NULL REFERENCES foods(id),
		active BOOLEAN NOT NULL DEFAULT TRUE,
		position INT NOT NULL DEFAULT 0
	);`,
	`CREATE TABLE IF NOT EXISTS substitution_alternatives (
		group_id TEXT NOT NULL REFERENCES substitution_groups(id) ON DELETE CASCADE,
		food_id TEXT NOT NULL REFERENCES foods(id),
		position INT NOT NULL DEFAULT 0,
		PRIMARY KEY (group_id, food_id)
	);`,
	`CREATE TABLE IF NOT EXISTS orders (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		address_id TEXT NOT NULL,
		payment_method TEXT NOT NULL,
		subtotal NUMERIC(12,2) NOT NULL,
		delivery_fee NUMERIC(12,2) NOT NULL,
		total NUMERIC(12,2) NOT NULL,
		status TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS orders_user_id_idx ON orders (user_id, created_at DESC);`,
	`CREATE TABLE IF NOT EXISTS order_items (
		id BIGSERIAL PRIMARY KEY,
		order_id TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		product_id TEXT NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		quantity INT NOT NULL,
		price NUMERIC(12,2) NOT NULL,
		notes TEXT NOT NULL DEFAULT ''
	);`,
	`CREATE TABLE IF NOT EXISTS cart_snapshots (
		key TEXT PRIMARY KEY,
		value BYTEA NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);`,
}

// EnsureSchema creates every table the service reads or writes.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
