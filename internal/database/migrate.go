package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Taqey/Foodo-sub000/internal/config"
)

func schemaStatements(t config.Tables) []string {
	n := names{t}
	return []string{
		fmt.Sprintf(`CREATE SCHEMA IF NOT EXISTS "%s"`, t.Schema),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id          BIGSERIAL PRIMARY KEY,
			merchant_id BIGINT NOT NULL,
			name        TEXT NOT NULL,
			price       NUMERIC(12,2) NOT NULL CHECK (price >= 0)
		)`, n.qt(t.Products)),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id          BIGSERIAL PRIMARY KEY,
			customer_id BIGINT NOT NULL,
			line        TEXT NOT NULL DEFAULT '',
			is_default  BOOLEAN NOT NULL DEFAULT FALSE
		)`, n.qt(t.Addresses)),
		fmt.Sprintf(`CREATE UNIQUE INDEX IF NOT EXISTS "%s_default_uq" ON %s (customer_id) WHERE is_default`,
			t.Addresses, n.qt(t.Addresses)),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id                 BIGSERIAL PRIMARY KEY,
			customer_id        BIGINT NOT NULL,
			merchant_id        BIGINT NOT NULL,
			billing_address_id BIGINT NOT NULL REFERENCES %s (id),
			status             TEXT NOT NULL,
			tax                NUMERIC(12,2) NOT NULL DEFAULT 0,
			total              NUMERIC(12,2) NOT NULL DEFAULT 0,
			driver_id          BIGINT,
			paid_amount        NUMERIC(12,2),
			created_at         TIMESTAMPTZ NOT NULL DEFAULT now()
		)`, n.qt(t.Orders), n.qt(t.Addresses)),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS "%s_customer_idx" ON %s (customer_id, created_at DESC)`, t.Orders, n.qt(t.Orders)),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS "%s_merchant_idx" ON %s (merchant_id, created_at DESC)`, t.Orders, n.qt(t.Orders)),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id         BIGSERIAL PRIMARY KEY,
			order_id   BIGINT NOT NULL REFERENCES %s (id) ON DELETE CASCADE,
			product_id BIGINT NOT NULL REFERENCES %s (id),
			price      NUMERIC(12,2) NOT NULL,
			quantity   INT NOT NULL CHECK (quantity >= 1)
		)`, n.qt(t.Items), n.qt(t.Orders), n.qt(t.Products)),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS "%s_order_idx" ON %s (order_id)`, t.Items, n.qt(t.Items)),
		// Derived data only; losing it on crash is fine.
		fmt.Sprintf(`CREATE UNLOGGED TABLE IF NOT EXISTS %s (
			key         TEXT PRIMARY KEY,
			value       BYTEA NOT NULL,
			fresh_until TIMESTAMPTZ NOT NULL,
			stale_until TIMESTAMPTZ NOT NULL
		)`, n.qt(t.CacheEntries)),
	}
}

// Migrate creates the schema if it does not exist yet.
func Migrate(ctx context.Context, pool *pgxpool.Pool, t config.Tables) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, stmt := range schemaStatements(t) {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return tx.Commit(ctx)
}
