package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Taqey/Foodo-sub000/internal/config"
	"github.com/Taqey/Foodo-sub000/internal/domain"
)

// Lookups resolves the references an order placement needs.
type Lookups struct {
	pool *pgxpool.Pool
	n    names
}

func NewLookups(pool *pgxpool.Pool, t config.Tables) *Lookups {
	return &Lookups{pool: pool, n: names{t}}
}

func (l *Lookups) MerchantOfProduct(ctx context.Context, productID int64) (int64, error) {
	var merchantID int64
	err := l.pool.QueryRow(ctx, fmt.Sprintf(`SELECT merchant_id FROM %s WHERE id = $1`, l.n.qt(l.n.Products)), productID).
		Scan(&merchantID)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("%w: product %d", domain.ErrNotFound, productID)
	}
	return merchantID, err
}

func (l *Lookups) DefaultBillingAddress(ctx context.Context, customerID int64) (int64, error) {
	var id int64
	err := l.pool.QueryRow(ctx, fmt.Sprintf(`
		SELECT id FROM %s WHERE customer_id = $1 AND is_default LIMIT 1
	`, l.n.qt(l.n.Addresses)), customerID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, domain.ErrNoDefaultAddress
	}
	return id, err
}
