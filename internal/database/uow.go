package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/Taqey/Foodo-sub000/internal/config"
	"github.com/Taqey/Foodo-sub000/internal/domain"
)

type UnitOfWork struct {
	pool *pgxpool.Pool
	n    names
}

func NewUnitOfWork(pool *pgxpool.Pool, t config.Tables) *UnitOfWork {
	return &UnitOfWork{pool: pool, n: names{t}}
}

// RunInTx commits only when fn returns nil. Rollback runs on every other
// path, including a cancelled ctx.
func (u *UnitOfWork) RunInTx(ctx context.Context, fn func(ctx context.Context, tx domain.OrderTx) error) error {
	tx, err := u.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("%w: begin: %v", domain.ErrTransaction, err)
	}
	defer tx.Rollback(context.WithoutCancel(ctx))

	if err := fn(ctx, &orderTx{tx: tx, n: u.n}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: commit: %v", domain.ErrTransaction, err)
	}
	return nil
}

type orderTx struct {
	tx pgx.Tx
	n  names
}

func (t *orderTx) CreateOrder(ctx context.Context, o *domain.Order) error {
	return t.tx.QueryRow(ctx, fmt.Sprintf(`
		INSERT INTO %s (customer_id, merchant_id, billing_address_id, status, tax, total,
		  driver_id, paid_amount, created_at)
		VALUES ($1, $2, $3, $4, $5::numeric, $6::numeric, $7, $8::numeric, $9)
		RETURNING id, created_at
	`, t.n.qt(t.n.Orders)),
		o.CustomerID, o.MerchantID, o.BillingAddressID, string(o.Status),
		o.Tax.String(), o.Total.String(), o.DriverID, decimalPtrString(o.PaidAmount), o.CreatedAt,
	).Scan(&o.ID, &o.CreatedAt)
}

func (t *orderTx) CreateLineItems(ctx context.Context, orderID int64, items []domain.LineItem) error {
	batch := &pgx.Batch{}
	for _, it := range items {
		batch.Queue(fmt.Sprintf(`
			INSERT INTO %s (order_id, product_id, price, quantity)
			VALUES ($1, $2, $3::numeric, $4)
			RETURNING id
		`, t.n.qt(t.n.Items)), orderID, it.ProductID, it.Price.String(), it.Quantity)
	}

	br := t.tx.SendBatch(ctx, batch)
	for i := range items {
		if err := br.QueryRow().Scan(&items[i].ID); err != nil {
			_ = br.Close()
			return fmt.Errorf("insert item %d: %w", i, err)
		}
		items[i].OrderID = orderID
	}
	return br.Close()
}

func (t *orderTx) UpdateTotals(ctx context.Context, orderID int64, tax, total decimal.Decimal) error {
	tag, err := t.tx.Exec(ctx, fmt.Sprintf(`
		UPDATE %s SET tax = $2::numeric, total = $3::numeric WHERE id = $1
	`, t.n.qt(t.n.Orders)), orderID, tax.String(), total.String())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: order %d", domain.ErrNotFound, orderID)
	}
	return nil
}

func (t *orderTx) GetForUpdate(ctx context.Context, orderID int64) (*domain.Order, error) {
	row := t.tx.QueryRow(ctx, fmt.Sprintf(`
		SELECT %s FROM %s WHERE id = $1 FOR UPDATE
	`, orderColumns, t.n.qt(t.n.Orders)), orderID)
	o, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: order %d", domain.ErrNotFound, orderID)
	}
	if err != nil {
		return nil, err
	}

	o.Items, err = queryItems(ctx, t.tx, t.n, orderID)
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (t *orderTx) UpdateStatus(ctx context.Context, orderID int64, status domain.Status) error {
	tag, err := t.tx.Exec(ctx, fmt.Sprintf(`
		UPDATE %s SET status = $2 WHERE id = $1
	`, t.n.qt(t.n.Orders)), orderID, string(status))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: order %d", domain.ErrNotFound, orderID)
	}
	return nil
}
