package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/Taqey/Foodo-sub000/internal/domain"
)

// Money columns are read as text so no pgx numeric codec is needed.
const orderColumns = `id, customer_id, merchant_id, billing_address_id, status,
	tax::text, total::text, driver_id, paid_amount::text, created_at`

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var (
		o          domain.Order
		status     string
		tax, total string
		paid       *string
	)
	err := row.Scan(&o.ID, &o.CustomerID, &o.MerchantID, &o.BillingAddressID, &status,
		&tax, &total, &o.DriverID, &paid, &o.CreatedAt)
	if err != nil {
		return nil, err
	}
	o.Status = domain.Status(status)
	if o.Tax, err = parseDecimal("tax", tax); err != nil {
		return nil, err
	}
	if o.Total, err = parseDecimal("total", total); err != nil {
		return nil, err
	}
	if paid != nil {
		p, err := parseDecimal("paid_amount", *paid)
		if err != nil {
			return nil, err
		}
		o.PaidAmount = &p
	}
	return &o, nil
}

func queryItems(ctx context.Context, q querier, n names, orderID int64) ([]domain.LineItem, error) {
	rows, err := q.Query(ctx, fmt.Sprintf(`
		SELECT id, order_id, product_id, price::text, quantity
		FROM %s WHERE order_id = $1 ORDER BY id
	`, n.qt(n.Items)), orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.LineItem
	for rows.Next() {
		var (
			it    domain.LineItem
			price string
		)
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &price, &it.Quantity); err != nil {
			return nil, err
		}
		if it.Price, err = parseDecimal("price", price); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func parseDecimal(column, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return d, fmt.Errorf("scan %s %q: %w", column, s, err)
	}
	return d, nil
}

func decimalPtrString(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}
