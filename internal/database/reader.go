package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Taqey/Foodo-sub000/internal/config"
	"github.com/Taqey/Foodo-sub000/internal/domain"
)

// OrderReader builds the read projections. It never writes.
type OrderReader struct {
	pool *pgxpool.Pool
	n    names
}

func NewOrderReader(pool *pgxpool.Pool, t config.Tables) *OrderReader {
	return &OrderReader{pool: pool, n: names{t}}
}

func (r *OrderReader) CustomerOrders(ctx context.Context, customerID int64, p domain.Page) ([]domain.OrderSummary, error) {
	return r.listOrders(ctx, "customer_id", customerID, p)
}

func (r *OrderReader) MerchantOrders(ctx context.Context, merchantID int64, p domain.Page) ([]domain.OrderSummary, error) {
	return r.listOrders(ctx, "merchant_id", merchantID, p)
}

func (r *OrderReader) listOrders(ctx context.Context, column string, id int64, p domain.Page) ([]domain.OrderSummary, error) {
	rows, err := r.pool.Query(ctx, fmt.Sprintf(`
		SELECT o.id, o.customer_id, o.merchant_id, o.status, o.total::text,
		       COUNT(i.id)::int, o.created_at
		FROM %s o
		LEFT JOIN %s i ON i.order_id = o.id
		WHERE o.%s = $1
		GROUP BY o.id
		ORDER BY o.created_at DESC, o.id DESC
		LIMIT $2 OFFSET $3
	`, r.n.qt(r.n.Orders), r.n.qt(r.n.Items), column), id, p.Size, p.Offset())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.OrderSummary, 0, p.Size)
	for rows.Next() {
		var (
			s      domain.OrderSummary
			status string
		)
		if err := rows.Scan(&s.ID, &s.CustomerID, &s.MerchantID, &status, &s.Total, &s.ItemCount, &s.CreatedAt); err != nil {
			return nil, err
		}
		s.Status = domain.Status(status)
		out = append(out, s)
	}
	return out, rows.Err()
}

// MerchantCustomers lists everyone who ordered from the merchant, most
// recent first. Cancelled orders count as orders but not as spend.
func (r *OrderReader) MerchantCustomers(ctx context.Context, merchantID int64, p domain.Page) ([]domain.CustomerSummary, error) {
	rows, err := r.pool.Query(ctx, fmt.Sprintf(`
		SELECT customer_id,
		       COUNT(*)::int,
		       (COUNT(*) FILTER (WHERE status = $2))::int,
		       COALESCE(SUM(total) FILTER (WHERE status <> $3), 0)::text,
		       MAX(created_at)
		FROM %s
		WHERE merchant_id = $1
		GROUP BY customer_id
		ORDER BY MAX(created_at) DESC, customer_id
		LIMIT $4 OFFSET $5
	`, r.n.qt(r.n.Orders)), merchantID, string(domain.StatusCompleted), string(domain.StatusCancelled), p.Size, p.Offset())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.CustomerSummary, 0, p.Size)
	for rows.Next() {
		var (
			c    domain.CustomerSummary
			last time.Time
		)
		if err := rows.Scan(&c.CustomerID, &c.Orders, &c.CompletedOrders, &c.Spent, &last); err != nil {
			return nil, err
		}
		c.LastOrderAt = last
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *OrderReader) OrderDetail(ctx context.Context, orderID int64) (domain.OrderDetail, error) {
	row := r.pool.QueryRow(ctx, fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, orderColumns, r.n.qt(r.n.Orders)), orderID)
	o, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.OrderDetail{}, fmt.Errorf("%w: order %d", domain.ErrNotFound, orderID)
	}
	if err != nil {
		return domain.OrderDetail{}, err
	}
	if o.Items, err = queryItems(ctx, r.pool, r.n, orderID); err != nil {
		return domain.OrderDetail{}, err
	}
	return toDetail(o), nil
}

func toDetail(o *domain.Order) domain.OrderDetail {
	d := domain.OrderDetail{
		ID:               o.ID,
		CustomerID:       o.CustomerID,
		MerchantID:       o.MerchantID,
		Status:           o.Status,
		BillingAddressID: o.BillingAddressID,
		Tax:              o.Tax.StringFixed(2),
		Total:            o.Total.StringFixed(2),
		DriverID:         o.DriverID,
		CreatedAt:        o.CreatedAt,
		Items:            make([]domain.LineItemDetail, 0, len(o.Items)),
	}
	if o.PaidAmount != nil {
		s := o.PaidAmount.StringFixed(2)
		d.PaidAmount = &s
	}
	for _, it := range o.Items {
		d.Items = append(d.Items, domain.LineItemDetail{
			ID:        it.ID,
			ProductID: it.ProductID,
			Price:     it.Price.StringFixed(2),
			Quantity:  it.Quantity,
		})
	}
	return d
}
