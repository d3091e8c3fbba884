package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

//go:generate mockgen -source internal/domain/repo.go -destination=internal/application/service/repo_mock_test.go -package=service

// OrderTx is the order table access available inside one transaction.
type OrderTx interface {
	// CreateOrder inserts o and fills in ID and CreatedAt.
	CreateOrder(ctx context.Context, o *Order) error
	// CreateLineItems inserts items for orderID and fills in their IDs.
	CreateLineItems(ctx context.Context, orderID int64, items []LineItem) error
	UpdateTotals(ctx context.Context, orderID int64, tax, total decimal.Decimal) error
	// GetForUpdate loads the order and locks its row until the transaction ends.
	GetForUpdate(ctx context.Context, orderID int64) (*Order, error)
	UpdateStatus(ctx context.Context, orderID int64, status Status) error
}

// UnitOfWork commits when fn returns nil and rolls back otherwise.
type UnitOfWork interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context, tx OrderTx) error) error
}
