package service

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/Taqey/Foodo-sub000/internal/domain"
)

var errInjected = errors.New("injected failure")

// memDB is a transactional in-memory order store. Writes are staged per
// transaction and only become visible on commit; transactions are serialized,
// standing in for row locks.
type memDB struct {
	mu        sync.Mutex
	nextOrder int64
	nextItem  int64
	orders    map[int64]domain.Order
	items     map[int64][]domain.LineItem
	failOn    string
	commits   int
	rollbacks int
}

func newMemDB() *memDB {
	return &memDB{
		orders: make(map[int64]domain.Order),
		items:  make(map[int64][]domain.LineItem),
	}
}

func (db *memDB) RunInTx(ctx context.Context, fn func(ctx context.Context, tx domain.OrderTx) error) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	tx := &memTx{
		db:        db,
		orders:    maps.Clone(db.orders),
		items:     maps.Clone(db.items),
		nextOrder: db.nextOrder,
		nextItem:  db.nextItem,
	}
	if err := fn(ctx, tx); err != nil {
		db.rollbacks++
		return err
	}
	if err := ctx.Err(); err != nil {
		db.rollbacks++
		return fmt.Errorf("%w: commit: %v", domain.ErrTransaction, err)
	}
	db.orders, db.items = tx.orders, tx.items
	db.nextOrder, db.nextItem = tx.nextOrder, tx.nextItem
	db.commits++
	return nil
}

func (db *memDB) seed(o domain.Order) int64 {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.nextOrder++
	o.ID = db.nextOrder
	o.Items = nil
	db.orders[o.ID] = o
	return o.ID
}

func (db *memDB) order(id int64) (domain.Order, []domain.LineItem, bool) {
	db.mu.Lock()
	defer db.mu.Unlock()
	o, ok := db.orders[id]
	return o, db.items[id], ok
}

func (db *memDB) counts() (orders, items int) {
	db.mu.Lock()
	defer db.mu.Unlock()
	for _, its := range db.items {
		items += len(its)
	}
	return len(db.orders), items
}

type memTx struct {
	db        *memDB
	orders    map[int64]domain.Order
	items     map[int64][]domain.LineItem
	nextOrder int64
	nextItem  int64
}

func (tx *memTx) check(ctx context.Context, op string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if tx.db.failOn == op {
		return errInjected
	}
	return nil
}

func (tx *memTx) CreateOrder(ctx context.Context, o *domain.Order) error {
	if err := tx.check(ctx, "CreateOrder"); err != nil {
		return err
	}
	tx.nextOrder++
	o.ID = tx.nextOrder
	stored := *o
	stored.Items = nil
	tx.orders[o.ID] = stored
	return nil
}

func (tx *memTx) CreateLineItems(ctx context.Context, orderID int64, items []domain.LineItem) error {
	if err := tx.check(ctx, "CreateLineItems"); err != nil {
		return err
	}
	if _, ok := tx.orders[orderID]; !ok {
		return fmt.Errorf("%w: order %d", domain.ErrNotFound, orderID)
	}
	for i := range items {
		tx.nextItem++
		items[i].ID = tx.nextItem
		items[i].OrderID = orderID
	}
	tx.items[orderID] = append([]domain.LineItem(nil), items...)
	return nil
}

func (tx *memTx) UpdateTotals(ctx context.Context, orderID int64, tax, total decimal.Decimal) error {
	if err := tx.check(ctx, "UpdateTotals"); err != nil {
		return err
	}
	o, ok := tx.orders[orderID]
	if !ok {
		return fmt.Errorf("%w: order %d", domain.ErrNotFound, orderID)
	}
	o.Tax, o.Total = tax, total
	tx.orders[orderID] = o
	return nil
}

func (tx *memTx) GetForUpdate(ctx context.Context, orderID int64) (*domain.Order, error) {
	if err := tx.check(ctx, "GetForUpdate"); err != nil {
		return nil, err
	}
	o, ok := tx.orders[orderID]
	if !ok {
		return nil, fmt.Errorf("%w: order %d", domain.ErrNotFound, orderID)
	}
	o.Items = append([]domain.LineItem(nil), tx.items[orderID]...)
	return &o, nil
}

func (tx *memTx) UpdateStatus(ctx context.Context, orderID int64, status domain.Status) error {
	if err := tx.check(ctx, "UpdateStatus"); err != nil {
		return err
	}
	o, ok := tx.orders[orderID]
	if !ok {
		return fmt.Errorf("%w: order %d", domain.ErrNotFound, orderID)
	}
	o.Status = status
	tx.orders[orderID] = o
	return nil
}
