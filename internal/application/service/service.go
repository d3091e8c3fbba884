package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Taqey/Foodo-sub000/internal/cache"
	"github.com/Taqey/Foodo-sub000/internal/domain"
	"github.com/Taqey/Foodo-sub000/internal/observability"
)

//go:generate mockgen -source internal/application/service/service.go -destination=internal/application/service/service_mock_test.go -package=service

type Catalog interface {
	MerchantOfProduct(ctx context.Context, productID int64) (int64, error)
}

type AddressBook interface {
	DefaultBillingAddress(ctx context.Context, customerID int64) (int64, error)
}

// Invalidator is the part of the cache coordinator the write path needs.
type Invalidator interface {
	Remove(ctx context.Context, key string) error
	RemoveByPrefix(ctx context.Context, prefix string) error
}

type ItemInput struct {
	ProductID int64           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

func (i ItemInput) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.ProductID, validation.Required, validation.Min(int64(1))),
		validation.Field(&i.Quantity, validation.Required, validation.Min(1)),
		validation.Field(&i.UnitPrice, validation.By(func(v any) error {
			p, _ := v.(decimal.Decimal)
			if p.IsNegative() {
				return errors.New("must not be negative")
			}
			if !p.Equal(p.Round(2)) {
				return errors.New("must have at most 2 decimal places")
			}
			return nil
		})),
	)
}

// PlaceOrderCommand carries unit prices from the product listing the
// customer saw; they are not re-read from the catalog.
type PlaceOrderCommand struct {
	CustomerID int64       `json:"customer_id"`
	Items      []ItemInput `json:"items"`
}

func (c PlaceOrderCommand) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.CustomerID, validation.Required, validation.Min(int64(1))),
		validation.Field(&c.Items, validation.Required),
	)
}

// Service is the single write path for orders: placement and both kinds of
// status change.
type Service struct {
	uow       domain.UnitOfWork
	catalog   Catalog
	addresses AddressBook
	tax       domain.TaxCalculator
	cache     Invalidator
	logger    *zap.Logger
	metrics   observability.Metrics
	now       func() time.Time
}

func New(uow domain.UnitOfWork, catalog Catalog, addresses AddressBook, tax domain.TaxCalculator,
	cache Invalidator, logger *zap.Logger, metrics observability.Metrics) *Service {
	return &Service{
		uow:       uow,
		catalog:   catalog,
		addresses: addresses,
		tax:       tax,
		cache:     cache,
		logger:    logger,
		metrics:   metrics,
		now:       time.Now,
	}
}

func (s *Service) PlaceOrder(ctx context.Context, cmd PlaceOrderCommand) Result {
	start := time.Now()
	res := s.placeOrder(ctx, cmd)
	s.metrics.ObserveOrderOp("place", string(res.Code), observability.SinceMs(start))
	return res
}

func (s *Service) placeOrder(ctx context.Context, cmd PlaceOrderCommand) Result {
	if err := cmd.Validate(); err != nil {
		return s.fail("place order", 0, fmt.Errorf("%w: invalid order: %v", domain.ErrValidation, err))
	}

	merchantID, err := s.resolveMerchant(ctx, cmd.Items)
	if err != nil {
		return s.fail("place order", 0, err)
	}
	billingID, err := s.addresses.DefaultBillingAddress(ctx, cmd.CustomerID)
	if err != nil {
		return s.fail("place order", 0, err)
	}

	items := make([]domain.LineItem, 0, len(cmd.Items))
	for _, in := range cmd.Items {
		items = append(items, domain.LineItem{ProductID: in.ProductID, Price: in.UnitPrice, Quantity: in.Quantity})
	}
	order, err := domain.NewOrder(cmd.CustomerID, merchantID, billingID, items, s.now().UTC())
	if err != nil {
		return s.fail("place order", 0, err)
	}

	err = s.uow.RunInTx(ctx, func(ctx context.Context, tx domain.OrderTx) error {
		if err := tx.CreateOrder(ctx, order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		if err := tx.CreateLineItems(ctx, order.ID, order.Items); err != nil {
			return fmt.Errorf("create line items: %w", err)
		}
		order.ApplyTax(s.tax)
		if err := tx.UpdateTotals(ctx, order.ID, order.Tax, order.Total); err != nil {
			return fmt.Errorf("update totals: %w", err)
		}
		return ctx.Err()
	})
	if err != nil {
		return s.fail("place order", 0, err)
	}

	s.invalidate(ctx, nil, []string{
		cache.CustomerOrderListPrefix(order.CustomerID),
		cache.MerchantOrderListPrefix(order.MerchantID),
		cache.MerchantCustomerListPrefix(order.MerchantID),
	})

	s.logger.Info("order placed",
		zap.Int64("order_id", order.ID),
		zap.Int64("customer_id", order.CustomerID),
		zap.Int64("merchant_id", order.MerchantID),
		zap.String("total", order.Total.StringFixed(2)),
	)
	return ok(order.ID, "order placed")
}

// resolveMerchant returns the merchant owning every product in items.
// Carts spanning merchants are rejected rather than split.
func (s *Service) resolveMerchant(ctx context.Context, items []ItemInput) (int64, error) {
	var merchantID int64
	seen := make(map[int64]struct{}, len(items))
	for _, it := range items {
		if _, dup := seen[it.ProductID]; dup {
			continue
		}
		seen[it.ProductID] = struct{}{}

		m, err := s.catalog.MerchantOfProduct(ctx, it.ProductID)
		if err != nil {
			return 0, err
		}
		if merchantID == 0 {
			merchantID = m
			continue
		}
		if m != merchantID {
			return 0, fmt.Errorf("%w: product %d belongs to merchant %d, not %d",
				domain.ErrMixedMerchants, it.ProductID, m, merchantID)
		}
	}
	return merchantID, nil
}

// UpdateOrderStatus is the merchant-driven transition.
func (s *Service) UpdateOrderStatus(ctx context.Context, orderID int64, status domain.Status) Result {
	start := time.Now()
	res := s.transition(ctx, "update status", orderID, status)
	s.metrics.ObserveOrderOp("update_status", string(res.Code), observability.SinceMs(start))
	return res
}

// CancelOrder is the customer-driven transition to Cancelled.
func (s *Service) CancelOrder(ctx context.Context, orderID int64) Result {
	start := time.Now()
	res := s.transition(ctx, "cancel order", orderID, domain.StatusCancelled)
	s.metrics.ObserveOrderOp("cancel", string(res.Code), observability.SinceMs(start))
	return res
}

func (s *Service) transition(ctx context.Context, op string, orderID int64, target domain.Status) Result {
	var order *domain.Order
	err := s.uow.RunInTx(ctx, func(ctx context.Context, tx domain.OrderTx) error {
		o, err := tx.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if err := o.TransitionTo(target); err != nil {
			return err
		}
		if err := tx.UpdateStatus(ctx, orderID, target); err != nil {
			return fmt.Errorf("update status: %w", err)
		}
		order = o
		return ctx.Err()
	})
	if err != nil {
		return s.fail(op, orderID, err)
	}

	s.invalidate(ctx,
		[]string{
			cache.MerchantOrderKey(orderID),
			cache.CustomerOrderKey(orderID),
		},
		[]string{
			cache.MerchantOrderListPrefix(order.MerchantID),
			cache.CustomerOrderListPrefix(order.CustomerID),
			cache.MerchantCustomerListPrefix(order.MerchantID),
		},
	)

	s.logger.Info("order status changed",
		zap.String("op", op),
		zap.Int64("order_id", orderID),
		zap.String("status", string(target)),
	)
	return ok(orderID, fmt.Sprintf("order %d is now %s", orderID, target))
}

// invalidate runs after commit. It is detached from request cancellation and
// best-effort: failures are logged, not retried.
func (s *Service) invalidate(ctx context.Context, keys, prefixes []string) {
	ctx = context.WithoutCancel(ctx)
	for _, k := range keys {
		if err := s.cache.Remove(ctx, k); err != nil {
			s.logger.Warn("cache invalidation failed", zap.String("cache_key", k), zap.Error(err))
		}
	}
	for _, p := range prefixes {
		if err := s.cache.RemoveByPrefix(ctx, p); err != nil {
			s.logger.Warn("cache invalidation failed", zap.String("prefix", p), zap.Error(err))
		}
	}
}

func (s *Service) fail(op string, orderID int64, err error) Result {
	code := codeOf(err)
	if code == CodeTransaction {
		s.logger.Error(op+" failed", zap.Int64("order_id", orderID), zap.Error(err))
	} else {
		s.logger.Info(op+" rejected", zap.Int64("order_id", orderID), zap.String("code", string(code)), zap.Error(err))
	}
	return Result{Success: false, Message: messageOf(code, err), Code: code, OrderID: orderID}
}
