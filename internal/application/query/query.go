package query

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Taqey/Foodo-sub000/internal/cache"
	"github.com/Taqey/Foodo-sub000/internal/domain"
	"github.com/Taqey/Foodo-sub000/internal/observability"
)

//go:generate mockgen -source internal/application/query/query.go -destination=internal/application/query/query_mock_test.go -package=query

type Reader interface {
	CustomerOrders(ctx context.Context, customerID int64, p domain.Page) ([]domain.OrderSummary, error)
	MerchantOrders(ctx context.Context, merchantID int64, p domain.Page) ([]domain.OrderSummary, error)
	MerchantCustomers(ctx context.Context, merchantID int64, p domain.Page) ([]domain.CustomerSummary, error)
	OrderDetail(ctx context.Context, orderID int64) (domain.OrderDetail, error)
}

// Service serves the customer and merchant projections read-through the
// cache coordinator. It never writes to the order store.
type Service struct {
	reader Reader
	cache  *cache.Coordinator
	logger *zap.Logger
}

func New(reader Reader, c *cache.Coordinator, logger *zap.Logger) *Service {
	return &Service{reader: reader, cache: c, logger: logger}
}

func (s *Service) CustomerOrders(ctx context.Context, customerID int64, page, size int) ([]domain.OrderSummary, LookupStats, error) {
	p := domain.NewPage(page, size)
	return fetch(ctx, s, cache.CustomerOrderListKey(customerID, p.Number, p.Size),
		func(ctx context.Context) ([]domain.OrderSummary, error) {
			return s.reader.CustomerOrders(ctx, customerID, p)
		})
}

func (s *Service) MerchantOrders(ctx context.Context, merchantID int64, page, size int) ([]domain.OrderSummary, LookupStats, error) {
	p := domain.NewPage(page, size)
	return fetch(ctx, s, cache.MerchantOrderListKey(merchantID, p.Number, p.Size),
		func(ctx context.Context) ([]domain.OrderSummary, error) {
			return s.reader.MerchantOrders(ctx, merchantID, p)
		})
}

func (s *Service) MerchantCustomers(ctx context.Context, merchantID int64, page, size int) ([]domain.CustomerSummary, LookupStats, error) {
	p := domain.NewPage(page, size)
	return fetch(ctx, s, cache.MerchantCustomerListKey(merchantID, p.Number, p.Size),
		func(ctx context.Context) ([]domain.CustomerSummary, error) {
			return s.reader.MerchantCustomers(ctx, merchantID, p)
		})
}

// CustomerOrder returns the order only if customerID placed it. A foreign
// order is reported as not found.
func (s *Service) CustomerOrder(ctx context.Context, customerID, orderID int64) (domain.OrderDetail, LookupStats, error) {
	d, stats, err := s.detail(ctx, cache.CustomerOrderKey(orderID), orderID)
	if err != nil {
		return d, stats, err
	}
	if d.CustomerID != customerID {
		return domain.OrderDetail{}, stats, fmt.Errorf("%w: order %d", domain.ErrNotFound, orderID)
	}
	return d, stats, nil
}

func (s *Service) MerchantOrder(ctx context.Context, merchantID, orderID int64) (domain.OrderDetail, LookupStats, error) {
	d, stats, err := s.detail(ctx, cache.MerchantOrderKey(orderID), orderID)
	if err != nil {
		return d, stats, err
	}
	if d.MerchantID != merchantID {
		return domain.OrderDetail{}, stats, fmt.Errorf("%w: order %d", domain.ErrNotFound, orderID)
	}
	return d, stats, nil
}

func (s *Service) detail(ctx context.Context, key string, orderID int64) (domain.OrderDetail, LookupStats, error) {
	return fetch(ctx, s, key, func(ctx context.Context) (domain.OrderDetail, error) {
		return s.reader.OrderDetail(ctx, orderID)
	})
}

func fetch[T any](ctx context.Context, s *Service, key string, load func(context.Context) (T, error)) (T, LookupStats, error) {
	start := time.Now()
	v, src, err := cache.Fetch(ctx, s.cache, key, load)
	stats := LookupStats{Source: src, Ms: observability.SinceMs(start)}
	if err != nil {
		s.logger.Debug("read failed", zap.String("cache_key", key), zap.Error(err))
		return v, stats, err
	}
	return v, stats, nil
}
