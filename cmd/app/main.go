package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Taqey/Foodo-sub000/internal/application/query"
	"github.com/Taqey/Foodo-sub000/internal/application/service"
	"github.com/Taqey/Foodo-sub000/internal/cache"
	"github.com/Taqey/Foodo-sub000/internal/config"
	"github.com/Taqey/Foodo-sub000/internal/database"
	"github.com/Taqey/Foodo-sub000/internal/httpapi"
	"github.com/Taqey/Foodo-sub000/internal/kafka"
	"github.com/Taqey/Foodo-sub000/internal/observability"
	"github.com/Taqey/Foodo-sub000/internal/pkg/circuit"
)

func main() {
	cfg := config.Load()

	logger := newLogger(cfg.LogLevel)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("app stopped with error", zap.Error(err))
	}
	logger.Info("app stopped")
}

func run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	pool, err := database.Connect(ctx, cfg.DSN(), cfg.RetryPolicy(), logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool, cfg.Tables); err != nil {
		return err
	}

	tax, err := cfg.TaxPolicy()
	if err != nil {
		return err
	}

	if err := kafka.EnsureTopic(ctx, cfg.Kafka, cfg.RetryPolicy(), logger); err != nil {
		return err
	}
	writer := kafka.NewWriter(cfg.Kafka)
	defer writer.Close()

	metrics := observability.NewInmem(1024)
	store := database.NewCacheStore(pool, cfg.Tables)
	breaker := circuit.New(cfg.BreakerSettings(), circuit.OnStateChange(func(from, to circuit.State) {
		logger.Warn("distributed cache breaker changed state",
			zap.Stringer("from", from), zap.Stringer("to", to))
	}))

	coordinator, err := cache.New(cfg.CacheOptions(), store, kafka.NewPublisher(writer), logger, metrics,
		cache.WithInstanceID(cfg.InstanceID),
		cache.WithBreaker(breaker),
	)
	if err != nil {
		return err
	}

	reader := kafka.NewReader(cfg.Kafka, coordinator.InstanceID())
	defer reader.Close()
	subscriber := kafka.NewSubscriber(reader, coordinator, logger)

	lookups := database.NewLookups(pool, cfg.Tables)
	orders := service.New(database.NewUnitOfWork(pool, cfg.Tables), lookups, lookups, tax, coordinator, logger, metrics)
	queries := query.New(database.NewOrderReader(pool, cfg.Tables), coordinator, logger)
	server := httpapi.New(orders, queries, pool, logger, metrics)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		subscriber.Start(ctx)
	}()
	go func() {
		defer wg.Done()
		purgeExpired(ctx, store, cfg.Cache.PurgeInterval, logger)
	}()

	logger.Info("http server listening",
		zap.String("addr", cfg.HTTPAddr),
		zap.String("instance_id", coordinator.InstanceID()),
	)
	err = server.ListenAndServe(ctx, cfg.HTTPAddr)

	cancel()
	wg.Wait()
	return err
}

// purgeExpired drops distributed cache rows past their fail-safe window.
func purgeExpired(ctx context.Context, store *database.CacheStore, every time.Duration, logger *zap.Logger) {
	if every <= 0 {
		return
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := store.Purge(ctx)
			if err != nil {
				if ctx.Err() == nil {
					logger.Warn("cache purge failed", zap.Error(err))
				}
				continue
			}
			logger.Debug("expired cache entries purged", zap.Int64("rows", n))
		}
	}
}

func newLogger(level string) *zap.Logger {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	logger, err := zcfg.Build()
	if err != nil {
		panic(err)
	}
	return logger
}
