package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"
	"go.uber.org/zap"

	"github.com/Taqey/Foodo-sub000/internal/config"
	"github.com/Taqey/Foodo-sub000/internal/pkg/retry"
)

// Connect opens a pool with SQL tracing to logger and waits for the server
// to answer a ping.
func Connect(ctx context.Context, dsn string, policy retry.Policy, logger *zap.Logger) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	cfg.ConnConfig.Tracer = &tracelog.TraceLog{
		Logger:   &zapTracer{logger: logger.Named("pgx")},
		LogLevel: tracelog.LogLevelWarn,
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	err = retry.Do(ctx, policy, func() error {
		if err := pool.Ping(ctx); err != nil {
			logger.Warn("postgres is not ready", zap.Error(err))
			return err
		}
		return nil
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return pool, nil
}

type names struct {
	config.Tables
}

func (n names) qt(tbl string) string { return fmt.Sprintf(`"%s"."%s"`, n.Schema, tbl) }
