// Package postgres owns the relational store: claims, document records and
// persisted analysis reports, plus startup schema migration.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/claimlens/claimlens/internal/config"
	"github.com/claimlens/claimlens/internal/infrastructure/monitoring/logging"
	"github.com/claimlens/claimlens/pkg/errors"
)

// DSN renders the pool connection string.
func DSN(cfg config.DatabaseConfig) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.DBName, cfg.SSLMode)
}

// Connect builds a pgx pool and verifies it with a ping.
func Connect(ctx context.Context, cfg config.DatabaseConfig, logger logging.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(DSN(cfg))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "parse database config")
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = int32(cfg.MaxConns)
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = int32(cfg.MinConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.ConnMaxLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "create connection pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "ping database")
	}

	logger.Info("database connected",
		logging.String("host", cfg.Host),
		logging.String("database", cfg.DBName))
	return pool, nil
}
