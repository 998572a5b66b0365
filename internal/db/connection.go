// Package db provides the PostgreSQL pool and schema migrations.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/benx421/digital-bank/internal/config"
	"github.com/sethvargo/go-retry"

	// Import postgres driver for registration with database/sql)
	_ "github.com/lib/pq"
)

const pingTimeout = 2 * time.Second

// DB wraps the database connection pool
type DB struct {
	*sql.DB
	logger *slog.Logger
}

// Connect opens the pool and waits until the database answers a ping,
// retrying with exponential backoff up to cfg.ConnectRetries times
func Connect(ctx context.Context, cfg *config.DatabaseConfig, logger *slog.Logger) (*DB, error) {
	log := logger.With("component", "db", "host", cfg.Host, "database", cfg.DBName)

	pool, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	pool.SetMaxOpenConns(cfg.MaxOpenConns)
	pool.SetMaxIdleConns(cfg.MaxIdleConns)
	pool.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	backoff := retry.WithMaxRetries(uint64(cfg.ConnectRetries), retry.NewExponential(cfg.ConnectBackoff))
	attempt := 0
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()

		if err := pool.PingContext(pingCtx); err != nil {
			log.Warn("database not reachable yet", "attempt", attempt, "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		_ = pool.Close() //nolint:errcheck // the ping error is the one worth reporting
		return nil, fmt.Errorf("failed to ping database after %d attempts: %w", attempt, err)
	}

	log.Info("connected to database",
		"attempts", attempt,
		"max_open_conns", cfg.MaxOpenConns,
		"max_idle_conns", cfg.MaxIdleConns,
	)

	return &DB{DB: pool, logger: log}, nil
}

// Close closes the pool
func (db *DB) Close() error {
	stats := db.Stats()
	db.logger.Info("closing database connection", "open_connections", stats.OpenConnections, "wait_count", stats.WaitCount)
	return db.DB.Close()
}
