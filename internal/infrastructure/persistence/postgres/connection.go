// Package postgres provides the PostgreSQL persistence gateway and the
// repositories built on it. Every statement is parameterized.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/alchemorsel/recipeshare/internal/infrastructure/config"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Querier is implemented by the pool, an acquired connection and a transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Gateway owns the bounded connection pool. Single statements go straight
// to the pool; WithConn and InTx pin one connection for a unit of work and
// release it on every exit path.
type Gateway struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPool opens and pings a pgx pool sized from configuration.
func NewPool(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	poolCfg.MaxConns = cfg.Database.MaxConns
	poolCfg.MinConns = cfg.Database.MinConns
	if cfg.Database.ConnMaxLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.Database.ConnMaxLifetime
	}
	if cfg.Database.ConnMaxIdleTime > 0 {
		poolCfg.MaxConnIdleTime = cfg.Database.ConnMaxIdleTime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Database pool initialized",
		zap.String("host", cfg.Database.Host),
		zap.String("database", cfg.Database.Database),
		zap.Int32("max_conns", poolCfg.MaxConns),
	)

	return pool, nil
}

// NewGateway wraps an open pool
func NewGateway(pool *pgxpool.Pool, logger *zap.Logger) *Gateway {
	return &Gateway{
		pool:   pool,
		logger: logger.Named("postgres"),
	}
}

// Exec runs a statement on a pooled connection
func (g *Gateway) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return g.pool.Exec(ctx, sql, args...)
}

// Query runs a query on a pooled connection. The connection is released when
// the returned rows are closed.
func (g *Gateway) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return g.pool.Query(ctx, sql, args...)
}

// QueryRow runs a single-row query on a pooled connection
func (g *Gateway) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return g.pool.QueryRow(ctx, sql, args...)
}

// WithConn acquires one connection, passes it to fn and releases it.
func (g *Gateway) WithConn(ctx context.Context, fn func(Querier) error) error {
	conn, err := g.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Release()

	return fn(conn)
}

// InTx runs fn inside a transaction on one connection. The transaction is
// committed when fn returns nil and rolled back otherwise.
func (g *Gateway) InTx(ctx context.Context, fn func(Querier) error) error {
	return pgx.BeginFunc(ctx, g.pool, func(tx pgx.Tx) error {
		return fn(tx)
	})
}

// Ping checks that a connection can be acquired and used
func (g *Gateway) Ping(ctx context.Context) error {
	return g.pool.Ping(ctx)
}

// Pool exposes the underlying pool for health checks and migrations
func (g *Gateway) Pool() *pgxpool.Pool {
	return g.pool
}

// Close closes every connection in the pool
func (g *Gateway) Close() {
	g.pool.Close()
	g.logger.Info("Database pool closed")
}

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
