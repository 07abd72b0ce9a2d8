// Package store owns the PostgreSQL connection pool used by the model layer.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrFailToCreatePool indicates the pool could not be configured or reached.
var ErrFailToCreatePool = errors.New("fail to create pool")

// PgxPool is a minimal abstraction over a Postgres connection pool.
// It is implemented by *pgxpool.Pool and pgxmock.PgxPoolIface.
type PgxPool interface {
	// Exec executes a SQL command and returns the command tag.
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	// Query executes a SELECT and returns a rows iterator.
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	// QueryRow executes a query expected to return at most one row.
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	// Ping checks that a connection can be acquired.
	Ping(ctx context.Context) error
	// Close shuts down the pool and frees resources.
	Close()
}

// Db is the shared pool handle. Copies share the same pool.
type Db struct{ Pool PgxPool }

// NewDbPool opens the pool for dsn and checks it with a ping.
// maxConns <= 0 keeps the pgxpool default.
func NewDbPool(ctx context.Context, dsn string, maxConns int32) (Db, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return Db{}, fmt.Errorf("%w: %w", ErrFailToCreatePool, err)
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return Db{}, fmt.Errorf("%w: %w", ErrFailToCreatePool, err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return Db{}, fmt.Errorf("%w: %w", ErrFailToCreatePool, err)
	}
	return Db{Pool: pool}, nil
}

// Close closes the underlying pool.
func (db Db) Close() { db.Pool.Close() }

// IsUniqueViolation reports whether the error is a unique constraint violation.
func IsUniqueViolation(err error) bool {
	var pg *pgconn.PgError
	return errors.As(err, &pg) && pg.Code == "23505"
}
