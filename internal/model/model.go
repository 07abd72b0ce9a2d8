// Package model implements the entity access layer on top of one shared
// PostgreSQL pool.
//
// Every entity kind is exposed through a Bmc value (TaskBmc, UserBmc) whose
// methods take the request context, the Manager and the payload or id.
package model

import (
	"context"

	"github.com/and161185/zserver/internal/config"
	"github.com/and161185/zserver/internal/model/store"
)

// Manager owns the shared pool handle. Construct it once per process and
// share the pointer between requests.
type Manager struct {
	db store.Db
}

// NewManager opens the pool described by cfg.
func NewManager(ctx context.Context, cfg *config.Config) (*Manager, error) {
	db, err := store.NewDbPool(ctx, cfg.DatabaseDSN, cfg.DBMaxConns)
	if err != nil {
		return nil, Store(err)
	}
	return &Manager{db: db}, nil
}

// NewManagerWithPool wraps an existing pool, e.g. pgxmock in tests.
func NewManagerWithPool(pool store.PgxPool) *Manager {
	return &Manager{db: store.Db{Pool: pool}}
}

// Ping checks that the pool can reach the database.
func (mm *Manager) Ping(ctx context.Context) error {
	return Storage(mm.db.Pool.Ping(ctx))
}

// Close closes the pool. The Manager must not be used afterwards.
func (mm *Manager) Close() { mm.db.Close() }

func (mm *Manager) pool() store.PgxPool { return mm.db.Pool }

// Pool exposes the shared pool to components living next to the model
// layer, such as the login limiter.
func (mm *Manager) Pool() store.PgxPool { return mm.db.Pool }
