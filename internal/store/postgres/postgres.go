// Package postgres is the pgx-backed store used in production.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"minigold/internal/store"
	"minigold/migrations"
)

// Store implements store.Store with gorm running over a pgx pool.
type Store struct {
	store.Querier
	pool *pgxpool.Pool
	db   *sql.DB
	gdb  *gorm.DB
}

// New wraps an open pool. The store takes ownership of the pool.
func New(pool *pgxpool.Pool, logger *slog.Logger) (*Store, error) {
	db := stdlib.OpenDBFromPool(pool)
	gdb, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db}), store.GormConfig(logger))
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open gorm: %w", err)
	}
	return &Store{
		Querier: store.NewQuerier(gdb),
		pool:    pool,
		db:      db,
		gdb:     gdb,
	}, nil
}

func (s *Store) WithTx(ctx context.Context, fn func(q store.Querier) error) error {
	return store.Transact(ctx, s.gdb, fn)
}

// Migrate runs the embedded DDL in a single round trip.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, migrations.Postgres); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

func (s *Store) Close() {
	_ = s.db.Close()
	s.pool.Close()
}
