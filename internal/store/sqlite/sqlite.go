// Package sqlite is the embedded store backend used for local development and tests.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite" // pure go sqlite driver

	"minigold/internal/store"
	"minigold/migrations"
)

// Store implements store.Store on a single SQLite connection.
type Store struct {
	store.Querier
	db  *sql.DB
	gdb *gorm.DB
}

// Open opens (creating if needed) the database file at path.
// Only one connection is kept open, so a transaction callback must use the
// Querier it is handed rather than the Store.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if path == "" {
		path = "minigold.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", "file:"+path+"?_time_format=sqlite")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	for _, pragma := range []string{"PRAGMA foreign_keys = ON", "PRAGMA busy_timeout = 5000"} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}
	// The modernc connection is handed to gorm's sqlite dialector as-is.
	gdb, err := gorm.Open(&gormsqlite.Dialector{DriverName: "sqlite", Conn: db}, store.GormConfig(logger))
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open gorm: %w", err)
	}
	return &Store{
		Querier: store.NewQuerier(gdb),
		db:      db,
		gdb:     gdb,
	}, nil
}

func (s *Store) WithTx(ctx context.Context, fn func(q store.Querier) error) error {
	return store.Transact(ctx, s.gdb, fn)
}

// Migrate applies the embedded DDL one statement at a time.
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range migrations.Statements(migrations.SQLite) {
		if err := s.gdb.WithContext(ctx).Exec(stmt).Error; err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

func (s *Store) Close() {
	_ = s.db.Close()
}
