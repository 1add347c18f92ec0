// Package bootstrap assembles a runnable minigold instance from configuration.
package bootstrap

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"minigold/internal/app"
	"minigold/internal/attachment"
	"minigold/internal/config"
	"minigold/internal/core"
	"minigold/internal/db"
	"minigold/internal/metrics"
	"minigold/internal/store"
	"minigold/internal/store/postgres"
	"minigold/internal/store/sqlite"
)

// Runtime is everything the binaries need.
type Runtime struct {
	Config  *config.Config
	Logger  *slog.Logger
	Store   store.Store
	Files   attachment.Store
	Metrics *metrics.Recorder
	App     app.ApplicationService
}

// NewLogger builds the slog logger described by cfg.
func NewLogger(cfg config.LogConfig, w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// OpenStore connects the configured relational backend.
func OpenStore(ctx context.Context, cfg config.StoreConfig, logger *slog.Logger) (store.Store, error) {
	switch cfg.Driver {
	case config.StorePostgres:
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("database: %w", err)
		}
		st, err := postgres.New(pool, logger)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("database: %w", err)
		}
		return st, nil
	case config.StoreSQLite:
		st, err := sqlite.Open(cfg.SQLitePath, logger)
		if err != nil {
			return nil, fmt.Errorf("database: %w", err)
		}
		return st, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
}

// NewServices wires the core services over st and files.
func NewServices(st store.Store, files attachment.Store, opts core.Options) app.Services {
	ledger := core.NewStockLedger(st, opts)
	return app.Services{
		Users:        core.NewUserService(st, opts),
		Products:     core.NewProductService(st, opts),
		RequestAdmin: core.NewRequestAdminService(st, files, opts),
		Workflow:     core.NewWorkflowService(st, ledger, opts),
		Stock:        ledger,
		Grid:         core.NewGridService(st, opts),
	}
}

// New opens the store and attachment backend, applies the schema and builds the
// application service.
func New(ctx context.Context, cfg *config.Config, logOut io.Writer) (*Runtime, error) {
	logger := NewLogger(cfg.Log, logOut)

	st, err := OpenStore(ctx, cfg.Store, logger)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	files, err := attachment.Open(ctx, cfg.AttachmentStore())
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("attachment store: %w", err)
	}

	rec := metrics.New()
	opts := core.Options{Logger: logger, Clock: core.SystemClock, Recorder: rec}
	logger.Info("runtime ready",
		"store", cfg.Store.Driver,
		"attachments", string(files.Driver()))

	return &Runtime{
		Config:  cfg,
		Logger:  logger,
		Store:   st,
		Files:   files,
		Metrics: rec,
		App:     app.NewAppService(NewServices(st, files, opts)),
	}, nil
}

// Close releases the store.
func (r *Runtime) Close() {
	r.Store.Close()
}
