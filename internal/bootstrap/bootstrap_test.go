package bootstrap_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"minigold/internal/app"
	"minigold/internal/bootstrap"
	"minigold/internal/config"
)

func TestNewWiresSQLiteRuntime(t *testing.T) {
	cfg := config.Default()
	cfg.Store.SQLitePath = filepath.Join(t.TempDir(), "minigold.db")
	cfg.Attachment.Driver = "memory"
	cfg.Log.Format = "json"

	var logs bytes.Buffer
	rt, err := bootstrap.New(context.Background(), cfg, &logs)
	require.NoError(t, err)
	t.Cleanup(rt.Close)

	assert.Contains(t, logs.String(), `"msg":"runtime ready"`)

	ctx := context.Background()
	u, err := rt.App.CreateUser(ctx, app.CreateUserRequest{Username: "admin", Password: "password1", Role: "admin"})
	require.NoError(t, err)

	session, err := rt.App.AuthenticateUser(ctx, "admin", "password1")
	require.NoError(t, err)
	assert.Equal(t, u.UserID, session.UserID)

	grid, err := rt.App.FetchGrid(ctx, app.GridRequest{Table: "request_admin", Draw: 3, Length: 10})
	require.NoError(t, err)
	assert.Equal(t, 3, grid.Draw)
	assert.Zero(t, grid.RecordsTotal)
}

func TestOpenStoreRejectsUnknownDriver(t *testing.T) {
	_, err := bootstrap.OpenStore(context.Background(), config.StoreConfig{Driver: "oracle"}, nil)
	assert.ErrorContains(t, err, "unknown store driver")
}

func TestNewLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := bootstrap.NewLogger(config.LogConfig{Level: "warn", Format: "text"}, &buf)
	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}
