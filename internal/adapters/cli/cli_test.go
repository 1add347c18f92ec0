package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T) string {
	t.Helper()
	t.Setenv("JWT_SECRET", "")
	dir := t.TempDir()
	path := filepath.Join(dir, "minigold.yaml")
	body := "store:\n  driver: sqlite\n  sqlite_path: " + filepath.Join(dir, "minigold.db") + "\n" +
		"server:\n  jwt_secret: cli-test-secret-0123456789abcdef\n" +
		"attachment:\n  driver: memory\n" +
		"log:\n  level: error\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestMigrateAndCreateUser(t *testing.T) {
	cfg := writeConfig(t)

	out, err := execute(t, "", "migrate", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "Schema applied (sqlite)")

	out, err = execute(t, "password1\n", "user", "create", "--config", cfg, "-u", "ops", "-r", "packaging")
	require.NoError(t, err)
	assert.Contains(t, out, "Created user ops")
	assert.Contains(t, out, "role packaging")

	_, err = execute(t, "", "user", "create", "--config", cfg, "-u", "ops2", "-p", "short")
	assert.Error(t, err)
}

func TestStockListsEmptyLedger(t *testing.T) {
	cfg := writeConfig(t)

	out, err := execute(t, "", "stock", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "PRODUCT")

	out, err = execute(t, "", "stock", "7", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "Movements of product 7")

	_, err = execute(t, "", "stock", "x", "--config", cfg)
	assert.ErrorContains(t, err, "invalid product id")
}

func TestStatusesAndVersion(t *testing.T) {
	out, err := execute(t, "", "statuses")
	require.NoError(t, err)
	assert.Equal(t, 6, strings.Count(out, "\n"))
	assert.Contains(t, out, "5  Delivered")

	out, err = execute(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "minigold version dev\n", out)
}

func TestSeedCreatesThenUpdates(t *testing.T) {
	cfg := writeConfig(t)
	catalog := filepath.Join(t.TempDir(), "catalog.yaml")
	body := `products:
  - product_name: Minigold Classic 5g
    brand: Minigold
    gramasi: "5"
  - product_name: Minigold Classic 10g
    brand: Minigold
    gramasi: 10g
`
	require.NoError(t, os.WriteFile(catalog, []byte(body), 0o600))

	out, err := execute(t, "", "seed", catalog, "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "2 created, 0 updated")

	out, err = execute(t, "", "seed", catalog, "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "0 created, 2 updated")
}

func TestSeedRejectsBadWeight(t *testing.T) {
	cfg := writeConfig(t)
	catalog := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(catalog, []byte("products:\n  - product_name: X\n    gramasi: heavy\n"), 0o600))

	_, err := execute(t, "", "seed", catalog, "--config", cfg)
	assert.ErrorContains(t, err, "invalid gramasi")
}
