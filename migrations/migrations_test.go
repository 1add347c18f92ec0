package migrations

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatementsCoverEveryTable(t *testing.T) {
	for name, ddl := range map[string]string{"postgres": Postgres, "sqlite": SQLite} {
		t.Run(name, func(t *testing.T) {
			stmts := Statements(ddl)
			require.NotEmpty(t, stmts)
			var tables int
			for _, s := range stmts {
				assert.False(t, strings.HasSuffix(s, ";"), "statement keeps terminator: %s", s)
				if strings.HasPrefix(s, "CREATE TABLE") {
					tables++
				}
			}
			assert.Equal(t, 15, tables)
		})
	}
}

func TestSQLiteHasNoPostgresTypes(t *testing.T) {
	assert.NotContains(t, SQLite, "BIGSERIAL")
	assert.NotContains(t, SQLite, "TIMESTAMPTZ")
}
