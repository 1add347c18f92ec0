// Package migrations embeds the DDL of both store backends.
package migrations

import (
	_ "embed"
	"strings"
)

//go:embed postgres.sql
var Postgres string

//go:embed sqlite.sql
var SQLite string

// Statements splits a DDL script into individual statements for drivers that
// execute one statement per call.
func Statements(ddl string) []string {
	var out []string
	for _, stmt := range strings.Split(ddl, ";\n") {
		if s := strings.TrimSpace(stmt); s != "" {
			out = append(out, strings.TrimSuffix(s, ";"))
		}
	}
	return out
}
