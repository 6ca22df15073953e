// Package migrations embeds SQL migration files.
package migrations

import "embed"

// FS contains the postgres migrations in golang-migrate layout
// (NNNNNN_name.up.sql / NNNNNN_name.down.sql).
//
//go:embed *.sql
var FS embed.FS

// Dir is the directory within FS where migrations live.
const Dir = "."
