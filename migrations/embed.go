// Package migrations embeds the PostgreSQL schema migrations so the
// server and the migrate CLI can run them without a file tree.
package migrations

import "embed"

// FS holds every *.up.sql and *.down.sql file in this directory.
//
//go:embed *.sql
var FS embed.FS
