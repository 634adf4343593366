package migrations

import "embed"

// FS contains embedded SQLite migrations for collection snapshots.
//
//go:embed *.sql
var FS embed.FS
