package migrations

import "embed"

// FS contains embedded SQLite migrations for the development outbox.
//
//go:embed *.sql
var FS embed.FS
