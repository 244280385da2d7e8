// Package migrations embeds the schema migration files so the server runs
// them at startup without needing the source tree on disk.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
