// Package migrations holds the goose SQL migrations, one directory per dialect.
package migrations

import "embed"

//go:embed sqlite3/*.sql mysql/*.sql
var FS embed.FS
