// Package migrations holds the import history schema.
package migrations

import "embed"

// FS holds the versioned migrations, named NNN_name.up.sql and
// NNN_name.down.sql. Only .up.sql files are applied.
//
//go:embed *.up.sql *.down.sql
var FS embed.FS
