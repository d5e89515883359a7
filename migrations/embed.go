// Package migrations embeds the SQL schema migrations so binaries and tests
// can apply them without a files-on-disk layout.
package migrations

import "embed"

// FS holds every *.sql migration in this directory
//
//go:embed *.sql
var FS embed.FS
