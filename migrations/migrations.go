// Package migrations embeds the SQL migrations so binaries and tests can run
// them without locating the directory on disk.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
