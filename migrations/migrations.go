// Package migrations embeds the database schema so the binary and the integration tests apply the same files.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
