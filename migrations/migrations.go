// Package migrations embeds the versioned SQL schema migrations.
package migrations

import "embed"

// FS holds every V<N>__<description>.up.sql / .down.sql pair.
//
//go:embed *.sql
var FS embed.FS
