// Package migrations holds the schema for the QuickPass record store.
// The sqlite adapter applies pending .up.sql files in version order on open.
package migrations

import "embed"

// FS holds the up and down scripts.
//
//go:embed *.sql
var FS embed.FS
