// Package migrations embeds the goose SQL migrations of the reward ledger.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
