// Package migrations embeds the goose SQL migrations for the relational
// store: tables, the user-id generator function, the event insert procedure
// and the future-agenda view.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
