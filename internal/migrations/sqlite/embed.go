// Package sqlite embeds the goose migrations for the local draft database.
package sqlite

import "embed"

//go:embed *.sql
var Migrations embed.FS
