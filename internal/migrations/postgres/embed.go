// Package postgres embeds the goose migrations for the backend document
// store (submissions plus the appointment linkage column).
package postgres

import "embed"

//go:embed *.sql
var Migrations embed.FS
