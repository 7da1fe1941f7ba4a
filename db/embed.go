// Package db embeds the SQL migrations so production builds do not
// need the migration files on disk.
package db

import "embed"

//go:embed migrations
var Migrations embed.FS
