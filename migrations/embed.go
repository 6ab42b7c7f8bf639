// Package migrations embeds the SurrealQL schema files applied at startup
// and by the integration test database.
package migrations

import "embed"

// Files holds every *.surql migration, applied in file name order
//
//go:embed *.surql
var Files embed.FS
