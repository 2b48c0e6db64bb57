// Package migrations embeds SQL migration files for goose.
//
// Migration files follow the naming convention: YYYYMMDDHHMMSS_description.sql
// They are applied in order during database initialization. The first
// migration requires the pgvector extension for topic-embedding storage.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
