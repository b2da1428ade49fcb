// Package migrations embeds the Plant Core schema into the binary.
//
// Every file is idempotent and re-applied on start by database.EnsureSchema.
package migrations

import (
	"embed"

	"github.com/nerrad567/plant-core/internal/infrastructure/database"
)

//go:embed *.sql
var schemaFS embed.FS

func init() {
	database.SchemaFS = schemaFS
	database.SchemaDir = "."
}
