// Package database provides SQLite connectivity for Plant Core.
//
// This package manages:
//   - The shared connection pool (one writer, WAL mode for concurrent reads)
//   - Idempotent schema bootstrap from embedded SQL files
//   - Health checks and pool statistics
//
// All queries elsewhere use parameterised statements. The database file is
// created with 0600 permissions.
//
// Usage:
//
//	db, err := database.Open(database.Config{Path: cfg.Database.Path, WALMode: true})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	if err := db.EnsureSchema(ctx); err != nil {
//	    log.Fatal(err)
//	}
package database
