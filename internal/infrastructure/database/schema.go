package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

// SchemaFS holds the schema files applied by EnsureSchema.
// It is set by the top-level migrations package:
//
//	//go:embed *.sql
//	var schemaFS embed.FS
//
//	func init() {
//	    database.SchemaFS = schemaFS
//	}
var SchemaFS embed.FS

// SchemaDir is the directory within SchemaFS containing the .sql files.
var SchemaDir = "."

// EnsureSchema applies every .sql file in SchemaFS, in filename order, inside
// a single transaction.
//
// Schema files must be idempotent (CREATE TABLE IF NOT EXISTS and friends).
// There is no version bookkeeping: every start re-applies the same files.
func (db *DB) EnsureSchema(ctx context.Context) error {
	files, err := schemaFiles()
	if err != nil {
		return fmt.Errorf("loading schema files: %w", err)
	}
	if len(files) == 0 {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // Rollback is no-op after commit

	for _, name := range files {
		stmt, err := fs.ReadFile(SchemaFS, path.Join(SchemaDir, name))
		if err != nil {
			return fmt.Errorf("reading %s: %w", name, err)
		}
		if _, err := tx.ExecContext(ctx, string(stmt)); err != nil {
			return fmt.Errorf("applying %s: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing schema: %w", err)
	}
	return nil
}

// schemaFiles lists the .sql files in SchemaFS sorted by name.
func schemaFiles() ([]string, error) {
	var empty embed.FS
	if SchemaFS == empty {
		return nil, nil
	}

	entries, err := fs.ReadDir(SchemaFS, SchemaDir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		files = append(files, entry.Name())
	}
	sort.Strings(files)
	return files, nil
}
