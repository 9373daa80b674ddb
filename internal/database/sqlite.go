package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"log"
	"strings"
	"sync"

	"modernc.org/sqlite"
)

var registerFold = sync.OnceValue(func() error {
	// SQLite's LIKE and lower() only fold ASCII
	return sqlite.RegisterDeterministicScalarFunction("fold", 1,
		func(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
			switch v := args[0].(type) {
			case string:
				return strings.ToLower(v), nil
			case []byte:
				return strings.ToLower(string(v)), nil
			default:
				return v, nil
			}
		})
})

// SQLiteDB is the single-file backend used for local development and tests
type SQLiteDB struct {
	DB *sql.DB
}

// OpenSQLite opens (creating if needed) the database file at path and
// ensures the schema exists.
func OpenSQLite(ctx context.Context, path string) (*SQLiteDB, error) {
	if path == "" {
		path = "recipes.db"
	}
	dsn := path
	if !strings.HasPrefix(dsn, "file:") {
		dsn = "file:" + dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	dsn += sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

	if err := registerFold(); err != nil {
		return nil, fmt.Errorf("unable to register sqlite functions: %w", err)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to open sqlite database: %w", err)
	}
	// Single connection; SQLite serializes writers anyway.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("unable to ping sqlite database: %w", err)
	}

	if _, err := db.ExecContext(ctx, schemaSQLite); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure sqlite schema: %w", err)
	}

	log.Printf("SQLite database opened at %s", path)
	return &SQLiteDB{DB: db}, nil
}

// Close closes the underlying database handle
func (s *SQLiteDB) Close() {
	s.DB.Close()
}

const schemaSQLite = `
CREATE TABLE IF NOT EXISTS recipes (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  original_portion REAL NOT NULL CHECK (original_portion > 0),
  steps_json TEXT NOT NULL DEFAULT '[]',
  image_key TEXT,
  created_at INTEGER NOT NULL,
  updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS recipe_ingredients (
  recipe_id TEXT NOT NULL REFERENCES recipes(id) ON DELETE CASCADE,
  position INTEGER NOT NULL,
  name TEXT NOT NULL,
  weight REAL NOT NULL CHECK (weight > 0),
  unit TEXT NOT NULL,
  PRIMARY KEY (recipe_id, position)
);

CREATE INDEX IF NOT EXISTS idx_recipes_name ON recipes (name COLLATE NOCASE);
`
