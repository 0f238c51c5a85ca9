package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pressly/goose/v3"

	// Register the pure-Go "sqlite" database/sql driver.
	_ "modernc.org/sqlite"
)

// SQLiteConfig holds configuration for the SQLite storage engine.
type SQLiteConfig struct {
	// DatabasePath is the filesystem path to the SQLite database file
	DatabasePath string `yaml:"database_path" env:"DATABASE_PATH" env-default:"var/storage/expenses.db"`
}

// OpenSQLite opens the SQLite database, enables foreign keys and applies migrations.
func OpenSQLite(ctx context.Context, cfg SQLiteConfig) (*sql.DB, error) {
	if cfg.DatabasePath != ":memory:" && !strings.HasPrefix(cfg.DatabasePath, "file:") {
		if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0o750); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dsn(cfg.DatabasePath))
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// go-sqlite does not support concurrent writes, and every connection to
	// ":memory:" would get its own database.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()

		return nil, fmt.Errorf("ping db: %w", err)
	}

	if err := Migrate(ctx, db, goose.DialectSQLite3); err != nil {
		db.Close()

		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// dsn applies the connection pragmas to every connection the pool opens.
func dsn(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}

	return path + sep + "_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
}
