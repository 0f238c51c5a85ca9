// Package database opens the configured storage engine and keeps its schema current.
package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"

	"github.com/mkrupp/expensetracker/internal/infra/logging"
)

//go:embed migrations
var migrationsFS embed.FS

// Migrate applies all pending migrations for the dialect to db.
func Migrate(ctx context.Context, db *sql.DB, dialect goose.Dialect) error {
	log := logging.GetLogger("infra.database.migrate")

	dir, err := migrationsDir(dialect)
	if err != nil {
		return err
	}

	fsys, err := fs.Sub(migrationsFS, dir)
	if err != nil {
		return fmt.Errorf("sub fs: %w", err)
	}

	provider, err := goose.NewProvider(dialect, db, fsys)
	if err != nil {
		return fmt.Errorf("new goose provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("goose up: %w", err)
	}

	for _, result := range results {
		log.DebugContext(ctx, "migration applied", logging.Group("migration",
			"version", result.Source.Version,
			"path", result.Source.Path,
			"duration", result.Duration.String(),
		))
	}

	return nil
}

func migrationsDir(dialect goose.Dialect) (string, error) {
	//nolint:exhaustive
	switch dialect {
	case goose.DialectSQLite3:
		return "migrations/sqlite", nil
	case goose.DialectPostgres:
		return "migrations/postgres", nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedDriver, dialect)
	}
}
