package database_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkrupp/expensetracker/internal/infra/database"
)

func TestOpenSQLite_MigratesSchema(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	db, err := database.OpenSQLite(ctx, database.SQLiteConfig{
		DatabasePath: filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	for _, table := range []string{"users", "expenses", "categories"} {
		var name string

		err := db.QueryRowContext(ctx,
			"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table,
		).Scan(&name)
		require.NoError(t, err, table)
	}

	// Owner column is nullable for rows that predate ownership.
	_, err = db.ExecContext(ctx,
		"INSERT INTO expenses (name, amount, date) VALUES ('legacy', '1.00', '2020-01-01')")
	assert.NoError(t, err)
}

func TestOpenSQLite_Reopen(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cfg := database.SQLiteConfig{DatabasePath: filepath.Join(t.TempDir(), "test.db")}

	db, err := database.OpenSQLite(ctx, cfg)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = database.OpenSQLite(ctx, cfg)
	require.NoError(t, err, "migrations are idempotent")
	require.NoError(t, db.Close())
}

func TestOpenSQLite_InvalidPath(t *testing.T) {
	t.Parallel()

	_, err := database.OpenSQLite(context.Background(), database.SQLiteConfig{
		DatabasePath: t.TempDir(), // a directory
	})
	assert.Error(t, err)
}

func TestMigrate_UnsupportedDialect(t *testing.T) {
	t.Parallel()

	err := database.Migrate(context.Background(), nil, goose.DialectMySQL)
	assert.ErrorIs(t, err, database.ErrUnsupportedDriver)
}
