package expense_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkrupp/expensetracker/internal/domain"
	"github.com/mkrupp/expensetracker/internal/infra/database"
	"github.com/mkrupp/expensetracker/internal/repo/expense"
)

type testEnv struct {
	db    *sql.DB
	repo  *expense.SQLiteExpenseRepository
	alice int64
	bob   int64
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()

	ctx := context.Background()

	db, err := database.OpenSQLite(ctx, database.SQLiteConfig{
		DatabasePath: filepath.Join(t.TempDir(), "expenses.db"),
	})
	require.NoError(t, err)

	t.Cleanup(func() { db.Close() })

	env := testEnv{db: db, repo: expense.NewSQLiteExpenseRepository(db)}
	env.alice = insertUser(t, db, "alice")
	env.bob = insertUser(t, db, "bob")

	return env
}

func insertUser(t *testing.T, db *sql.DB, username string) int64 {
	t.Helper()

	res, err := db.Exec(
		"INSERT INTO users (username, password_hash, created_at) VALUES (?, ?, ?)",
		username, []byte("digest"), time.Now().Unix(),
	)
	require.NoError(t, err)

	id, err := res.LastInsertId()
	require.NoError(t, err)

	return id
}

func newExpense(name, amount string, owner int64) domain.Expense {
	return domain.Expense{
		Name:    name,
		Amount:  decimal.RequireFromString(amount),
		Date:    domain.NewDate(2024, time.January, 15),
		OwnerID: &owner,
	}
}

func TestSQLiteExpenseRepository_CreateAndGet(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.repo.CreateExpense(ctx, newExpense("Lunch", "12.50", env.alice))
	require.NoError(t, err)
	assert.Positive(t, created.ID)

	found, ok, err := env.repo.GetExpense(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Lunch", found.Name)
	assert.Equal(t, "12.50", found.Amount.StringFixed(2))
	assert.Equal(t, "2024-01-15", found.Date.String())
	require.NotNil(t, found.OwnerID)
	assert.Equal(t, env.alice, *found.OwnerID)
}

func TestSQLiteExpenseRepository_GetMissing(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	found, ok, err := env.repo.GetExpense(context.Background(), 4242)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, found)
}

func TestSQLiteExpenseRepository_ListByOwner(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	for _, e := range []domain.Expense{
		newExpense("Coffee", "3.00", env.alice),
		newExpense("Rent", "800.00", env.bob),
		newExpense("Lunch", "12.50", env.alice),
	} {
		_, err := env.repo.CreateExpense(ctx, e)
		require.NoError(t, err)
	}

	_, err := env.db.Exec("INSERT INTO expenses (name, amount, date) VALUES ('legacy', '1.00', '2020-01-01')")
	require.NoError(t, err)

	list, err := env.repo.ListExpensesByOwner(ctx, env.alice)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Coffee", list[0].Name)
	assert.Equal(t, "Lunch", list[1].Name)
	assert.Less(t, list[0].ID, list[1].ID)

	list, err = env.repo.ListExpensesByOwner(ctx, 999)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestSQLiteExpenseRepository_LegacyRowHasNoOwner(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	res, err := env.db.Exec("INSERT INTO expenses (name, amount, date) VALUES ('legacy', '1.00', '2020-01-01')")
	require.NoError(t, err)

	id, err := res.LastInsertId()
	require.NoError(t, err)

	found, ok, err := env.repo.GetExpense(ctx, id)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Nil(t, found.OwnerID)
	assert.False(t, found.OwnedBy(env.alice))

	deleted, err := env.repo.DeleteExpense(ctx, id, env.alice)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestSQLiteExpenseRepository_Delete(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.repo.CreateExpense(ctx, newExpense("Lunch", "12.50", env.alice))
	require.NoError(t, err)

	deleted, err := env.repo.DeleteExpense(ctx, created.ID, env.bob)
	require.NoError(t, err)
	assert.False(t, deleted, "only the owner's row may be deleted")

	deleted, err = env.repo.DeleteExpense(ctx, created.ID, env.alice)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = env.repo.DeleteExpense(ctx, created.ID, env.alice)
	require.NoError(t, err)
	assert.False(t, deleted)

	_, ok, err := env.repo.GetExpense(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}
