package expense

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/mkrupp/expensetracker/internal/domain"
	"github.com/mkrupp/expensetracker/internal/infra/logging"
)

// SQLiteExpenseRepository implements Repository using SQLite as the storage backend.
type SQLiteExpenseRepository struct {
	db        *sql.DB
	log       logging.Logger
	writeLock *sync.Mutex // go-sqlite does not support concurrent writes
}

var _ Repository = (*SQLiteExpenseRepository)(nil)

// SQLiteExpenseRepositoryFactory creates a factory function that returns a new SQLiteExpenseRepository.
func SQLiteExpenseRepositoryFactory(db *sql.DB) RepositoryFactory {
	return func() (Repository, error) {
		return NewSQLiteExpenseRepository(db), nil
	}
}

// NewSQLiteExpenseRepository creates a new SQLiteExpenseRepository on a migrated database.
func NewSQLiteExpenseRepository(db *sql.DB) *SQLiteExpenseRepository {
	return &SQLiteExpenseRepository{
		db:        db,
		log:       logging.GetLogger("repo.expense.sqlite_expense_repository"),
		writeLock: new(sync.Mutex),
	}
}

// CreateExpense implements Repository.CreateExpense using SQLite.
func (r *SQLiteExpenseRepository) CreateExpense(ctx context.Context, e domain.Expense) (domain.Expense, error) {
	r.writeLock.Lock()
	defer r.writeLock.Unlock()

	res, err := r.db.ExecContext(ctx,
		"INSERT INTO expenses (name, amount, date, user_id) VALUES (?, ?, ?, ?)",
		e.Name,
		e.Amount.StringFixed(domain.AmountPlaces),
		e.Date.String(),
		e.OwnerID,
	)
	if err != nil {
		return domain.Expense{}, fmt.Errorf("insert expense: %w", err)
	}

	if e.ID, err = res.LastInsertId(); err != nil {
		return domain.Expense{}, fmt.Errorf("last insert id: %w", err)
	}

	r.log.DebugContext(ctx, "expense inserted", logging.Group("expense", "id", e.ID))

	return e, nil
}

// GetExpense implements Repository.GetExpense using SQLite.
func (r *SQLiteExpenseRepository) GetExpense(ctx context.Context, id int64) (*domain.Expense, bool, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id, name, amount, date, user_id FROM expenses WHERE id = ?", id)

	e, err := scanExpense(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}

		return nil, false, fmt.Errorf("query expense: %w", err)
	}

	return &e, true, nil
}

// ListExpensesByOwner implements Repository.ListExpensesByOwner using SQLite.
func (r *SQLiteExpenseRepository) ListExpensesByOwner(ctx context.Context, ownerID int64) ([]domain.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, amount, date, user_id FROM expenses WHERE user_id = ? ORDER BY id", ownerID)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	expenses := make([]domain.Expense, 0)

	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}

		expenses = append(expenses, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}

	return expenses, nil
}

// DeleteExpense implements Repository.DeleteExpense using SQLite.
func (r *SQLiteExpenseRepository) DeleteExpense(ctx context.Context, id, ownerID int64) (bool, error) {
	r.writeLock.Lock()
	defer r.writeLock.Unlock()

	res, err := r.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ? AND user_id = ?", id, ownerID)
	if err != nil {
		return false, fmt.Errorf("delete expense: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}

	return n > 0, nil
}

// Close implements Repository.Close. The shared database is closed by its owner.
func (r *SQLiteExpenseRepository) Close() error {
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (domain.Expense, error) {
	var (
		e       domain.Expense
		amount  string
		date    string
		ownerID sql.NullInt64
	)

	if err := row.Scan(&e.ID, &e.Name, &amount, &date, &ownerID); err != nil {
		return domain.Expense{}, err //nolint:wrapcheck
	}

	return fillExpense(e, amount, date, ownerID)
}

func fillExpense(e domain.Expense, amount, date string, ownerID sql.NullInt64) (domain.Expense, error) {
	var err error

	if e.Amount, err = parseAmount(amount); err != nil {
		return domain.Expense{}, err
	}

	if e.Date, err = domain.ParseDate(date); err != nil {
		return domain.Expense{}, err //nolint:wrapcheck
	}

	if ownerID.Valid {
		owner := ownerID.Int64
		e.OwnerID = &owner
	}

	return e, nil
}
