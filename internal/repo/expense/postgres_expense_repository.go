package expense

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mkrupp/expensetracker/internal/domain"
	"github.com/mkrupp/expensetracker/internal/infra/logging"
)

// Amounts and dates travel as text so both engines share one conversion path.
const pgSelectExpense = "SELECT id, name, amount::text, date::text, user_id FROM expenses"

// PostgresExpenseRepository implements Repository using a Postgres connection pool.
type PostgresExpenseRepository struct {
	pool *pgxpool.Pool
	log  logging.Logger
}

var _ Repository = (*PostgresExpenseRepository)(nil)

// PostgresExpenseRepositoryFactory creates a factory function that returns a new PostgresExpenseRepository.
func PostgresExpenseRepositoryFactory(pool *pgxpool.Pool) RepositoryFactory {
	return func() (Repository, error) {
		return NewPostgresExpenseRepository(pool), nil
	}
}

// NewPostgresExpenseRepository creates a new PostgresExpenseRepository on a migrated database.
func NewPostgresExpenseRepository(pool *pgxpool.Pool) *PostgresExpenseRepository {
	return &PostgresExpenseRepository{
		pool: pool,
		log:  logging.GetLogger("repo.expense.postgres_expense_repository"),
	}
}

// CreateExpense implements Repository.CreateExpense using Postgres.
func (r *PostgresExpenseRepository) CreateExpense(ctx context.Context, e domain.Expense) (domain.Expense, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO expenses (name, amount, date, user_id)
		 VALUES ($1, $2::numeric, $3::date, $4)
		 RETURNING id`,
		e.Name,
		e.Amount.StringFixed(domain.AmountPlaces),
		e.Date.String(),
		e.OwnerID,
	).Scan(&e.ID)
	if err != nil {
		return domain.Expense{}, fmt.Errorf("insert expense: %w", err)
	}

	r.log.DebugContext(ctx, "expense inserted", logging.Group("expense", "id", e.ID))

	return e, nil
}

// GetExpense implements Repository.GetExpense using Postgres.
func (r *PostgresExpenseRepository) GetExpense(ctx context.Context, id int64) (*domain.Expense, bool, error) {
	e, err := scanPgExpense(r.pool.QueryRow(ctx, pgSelectExpense+" WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}

		return nil, false, fmt.Errorf("query expense: %w", err)
	}

	return &e, true, nil
}

// ListExpensesByOwner implements Repository.ListExpensesByOwner using Postgres.
func (r *PostgresExpenseRepository) ListExpensesByOwner(ctx context.Context, ownerID int64) ([]domain.Expense, error) {
	rows, err := r.pool.Query(ctx, pgSelectExpense+" WHERE user_id = $1 ORDER BY id", ownerID)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	expenses := make([]domain.Expense, 0)

	for rows.Next() {
		e, err := scanPgExpense(rows)
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

// DeleteExpense implements Repository.DeleteExpense using Postgres.
func (r *PostgresExpenseRepository) DeleteExpense(ctx context.Context, id, ownerID int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, "DELETE FROM expenses WHERE id = $1 AND user_id = $2", id, ownerID)
	if err != nil {
		return false, fmt.Errorf("delete expense: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// Close implements Repository.Close. The pool is closed by its owner.
func (r *PostgresExpenseRepository) Close() error {
	return nil
}

func scanPgExpense(row pgx.Row) (domain.Expense, error) {
	var (
		e       domain.Expense
		amount  string
		date    string
		ownerID *int64
	)

	if err := row.Scan(&e.ID, &e.Name, &amount, &date, &ownerID); err != nil {
		return domain.Expense{}, err //nolint:wrapcheck
	}

	var owner sql.NullInt64
	if ownerID != nil {
		owner = sql.NullInt64{Int64: *ownerID, Valid: true}
	}

	return fillExpense(e, amount, date, owner)
}
