package category

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mkrupp/expensetracker/internal/domain"
)

// PostgresCategoryRepository implements Repository using a Postgres connection pool.
type PostgresCategoryRepository struct {
	pool *pgxpool.Pool
}

var _ Repository = (*PostgresCategoryRepository)(nil)

// PostgresCategoryRepositoryFactory creates a factory function that returns a new PostgresCategoryRepository.
func PostgresCategoryRepositoryFactory(pool *pgxpool.Pool) RepositoryFactory {
	return func() (Repository, error) {
		return &PostgresCategoryRepository{pool: pool}, nil
	}
}

// CreateCategory implements Repository.CreateCategory using Postgres.
func (r *PostgresCategoryRepository) CreateCategory(ctx context.Context, name string) (domain.Category, error) {
	c := domain.Category{Name: name}

	if err := r.pool.QueryRow(ctx,
		"INSERT INTO categories (name) VALUES ($1) RETURNING id", name,
	).Scan(&c.ID); err != nil {
		return domain.Category{}, fmt.Errorf("insert category: %w", err)
	}

	return c, nil
}

// ListCategories implements Repository.ListCategories using Postgres.
func (r *PostgresCategoryRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.pool.Query(ctx, "SELECT id, name FROM categories ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}

	categories, err := pgx.CollectRows(rows, pgx.RowToStructByPos[domain.Category])
	if err != nil {
		return nil, fmt.Errorf("collect categories: %w", err)
	}

	if categories == nil {
		categories = make([]domain.Category, 0)
	}

	return categories, nil
}

// Close implements Repository.Close. The pool is closed by its owner.
func (r *PostgresCategoryRepository) Close() error {
	return nil
}
