package category

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/mkrupp/expensetracker/internal/domain"
)

// SQLiteCategoryRepository implements Repository using SQLite as the storage backend.
type SQLiteCategoryRepository struct {
	db        *sql.DB
	writeLock *sync.Mutex // go-sqlite does not support concurrent writes
}

var _ Repository = (*SQLiteCategoryRepository)(nil)

// SQLiteCategoryRepositoryFactory creates a factory function that returns a new SQLiteCategoryRepository.
func SQLiteCategoryRepositoryFactory(db *sql.DB) RepositoryFactory {
	return func() (Repository, error) {
		return NewSQLiteCategoryRepository(db), nil
	}
}

// NewSQLiteCategoryRepository creates a new SQLiteCategoryRepository on a migrated database.
func NewSQLiteCategoryRepository(db *sql.DB) *SQLiteCategoryRepository {
	return &SQLiteCategoryRepository{db: db, writeLock: new(sync.Mutex)}
}

// CreateCategory implements Repository.CreateCategory using SQLite.
func (r *SQLiteCategoryRepository) CreateCategory(ctx context.Context, name string) (domain.Category, error) {
	r.writeLock.Lock()
	defer r.writeLock.Unlock()

	res, err := r.db.ExecContext(ctx, "INSERT INTO categories (name) VALUES (?)", name)
	if err != nil {
		return domain.Category{}, fmt.Errorf("insert category: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return domain.Category{}, fmt.Errorf("last insert id: %w", err)
	}

	return domain.Category{ID: id, Name: name}, nil
}

// ListCategories implements Repository.ListCategories using SQLite.
func (r *SQLiteCategoryRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name FROM categories ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	categories := make([]domain.Category, 0)

	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}

		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}

	return categories, nil
}

// Close implements Repository.Close. The shared database is closed by its owner.
func (r *SQLiteCategoryRepository) Close() error {
	return nil
}
