// Package category persists the shared list of expense categories.
package category

import (
	"context"

	"github.com/mkrupp/expensetracker/internal/domain"
)

// Repository defines the interface for category data persistence.
type Repository interface {
	// CreateCategory stores a new category and returns it with its assigned ID.
	CreateCategory(ctx context.Context, name string) (domain.Category, error)

	// ListCategories returns all categories in insertion order.
	ListCategories(ctx context.Context) ([]domain.Category, error)

	// Close releases any resources held by the repository.
	Close() error
}

// RepositoryFactory is a function that creates a new Repository instance.
type RepositoryFactory func() (Repository, error)
