// Package expense persists expenses together with their owning user.
package expense

import (
	"context"

	"github.com/mkrupp/expensetracker/internal/domain"
)

// Repository defines the interface for expense data persistence.
type Repository interface {
	// CreateExpense stores a new expense and returns it with its assigned ID.
	CreateExpense(ctx context.Context, expense domain.Expense) (domain.Expense, error)

	// GetExpense retrieves an expense by ID.
	// Returns the expense and true if found, or nil and false if not found.
	GetExpense(ctx context.Context, id int64) (*domain.Expense, bool, error)

	// ListExpensesByOwner returns the owner's expenses in insertion order.
	ListExpensesByOwner(ctx context.Context, ownerID int64) ([]domain.Expense, error)

	// DeleteExpense removes the expense only if it belongs to ownerID.
	// Returns false if no such row existed at the time of the delete.
	DeleteExpense(ctx context.Context, id, ownerID int64) (bool, error)

	// Close releases any resources held by the repository.
	Close() error
}

// RepositoryFactory is a function that creates a new Repository instance.
type RepositoryFactory func() (Repository, error)
