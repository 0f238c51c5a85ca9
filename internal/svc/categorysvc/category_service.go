// Package categorysvc manages the shared list of expense categories.
package categorysvc

import (
	"context"
	"fmt"
	"strings"

	"github.com/mkrupp/expensetracker/internal/domain"
	"github.com/mkrupp/expensetracker/internal/infra/logging"
	"github.com/mkrupp/expensetracker/internal/repo/category"
)

// CategoryService lists and creates categories. Categories have no owner.
type CategoryService struct {
	CategoryRepo category.Repository
	Log          logging.Logger
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(repoFactory category.RepositoryFactory) (*CategoryService, error) {
	categoryRepo, err := repoFactory()
	if err != nil {
		return nil, fmt.Errorf("new category repo: %w", err)
	}

	return &CategoryService{
		CategoryRepo: categoryRepo,
		Log:          logging.GetLogger("svc.categorysvc.category_service"),
	}, nil
}

// List returns all categories.
func (s *CategoryService) List(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.CategoryRepo.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	return categories, nil
}

// Create stores a category with the trimmed name.
func (s *CategoryService) Create(ctx context.Context, name string) (_ domain.Category, err error) {
	name = strings.TrimSpace(name)
	log := s.Log.With(logging.Group("category", "name", name))

	defer func() {
		if err != nil {
			log.ErrorContext(ctx, "create category failed", "error", err)
		} else {
			log.DebugContext(ctx, "category created")
		}
	}()

	if name == "" {
		return domain.Category{}, domain.ErrNameRequired
	}

	created, err := s.CategoryRepo.CreateCategory(ctx, name)
	if err != nil {
		return domain.Category{}, fmt.Errorf("create category: %w", err)
	}

	return created, nil
}
