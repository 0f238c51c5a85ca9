// Package expensesvc manages each user's private list of expenses.
package expensesvc

import (
	"context"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"

	"github.com/mkrupp/expensetracker/internal/domain"
	context_ "github.com/mkrupp/expensetracker/internal/infra/context"
	"github.com/mkrupp/expensetracker/internal/infra/logging"
	"github.com/mkrupp/expensetracker/internal/repo/expense"
)

// ListCache stores each owner's expense list between writes.
// Every Invalidate bumps the owner's version; SetList only stores a list
// loaded under the current version.
type ListCache interface {
	GetList(ctx context.Context, ownerID int64) ([]domain.Expense, bool, error)
	Version(ctx context.Context, ownerID int64) (int64, error)
	SetList(ctx context.Context, ownerID, version int64, list []domain.Expense) error
	Invalidate(ctx context.Context, ownerID int64) error
}

// ExpenseService lists, creates and deletes the caller's expenses.
// The caller is the user ID found in the request context.
type ExpenseService struct {
	ExpenseRepo expense.Repository
	Cache       ListCache // Optional
	Log         logging.Logger

	sf singleflight.Group
}

// NewExpenseService creates a new ExpenseService. A nil cache disables caching.
func NewExpenseService(repoFactory expense.RepositoryFactory, cache ListCache) (*ExpenseService, error) {
	expenseRepo, err := repoFactory()
	if err != nil {
		return nil, fmt.Errorf("new expense repo: %w", err)
	}

	return &ExpenseService{
		ExpenseRepo: expenseRepo,
		Cache:       cache,
		Log:         logging.GetLogger("svc.expensesvc.expense_service"),
	}, nil
}

// List returns the caller's expenses in creation order.
func (s *ExpenseService) List(ctx context.Context) (_ []domain.Expense, err error) {
	log := s.Log

	defer func() {
		if err != nil {
			log.ErrorContext(ctx, "list expenses failed", "error", err)
		} else {
			log.DebugContext(ctx, "expenses listed")
		}
	}()

	callerID, ok := context_.UserIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrNoCaller
	}

	if s.Cache == nil {
		return s.load(ctx, callerID)
	}

	v, err, _ := s.sf.Do(flightKey(callerID), func() (any, error) {
		// Shared by every waiter, so one caller going away must not fail the rest.
		ctx := context.WithoutCancel(ctx)

		list, hit, err := s.Cache.GetList(ctx, callerID)
		if err != nil {
			log.WarnContext(ctx, "cache get failed", "error", err)
		} else if hit {
			return list, nil
		}

		version, verr := s.Cache.Version(ctx, callerID)

		list, err = s.load(ctx, callerID)
		if err != nil {
			return nil, err
		}

		if verr != nil {
			log.WarnContext(ctx, "cache version failed", "error", verr)
		} else if err := s.Cache.SetList(ctx, callerID, version, list); err != nil {
			log.WarnContext(ctx, "cache set failed", "error", err)
		}

		return list, nil
	})
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	list, _ := v.([]domain.Expense)
	if list == nil {
		list = make([]domain.Expense, 0)
	}

	return list, nil
}

func flightKey(ownerID int64) string {
	return strconv.FormatInt(ownerID, 10)
}

func (s *ExpenseService) load(ctx context.Context, ownerID int64) ([]domain.Expense, error) {
	list, err := s.ExpenseRepo.ListExpensesByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}

	return list, nil
}

// Create validates and stores a new expense owned by the caller.
// The amount is rounded half away from zero to two places.
func (s *ExpenseService) Create(
	ctx context.Context, name string, amount decimal.NullDecimal, date string,
) (_ domain.Expense, err error) {
	log := s.Log

	defer func() {
		if err != nil {
			log.ErrorContext(ctx, "create expense failed", "error", err)
		} else {
			log.DebugContext(ctx, "expense created")
		}
	}()

	callerID, ok := context_.UserIDFromContext(ctx)
	if !ok {
		return domain.Expense{}, domain.ErrNoCaller
	}

	parsedDate, err := validateDate(date)
	if err != nil {
		return domain.Expense{}, err
	}

	rounded, err := validateAmount(amount)
	if err != nil {
		return domain.Expense{}, err
	}

	name, err = validateName(name)
	if err != nil {
		return domain.Expense{}, err
	}

	created, err := s.ExpenseRepo.CreateExpense(ctx, domain.Expense{
		Name:    name,
		Amount:  rounded,
		Date:    parsedDate,
		OwnerID: &callerID,
	})
	if err != nil {
		return domain.Expense{}, fmt.Errorf("create expense: %w", err)
	}

	log = log.With(logging.Group("expense", "id", created.ID, "amount", created.Amount.StringFixed(domain.AmountPlaces)))

	s.invalidate(ctx, callerID)

	return created, nil
}

// Delete removes one of the caller's expenses.
// Expenses owned by someone else, or by nobody, cannot be deleted.
func (s *ExpenseService) Delete(ctx context.Context, id int64) (err error) {
	log := s.Log.With(logging.Group("expense", "id", id))

	defer func() {
		if err != nil {
			log.ErrorContext(ctx, "delete expense failed", "error", err)
		} else {
			log.DebugContext(ctx, "expense deleted")
		}
	}()

	callerID, ok := context_.UserIDFromContext(ctx)
	if !ok {
		return domain.ErrNoCaller
	}

	found, ok, err := s.ExpenseRepo.GetExpense(ctx, id)
	if err != nil {
		return fmt.Errorf("get expense: %w", err)
	} else if !ok {
		return domain.ErrExpenseNotFound
	}

	if !found.OwnedBy(callerID) {
		return domain.ErrExpenseForbidden
	}

	// The conditional delete loses to a concurrent delete of the same row.
	deleted, err := s.ExpenseRepo.DeleteExpense(ctx, id, callerID)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	} else if !deleted {
		return domain.ErrExpenseNotFound
	}

	s.invalidate(ctx, callerID)

	return nil
}

func (s *ExpenseService) invalidate(ctx context.Context, ownerID int64) {
	if s.Cache == nil {
		return
	}

	// Loads already in flight started before this write.
	s.sf.Forget(flightKey(ownerID))

	if err := s.Cache.Invalidate(ctx, ownerID); err != nil {
		s.Log.WarnContext(ctx, "cache invalidate failed", "error", err)
	}
}
