package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/mkrupp/expensetracker/internal/infra/cache"
	"github.com/mkrupp/expensetracker/internal/infra/database"
	"github.com/mkrupp/expensetracker/internal/infra/logging"
	http_ "github.com/mkrupp/expensetracker/internal/infra/transport/http"
	"github.com/mkrupp/expensetracker/internal/repo/category"
	"github.com/mkrupp/expensetracker/internal/repo/expense"
	"github.com/mkrupp/expensetracker/internal/repo/user"
	"github.com/mkrupp/expensetracker/internal/svc/authsvc"
	"github.com/mkrupp/expensetracker/internal/svc/categorysvc"
	"github.com/mkrupp/expensetracker/internal/svc/expensesvc"
)

// app holds the wired services and the resources they share.
type app struct {
	Handler http.Handler

	closers []func() error
}

type repositories struct {
	users      user.RepositoryFactory
	expenses   expense.RepositoryFactory
	categories category.RepositoryFactory
}

func newApp(ctx context.Context, cfg Config) (_ *app, err error) {
	a := &app{}

	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	repos, err := a.openStorage(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	var listCache expensesvc.ListCache

	if cfg.Cache.Enabled() {
		rdb, err := cache.OpenRedis(ctx, cfg.Cache)
		if err != nil {
			return nil, fmt.Errorf("open cache: %w", err)
		}

		a.closers = append(a.closers, rdb.Close)
		listCache = cache.NewExpenseCache(rdb, cfg.Cache.TTL)
	}

	authSvc, err := authsvc.NewAuthService(repos.users, cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("new auth service: %w", err)
	}

	expenseSvc, err := expensesvc.NewExpenseService(repos.expenses, listCache)
	if err != nil {
		return nil, fmt.Errorf("new expense service: %w", err)
	}

	categorySvc, err := categorysvc.NewCategoryService(repos.categories)
	if err != nil {
		return nil, fmt.Errorf("new category service: %w", err)
	}

	a.closers = append(a.closers,
		authSvc.UserRepo.Close,
		expenseSvc.ExpenseRepo.Close,
		categorySvc.CategoryRepo.Close,
	)

	a.Handler = http_.NewRouter(
		cfg.HTTP,
		http_.HeaderIdentityProvider{Header: cfg.HTTP.IdentityHeader},
		authsvc.NewHTTPTransport(authSvc),
		expensesvc.NewHTTPTransport(expenseSvc),
		categorysvc.NewHTTPTransport(categorySvc),
	)

	return a, nil
}

func (a *app) openStorage(ctx context.Context, cfg database.StorageConfig) (repositories, error) {
	log := logging.GetLogger("cmd.expensesvc.storage")

	switch cfg.Driver {
	case database.DriverSQLite:
		db, err := database.OpenSQLite(ctx, cfg.SQLite)
		if err != nil {
			return repositories{}, fmt.Errorf("open sqlite: %w", err)
		}

		a.closers = append(a.closers, db.Close)
		log.InfoContext(ctx, "storage ready", logging.Group("db", "driver", cfg.Driver, "path", cfg.SQLite.DatabasePath))

		return repositories{
			users:      user.SQLiteUserRepositoryFactory(db),
			expenses:   expense.SQLiteExpenseRepositoryFactory(db),
			categories: category.SQLiteCategoryRepositoryFactory(db),
		}, nil
	case database.DriverPostgres:
		pool, err := database.OpenPostgres(ctx, cfg.Postgres)
		if err != nil {
			return repositories{}, fmt.Errorf("open postgres: %w", err)
		}

		a.closers = append(a.closers, func() error {
			pool.Close()

			return nil
		})
		log.InfoContext(ctx, "storage ready", logging.Group("db", "driver", cfg.Driver))

		return repositories{
			users:      user.PostgresUserRepositoryFactory(pool),
			expenses:   expense.PostgresExpenseRepositoryFactory(pool),
			categories: category.PostgresCategoryRepositoryFactory(pool),
		}, nil
	default:
		return repositories{}, fmt.Errorf("%w: %q", database.ErrUnsupportedDriver, cfg.Driver)
	}
}

// Close releases resources in reverse acquisition order.
func (a *app) Close() error {
	var errs []error

	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}

	a.closers = nil

	return errors.Join(errs...)
}
