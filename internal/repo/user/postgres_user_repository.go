package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mkrupp/expensetracker/internal/domain"
	"github.com/mkrupp/expensetracker/internal/infra/logging"
)

// pgUniqueViolation is the SQLSTATE of a unique constraint violation.
const pgUniqueViolation = "23505"

// PostgresUserRepository implements Repository using a Postgres connection pool.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
	log  logging.Logger
}

var _ Repository = (*PostgresUserRepository)(nil)

// PostgresUserRepositoryFactory creates a factory function that returns a new PostgresUserRepository.
func PostgresUserRepositoryFactory(pool *pgxpool.Pool) RepositoryFactory {
	return func() (Repository, error) {
		return NewPostgresUserRepository(pool), nil
	}
}

// NewPostgresUserRepository creates a new PostgresUserRepository on a migrated database.
func NewPostgresUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{
		pool: pool,
		log:  logging.GetLogger("repo.user.postgres_user_repository"),
	}
}

// CreateUser implements Repository.CreateUser using Postgres.
func (r *PostgresUserRepository) CreateUser(
	ctx context.Context, username string, passwordHash []byte, createdAt time.Time,
) (*domain.User, error) {
	user := domain.User{
		Username:     username,
		PasswordHash: passwordHash,
	}

	err := r.pool.QueryRow(ctx,
		`INSERT INTO users (username, password_hash, created_at)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		username, passwordHash, createdAt.UTC(),
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			err = errors.Join(domain.ErrUsernameExists, err)
		}

		return nil, fmt.Errorf("insert user: %w", err)
	}

	r.log.DebugContext(ctx, "user inserted", logging.Group("user", "id", user.ID, "username", username))

	return &user, nil
}

// GetUserByUsername implements Repository.GetUserByUsername using Postgres.
func (r *PostgresUserRepository) GetUserByUsername(ctx context.Context, username string) (*domain.User, bool, error) {
	var user domain.User

	err := r.pool.QueryRow(ctx,
		"SELECT id, username, password_hash, created_at FROM users WHERE username = $1",
		username,
	).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}

		return nil, false, fmt.Errorf("query user: %w", err)
	}

	return &user, true, nil
}

// Close implements Repository.Close. The pool is closed by its owner.
func (r *PostgresUserRepository) Close() error {
	return nil
}
