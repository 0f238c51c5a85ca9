// Package authsvc registers users and checks their credentials.
package authsvc

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mkrupp/expensetracker/internal/domain"
	"github.com/mkrupp/expensetracker/internal/infra/logging"
	"github.com/mkrupp/expensetracker/internal/repo/user"
)

// AuthConfig contains configuration parameters for the authentication service.
type AuthConfig struct {
	// BcryptCost is the work factor of new password digests
	BcryptCost int `yaml:"bcrypt_cost" env:"BCRYPT_COST" env-default:"10"`
}

// AuthService provides user registration and login.
type AuthService struct {
	Config   AuthConfig
	UserRepo user.Repository
	Hasher   PasswordHasher
	Log      logging.Logger
	Now      func() time.Time
}

// NewAuthService creates a new AuthService with the given user repository factory and configuration.
// Returns an error if the user repository cannot be created.
func NewAuthService(repoFactory user.RepositoryFactory, cfg AuthConfig) (*AuthService, error) {
	log := logging.GetLogger("svc.authsvc.auth_service")

	userRepo, err := repoFactory()
	if err != nil {
		return nil, fmt.Errorf("new user repo: %w", err)
	}

	return &AuthService{
		Config:   cfg,
		UserRepo: userRepo,
		Hasher:   BcryptHasher{Cost: cfg.BcryptCost},
		Log:      log,
		Now:      time.Now,
	}, nil
}

// Signup creates a new user account with the given username and password.
// The username is trimmed; the password is used verbatim and only its digest is stored.
func (s *AuthService) Signup(ctx context.Context, username, password string) (_ *domain.User, err error) {
	username = strings.TrimSpace(username)
	log := s.Log.With(logging.Group("user", "username", username))

	defer func() {
		if err != nil {
			log.ErrorContext(ctx, "signup failed", "error", err)
		} else {
			log.DebugContext(ctx, "user signed up")
		}
	}()

	if err := validateCredentials(username, password); err != nil {
		return nil, err
	}

	_, exists, err := s.UserRepo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	} else if exists {
		return nil, domain.ErrUsernameExists
	}

	digest, err := s.Hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	// A concurrent signup may still win the race; the store's unique index reports it.
	created, err := s.UserRepo.CreateUser(ctx, username, digest, s.Now())
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	log = log.With(logging.Group("user", "id", created.ID, "username", username))

	return created, nil
}

// Login checks the credentials and returns the matching user.
// Unknown users and wrong passwords fail with the same error.
func (s *AuthService) Login(ctx context.Context, username, password string) (_ *domain.User, err error) {
	username = strings.TrimSpace(username)
	log := s.Log.With(logging.Group("user", "username", username))

	defer func() {
		if err != nil {
			log.ErrorContext(ctx, "login failed", "error", err)
		} else {
			log.DebugContext(ctx, "login successful")
		}
	}()

	found, ok, err := s.UserRepo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	} else if !ok {
		return nil, domain.ErrInvalidCredentials
	}

	if !s.Hasher.Verify(found.PasswordHash, password) {
		return nil, domain.ErrInvalidCredentials
	}

	return found, nil
}

func validateCredentials(username, password string) error {
	switch n := utf8.RuneCountInString(username); {
	case n < domain.UsernameMinLength:
		return domain.ErrUsernameTooShort
	case n > domain.UsernameMaxLength:
		return domain.ErrUsernameTooLong
	}

	switch {
	case utf8.RuneCountInString(password) < domain.PasswordMinLength:
		return domain.ErrPasswordTooShort
	case len(password) > PasswordMaxBytes:
		return domain.ErrPasswordTooLong
	}

	return nil
}
