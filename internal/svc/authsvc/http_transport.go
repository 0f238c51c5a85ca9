package authsvc

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mkrupp/expensetracker/internal/domain"
	"github.com/mkrupp/expensetracker/internal/infra/logging"
	http_ "github.com/mkrupp/expensetracker/internal/infra/transport/http"
)

// CredentialsRequest is the body of signup and login requests.
type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// HTTPTransport handles HTTP requests for the authentication service.
type HTTPTransport struct {
	authSvc *AuthService
	log     logging.Logger
}

var _ http_.Routes = (*HTTPTransport)(nil)

// NewHTTPTransport creates a new HTTPTransport instance.
// It requires an AuthService for handling authentication operations.
func NewHTTPTransport(authSvc *AuthService) *HTTPTransport {
	return &HTTPTransport{
		authSvc: authSvc,
		log:     logging.GetLogger("svc.authsvc.http_transport"),
	}
}

// Register mounts the auth endpoints:
// - POST /api/auth/signup: Register a new user
// - POST /api/auth/login: Check credentials.
func (ht *HTTPTransport) Register(r chi.Router) {
	r.Post("/api/auth/signup", ht.HandleSignup)
	r.Post("/api/auth/login", ht.HandleLogin)
}

// HandleSignup processes user registration requests.
// Responds 201 with the new user's id and username.
func (ht *HTTPTransport) HandleSignup(w http.ResponseWriter, r *http.Request) {
	_ = ht.handleSignup(w, r)
}

func (ht *HTTPTransport) handleSignup(w http.ResponseWriter, r *http.Request) (err error) {
	log := ht.log.With(logging.Group("http", "method", r.Method, "url", r.URL.String()))

	defer func(ctx context.Context) {
		if err != nil {
			log.ErrorContext(ctx, "signup request failed", "error", err)
		} else {
			log.DebugContext(ctx, "signup request handled")
		}
	}(r.Context())

	var req CredentialsRequest
	if err := http_.DecodeJSON(r, &req); err != nil {
		http_.WriteDomainError(w, domain.ErrMalformedBody)

		return errors.Join(domain.ErrMalformedBody, err)
	}

	created, err := ht.authSvc.Signup(r.Context(), req.Username, req.Password)
	if err != nil {
		http_.WriteDomainError(w, err)

		return fmt.Errorf("signup: %w", err)
	}

	return http_.WriteJSON(w, http.StatusCreated, created.Response())
}

// HandleLogin processes user login requests.
// Responds 200 with the user's id and username.
func (ht *HTTPTransport) HandleLogin(w http.ResponseWriter, r *http.Request) {
	_ = ht.handleLogin(w, r)
}

func (ht *HTTPTransport) handleLogin(w http.ResponseWriter, r *http.Request) (err error) {
	log := ht.log.With(logging.Group("http", "method", r.Method, "url", r.URL.String()))

	defer func(ctx context.Context) {
		if err != nil {
			log.ErrorContext(ctx, "login request failed", "error", err)
		} else {
			log.DebugContext(ctx, "login request handled")
		}
	}(r.Context())

	var req CredentialsRequest
	if err := http_.DecodeJSON(r, &req); err != nil {
		http_.WriteDomainError(w, domain.ErrMalformedBody)

		return errors.Join(domain.ErrMalformedBody, err)
	}

	found, err := ht.authSvc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		http_.WriteDomainError(w, err)

		return fmt.Errorf("login: %w", err)
	}

	return http_.WriteJSON(w, http.StatusOK, found.Response())
}
