package categorysvc

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

// CreateCategoryRequest is the body of a create request.
type CreateCategoryRequest struct {
	Name string `json:"name"`
}

// HTTPTransport handles HTTP requests for the category service.
type HTTPTransport struct {
	categorySvc *CategoryService
	log         logging.Logger
}

var _ http_.Routes = (*HTTPTransport)(nil)

// NewHTTPTransport creates a new HTTPTransport instance.
func NewHTTPTransport(categorySvc *CategoryService) *HTTPTransport {
	return &HTTPTransport{
		categorySvc: categorySvc,
		log:         logging.GetLogger("svc.categorysvc.http_transport"),
	}
}

// Register mounts GET and POST /api/categories.
func (ht *HTTPTransport) Register(r chi.Router) {
	r.Get("/api/categories", ht.HandleList)
	r.Post("/api/categories", ht.HandleCreate)
}

// HandleList responds 200 with all categories.
func (ht *HTTPTransport) HandleList(w http.ResponseWriter, r *http.Request) {
	categories, err := ht.categorySvc.List(r.Context())
	if err != nil {
		ht.log.ErrorContext(r.Context(), "list request failed", "error", err)
		http_.WriteDomainError(w, err)

		return
	}

	_ = http_.WriteJSON(w, http.StatusOK, categories)
}

// HandleCreate responds 201 with the stored category.
func (ht *HTTPTransport) HandleCreate(w http.ResponseWriter, r *http.Request) {
	_ = ht.handleCreate(w, r)
}

func (ht *HTTPTransport) handleCreate(w http.ResponseWriter, r *http.Request) (err error) {
	log := ht.log.With(logging.Group("http", "method", r.Method, "url", r.URL.String()))

	defer func(ctx context.Context) {
		if err != nil {
			log.ErrorContext(ctx, "create request failed", "error", err)
		}
	}(r.Context())

	var req CreateCategoryRequest
	if err := http_.DecodeJSON(r, &req); err != nil {
		http_.WriteDomainError(w, domain.ErrMalformedBody)

		return errors.Join(domain.ErrMalformedBody, err)
	}

	created, err := ht.categorySvc.Create(r.Context(), req.Name)
	if err != nil {
		http_.WriteDomainError(w, err)

		return fmt.Errorf("create: %w", err)
	}

	return http_.WriteJSON(w, http.StatusCreated, created)
}
