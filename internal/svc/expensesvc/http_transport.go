package expensesvc

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/mkrupp/expensetracker/internal/domain"
	"github.com/mkrupp/expensetracker/internal/infra/logging"
	http_ "github.com/mkrupp/expensetracker/internal/infra/transport/http"
)

// DeletedMessage acknowledges a successful delete.
const DeletedMessage = "Deleted"

// CreateExpenseRequest is the body of a create request.
// Amount accepts a JSON number or a numeric string.
type CreateExpenseRequest struct {
	Name   string              `json:"name"`
	Amount decimal.NullDecimal `json:"amount"`
	Date   string              `json:"date"`
}

// HTTPTransport handles HTTP requests for the expense service.
type HTTPTransport struct {
	expenseSvc *ExpenseService
	log        logging.Logger
}

var _ http_.Routes = (*HTTPTransport)(nil)

// NewHTTPTransport creates a new HTTPTransport instance.
func NewHTTPTransport(expenseSvc *ExpenseService) *HTTPTransport {
	return &HTTPTransport{
		expenseSvc: expenseSvc,
		log:        logging.GetLogger("svc.expensesvc.http_transport"),
	}
}

// Register mounts the expense endpoints:
// - GET /api/expenses: List the caller's expenses
// - POST /api/expenses: Create an expense
// - DELETE /api/expenses/{id}: Delete one of the caller's expenses.
func (ht *HTTPTransport) Register(r chi.Router) {
	r.Route("/api/expenses", func(r chi.Router) {
		r.Get("/", ht.HandleList)
		r.Post("/", ht.HandleCreate)
		r.Delete("/{id}", ht.HandleDelete)
	})
}

// HandleList responds 200 with the caller's expenses.
func (ht *HTTPTransport) HandleList(w http.ResponseWriter, r *http.Request) {
	_ = ht.handleList(w, r)
}

func (ht *HTTPTransport) handleList(w http.ResponseWriter, r *http.Request) (err error) {
	log := ht.log.With(logging.Group("http", "method", r.Method, "url", r.URL.String()))

	defer func(ctx context.Context) {
		if err != nil {
			log.ErrorContext(ctx, "list request failed", "error", err)
		} else {
			log.DebugContext(ctx, "list request handled")
		}
	}(r.Context())

	list, err := ht.expenseSvc.List(r.Context())
	if err != nil {
		http_.WriteDomainError(w, err)

		return fmt.Errorf("list: %w", err)
	}

	return http_.WriteJSON(w, http.StatusOK, list)
}

// HandleCreate responds 201 with the stored expense.
func (ht *HTTPTransport) HandleCreate(w http.ResponseWriter, r *http.Request) {
	_ = ht.handleCreate(w, r)
}

func (ht *HTTPTransport) handleCreate(w http.ResponseWriter, r *http.Request) (err error) {
	log := ht.log.With(logging.Group("http", "method", r.Method, "url", r.URL.String()))

	defer func(ctx context.Context) {
		if err != nil {
			log.ErrorContext(ctx, "create request failed", "error", err)
		} else {
			log.DebugContext(ctx, "create request handled")
		}
	}(r.Context())

	var req CreateExpenseRequest
	if err := http_.DecodeJSON(r, &req); err != nil {
		http_.WriteDomainError(w, domain.ErrMalformedBody)

		return errors.Join(domain.ErrMalformedBody, err)
	}

	created, err := ht.expenseSvc.Create(r.Context(), req.Name, req.Amount, req.Date)
	if err != nil {
		http_.WriteDomainError(w, err)

		return fmt.Errorf("create: %w", err)
	}

	return http_.WriteJSON(w, http.StatusCreated, created)
}

// HandleDelete responds 200 with an acknowledgement.
func (ht *HTTPTransport) HandleDelete(w http.ResponseWriter, r *http.Request) {
	_ = ht.handleDelete(w, r)
}

func (ht *HTTPTransport) handleDelete(w http.ResponseWriter, r *http.Request) (err error) {
	log := ht.log.With(logging.Group("http", "method", r.Method, "url", r.URL.String()))

	defer func(ctx context.Context) {
		if err != nil {
			log.ErrorContext(ctx, "delete request failed", "error", err)
		} else {
			log.DebugContext(ctx, "delete request handled")
		}
	}(r.Context())

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http_.WriteDomainError(w, domain.ErrInvalidID)

		return errors.Join(domain.ErrInvalidID, err)
	}

	if err := ht.expenseSvc.Delete(r.Context(), id); err != nil {
		http_.WriteDomainError(w, err)

		return fmt.Errorf("delete: %w", err)
	}

	return http_.WriteJSON(w, http.StatusOK, domain.DeletedResponse{Message: DeletedMessage})
}
