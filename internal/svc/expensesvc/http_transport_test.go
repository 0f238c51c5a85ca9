package expensesvc_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkrupp/expensetracker/internal/domain"
	"github.com/mkrupp/expensetracker/internal/infra/logging"
	http_ "github.com/mkrupp/expensetracker/internal/infra/transport/http"
	"github.com/mkrupp/expensetracker/internal/svc/expensesvc"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	svc, _ := setupTestService(t, nil)
	router := chi.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http_.IdentifyingMiddleware(next, http_.HeaderIdentityProvider{Header: "X-User-Id"}, logging.NewNopLogger())
	})
	expensesvc.NewHTTPTransport(svc).Register(router)

	return router
}

func do(t *testing.T, handler http.Handler, method, path, userID, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if userID != "" {
		req.Header.Set("X-User-Id", userID)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	return rec
}

func message(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var resp http_.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

	return resp.Message
}

func TestHTTPTransport_CreateListDelete(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/api/expenses", "1",
		`{"name":"Coffee","amount":3.5,"date":"2024-01-10"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"id":1,"name":"Coffee","amount":3.50,"date":"2024-01-10","userId":1}`, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"amount":3.50`)

	rec = do(t, router, http.MethodGet, "/api/expenses", "1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var list []domain.Expense
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&list))
	require.Len(t, list, 1)
	assert.Equal(t, "Coffee", list[0].Name)

	rec = do(t, router, http.MethodGet, "/api/expenses", "2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = do(t, router, http.MethodDelete, "/api/expenses/1", "2", "")
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "not allowed to delete this expense", message(t, rec))

	rec = do(t, router, http.MethodDelete, "/api/expenses/1", "1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Deleted"}`, rec.Body.String())

	rec = do(t, router, http.MethodDelete, "/api/expenses/1", "1", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "expense not found", message(t, rec))
}

func TestHTTPTransport_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		method     string
		path       string
		userID     string
		body       string
		wantStatus int
		wantMsg    string
	}{
		{name: "list without caller", method: http.MethodGet, path: "/api/expenses",
			wantStatus: http.StatusUnauthorized, wantMsg: "missing caller identity"},
		{name: "list with invalid caller", method: http.MethodGet, path: "/api/expenses", userID: "abc",
			wantStatus: http.StatusUnauthorized, wantMsg: "missing caller identity"},
		{name: "create without caller", method: http.MethodPost, path: "/api/expenses",
			body:       `{"name":"Coffee","amount":3.5,"date":"2024-01-10"}`,
			wantStatus: http.StatusUnauthorized, wantMsg: "missing caller identity"},
		{name: "create invalid date", method: http.MethodPost, path: "/api/expenses", userID: "1",
			body:       `{"name":"Coffee","amount":3.5,"date":"2023-13-40"}`,
			wantStatus: http.StatusBadRequest, wantMsg: "invalid date"},
		{name: "create zero amount", method: http.MethodPost, path: "/api/expenses", userID: "1",
			body:       `{"name":"Coffee","amount":0,"date":"2024-01-10"}`,
			wantStatus: http.StatusBadRequest, wantMsg: "amount must be positive"},
		{name: "create missing amount", method: http.MethodPost, path: "/api/expenses", userID: "1",
			body:       `{"name":"Coffee","date":"2024-01-10"}`,
			wantStatus: http.StatusBadRequest, wantMsg: "amount required"},
		{name: "create null amount", method: http.MethodPost, path: "/api/expenses", userID: "1",
			body:       `{"name":"Coffee","amount":null,"date":"2024-01-10"}`,
			wantStatus: http.StatusBadRequest, wantMsg: "amount required"},
		{name: "create blank name", method: http.MethodPost, path: "/api/expenses", userID: "1",
			body:       `{"name":" ","amount":1,"date":"2024-01-10"}`,
			wantStatus: http.StatusBadRequest, wantMsg: "name required"},
		{name: "create malformed body", method: http.MethodPost, path: "/api/expenses", userID: "1",
			body:       `{"name":`,
			wantStatus: http.StatusBadRequest, wantMsg: "malformed request body"},
		{name: "delete bad id", method: http.MethodDelete, path: "/api/expenses/abc", userID: "1",
			wantStatus: http.StatusBadRequest, wantMsg: "invalid id"},
		{name: "delete without caller", method: http.MethodDelete, path: "/api/expenses/1",
			wantStatus: http.StatusUnauthorized, wantMsg: "missing caller identity"},
		{name: "delete missing", method: http.MethodDelete, path: "/api/expenses/99", userID: "1",
			wantStatus: http.StatusNotFound, wantMsg: "expense not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := do(t, newTestRouter(t), tt.method, tt.path, tt.userID, tt.body)
			require.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantMsg, message(t, rec))
		})
	}
}

func TestHTTPTransport_CreateAcceptsStringAmount(t *testing.T) {
	t.Parallel()

	rec := do(t, newTestRouter(t), http.MethodPost, "/api/expenses", "1",
		`{"name":"Tea","amount":"10.005","date":"2024-01-10"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"amount":10.01`)
}
