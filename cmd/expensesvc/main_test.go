package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkrupp/expensetracker/internal/infra/config"
	"github.com/mkrupp/expensetracker/internal/infra/database"
	"github.com/mkrupp/expensetracker/internal/infra/logging"
	http_ "github.com/mkrupp/expensetracker/internal/infra/transport/http"
)

func loadTestConfig(t *testing.T) Config {
	t.Helper()

	t.Setenv("EXPENSES_SQLITE_DATABASE_PATH", filepath.Join(t.TempDir(), "var", "expenses.db"))
	t.Setenv("EXPENSES_AUTH_BCRYPT_COST", "4")

	var cfg Config
	require.NoError(t, config.Load(&cfg, ""))

	return cfg
}

type client struct {
	t   *testing.T
	url string
}

func (c client) do(method, path, userID, body string) (int, string) {
	c.t.Helper()

	req, err := http.NewRequestWithContext(context.Background(), method, c.url+path, strings.NewReader(body))
	require.NoError(c.t, err)

	req.Header.Set("Content-Type", "application/json")

	if userID != "" {
		req.Header.Set("X-User-Id", userID)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)

	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)

	return resp.StatusCode, string(b)
}

//nolint:paralleltest
func TestConfigDefaults(t *testing.T) {
	cfg := loadTestConfig(t)

	assert.Equal(t, database.DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, ":8080", cfg.HTTP.ServerAddr)
	assert.Equal(t, "X-User-Id", cfg.HTTP.IdentityHeader)
	assert.Equal(t, 4, cfg.Auth.BcryptCost)
	assert.False(t, cfg.Cache.Enabled())
}

//nolint:paralleltest
func TestNewApp_UnsupportedDriver(t *testing.T) {
	cfg := loadTestConfig(t)
	cfg.Storage.Driver = "mysql"

	_, err := newApp(context.Background(), cfg)
	assert.ErrorIs(t, err, database.ErrUnsupportedDriver)
}

//nolint:paralleltest
func TestScenario(t *testing.T) {
	cfg := loadTestConfig(t)

	a, err := newApp(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, a.Close()) })

	server := httptest.NewServer(http_.WithMiddlewares(a.Handler, logging.NewNopLogger()))
	t.Cleanup(server.Close)

	c := client{t: t, url: server.URL}

	status, body := c.do(http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"ok":true}`, body)

	status, body = c.do(http.MethodPost, "/api/auth/signup", "", `{"username":"alice","password":"secret1"}`)
	require.Equal(t, http.StatusCreated, status, body)
	assert.JSONEq(t, `{"id":1,"username":"alice"}`, body)

	status, body = c.do(http.MethodPost, "/api/auth/signup", "", `{"username":" alice","password":"secret2"}`)
	require.Equal(t, http.StatusConflict, status, body)

	status, body = c.do(http.MethodPost, "/api/auth/login", "", `{"username":"alice","password":"secret1"}`)
	require.Equal(t, http.StatusOK, status, body)
	assert.JSONEq(t, `{"id":1,"username":"alice"}`, body)

	status, _ = c.do(http.MethodPost, "/api/auth/login", "", `{"username":"alice","password":"secret1x"}`)
	require.Equal(t, http.StatusUnauthorized, status)

	status, body = c.do(http.MethodPost, "/api/expenses", "1", `{"name":"Coffee","amount":3.50,"date":"2024-01-10"}`)
	require.Equal(t, http.StatusCreated, status, body)

	var created struct {
		ID     int64       `json:"id"`
		Amount json.Number `json:"amount"`
		Date   string      `json:"date"`
		UserID int64       `json:"userId"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &created))
	assert.Equal(t, "3.50", created.Amount.String())
	assert.Equal(t, "2024-01-10", created.Date)
	assert.Equal(t, int64(1), created.UserID)

	status, body = c.do(http.MethodGet, "/api/expenses", "1", "")
	require.Equal(t, http.StatusOK, status, body)
	assert.JSONEq(t, `[{"id":1,"name":"Coffee","amount":3.50,"date":"2024-01-10","userId":1}]`, body)

	status, body = c.do(http.MethodGet, "/api/expenses", "", "")
	require.Equal(t, http.StatusUnauthorized, status, body)

	status, body = c.do(http.MethodDelete, "/api/expenses/1", "2", "")
	require.Equal(t, http.StatusForbidden, status, body)

	status, body = c.do(http.MethodDelete, "/api/expenses/1", "1", "")
	require.Equal(t, http.StatusOK, status, body)
	assert.JSONEq(t, `{"message":"Deleted"}`, body)

	status, body = c.do(http.MethodDelete, "/api/expenses/1", "1", "")
	require.Equal(t, http.StatusNotFound, status, body)

	status, body = c.do(http.MethodPost, "/api/categories", "", `{"name":"Food"}`)
	require.Equal(t, http.StatusCreated, status, body)

	status, body = c.do(http.MethodGet, "/api/categories", "", "")
	require.Equal(t, http.StatusOK, status, body)
	assert.JSONEq(t, `[{"id":1,"name":"Food"}]`, body)
}
