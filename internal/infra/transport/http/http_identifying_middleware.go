package http

import (
	"net/http"
	"strconv"
	"strings"

	context_ "github.com/mkrupp/expensetracker/internal/infra/context"
	"github.com/mkrupp/expensetracker/internal/infra/logging"
)

// IdentityProvider resolves the caller of a request.
// Implementations return false when the caller cannot be identified.
type IdentityProvider interface {
	Identify(r *http.Request) (int64, bool)
}

// HeaderIdentityProvider trusts a caller-supplied user ID header.
// It performs no cryptographic verification.
type HeaderIdentityProvider struct {
	Header string
}

var _ IdentityProvider = HeaderIdentityProvider{}

// Identify implements IdentityProvider.
func (p HeaderIdentityProvider) Identify(r *http.Request) (int64, bool) {
	value := strings.TrimSpace(r.Header.Get(p.Header))
	if value == "" {
		return 0, false
	}

	userID, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, false
	}

	return userID, true
}

// IdentifyingMiddleware stores the caller's user ID in the request context when the
// provider can identify it. Unidentified requests pass through unchanged; services
// reject them where an identity is required.
func IdentifyingMiddleware(next http.Handler, provider IdentityProvider, log logging.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := provider.Identify(r)
		if !ok {
			log.DebugContext(r.Context(), "caller not identified")
			next.ServeHTTP(w, r)

			return
		}

		next.ServeHTTP(w, r.WithContext(context_.WithUserID(r.Context(), userID)))
	})
}
