package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/angelmondragon/tastetrack-storefront/api/responses"
	pkgerrors "github.com/angelmondragon/tastetrack-storefront/pkg/errors"
	"github.com/angelmondragon/tastetrack-storefront/pkg/logger"
)

const (
	sessionHeader      = "X-Session-Id"
	maxSessionIDLength = 128
)

// CartSession resolves the browser session that owns the cart. A request
// without one is issued a fresh ID, echoed back in the response header.
func CartSession(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := strings.TrimSpace(r.Header.Get(sessionHeader))
			if len(sessionID) > maxSessionIDLength || strings.ContainsAny(sessionID, ": \t") {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid session id"))
				return
			}
			if sessionID == "" {
				sessionID = uuid.NewString()
			}
			w.Header().Set(sessionHeader, sessionID)

			ctx := WithSessionID(r.Context(), sessionID)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sessionID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
