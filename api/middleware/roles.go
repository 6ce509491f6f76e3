package middleware

import (
	"net/http"

	"github.com/angelmondragon/tastetrack-storefront/api/responses"
	"github.com/angelmondragon/tastetrack-storefront/internal/access"
	pkgerrors "github.com/angelmondragon/tastetrack-storefront/pkg/errors"
	"github.com/angelmondragon/tastetrack-storefront/pkg/logger"
)

type guardRecorder interface {
	IncGuardDecision(requirement string, allowed bool)
}

// Guard applies the access decision for req. Denials carry the page the UI
// should redirect to; signed-out callers get 401, wrong roles 403.
func Guard(req access.Requirement, recorder guardRecorder, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			facts := factsFromContext(r.Context())
			decision := access.Decide(facts, req)
			if recorder != nil {
				recorder.IncGuardDecision(req.String(), decision.Allowed)
			}
			if decision.Allowed {
				next.ServeHTTP(w, r)
				return
			}

			code := pkgerrors.CodeForbidden
			message := "role required"
			if !facts.Authenticated || facts.Malformed {
				code = pkgerrors.CodeUnauthorized
				message = "sign in required"
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(code, message).
				WithDetails(map[string]any{"redirect_to": decision.RedirectTo}))
		})
	}
}
