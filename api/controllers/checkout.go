package controllers

import (
	"net/http"

	"github.com/angelmondragon/tastetrack-storefront/api/middleware"
	"github.com/angelmondragon/tastetrack-storefront/api/responses"
	"github.com/angelmondragon/tastetrack-storefront/api/validators"
	"github.com/angelmondragon/tastetrack-storefront/internal/access"
	checkoutsvc "github.com/angelmondragon/tastetrack-storefront/internal/checkout"
	pkgerrors "github.com/angelmondragon/tastetrack-storefront/pkg/errors"
	"github.com/angelmondragon/tastetrack-storefront/pkg/logger"
)

// Checkout submits the session's cart as an order on behalf of the signed-in customer.
func Checkout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		identity, ok := middleware.IdentityFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in required").
				WithDetails(map[string]any{"redirect_to": access.LoginPath}))
			return
		}
		sessionID := middleware.SessionIDFromContext(r.Context())
		if sessionID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "cart session missing"))
			return
		}

		var payload checkoutsvc.Request
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Checkout(r.Context(), sessionID, identity.UpstreamToken, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
