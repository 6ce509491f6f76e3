package cart

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/tastetrack-storefront/api/middleware"
	"github.com/angelmondragon/tastetrack-storefront/api/responses"
	"github.com/angelmondragon/tastetrack-storefront/api/validators"
	cartsvc "github.com/angelmondragon/tastetrack-storefront/internal/cart"
	"github.com/angelmondragon/tastetrack-storefront/internal/catalog"
	pkgerrors "github.com/angelmondragon/tastetrack-storefront/pkg/errors"
	"github.com/angelmondragon/tastetrack-storefront/pkg/logger"
)

// Sessions is the cart session surface the handlers need. *cartsvc.Sessions satisfies it.
type Sessions interface {
	Get(ctx context.Context, sessionID string) (*cartsvc.Store, error)
	Update(ctx context.Context, sessionID string, fn func(*cartsvc.Store) error) (*cartsvc.Store, error)
	Discard(ctx context.Context, sessionID string) error
}

type menuLookup interface {
	GetMenuItem(ctx context.Context, id string) (*catalog.MenuItem, error)
}

// Recorder counts cart activity; a nil Recorder is allowed.
type Recorder interface {
	IncCartMutation(op string)
	IncCouponResult(result string)
}

// CartFetch returns the session's cart with its price summary.
func CartFetch(sessions Sessions, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if sessions == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		sessionID, err := sessionIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store, err := sessions.Get(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newView(sessionID, store))
	}
}

// CartAddItem resolves the menu item from the catalog before touching the
// cart, so the stored price is the catalog's and a failed lookup leaves the
// cart as it was.
func CartAddItem(sessions Sessions, menu menuLookup, rec Recorder, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if sessions == nil || menu == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		sessionID, err := sessionIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload addItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		payload = payload.normalized()

		item, err := menu.GetMenuItem(r.Context(), payload.MenuItemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store, err := sessions.Update(r.Context(), sessionID, func(s *cartsvc.Store) error {
			s.AddItem(*item, payload.Quantity)
			return nil
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		countMutation(rec, "add_item")
		responses.WriteSuccess(w, newView(sessionID, store))
	}
}

func CartUpdateItem(sessions Sessions, rec Recorder, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if sessions == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		sessionID, err := sessionIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		itemID, err := itemIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store, err := sessions.Update(r.Context(), sessionID, func(s *cartsvc.Store) error {
			s.UpdateQuantity(itemID, *payload.Quantity)
			return nil
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		countMutation(rec, "update_quantity")
		responses.WriteSuccess(w, newView(sessionID, store))
	}
}

func CartRemoveItem(sessions Sessions, rec Recorder, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if sessions == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		sessionID, err := sessionIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		itemID, err := itemIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store, err := sessions.Update(r.Context(), sessionID, func(s *cartsvc.Store) error {
			s.RemoveItem(itemID)
			return nil
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		countMutation(rec, "remove_item")
		responses.WriteSuccess(w, newView(sessionID, store))
	}
}

// CartClear drops the session's snapshot entirely.
func CartClear(sessions Sessions, rec Recorder, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if sessions == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		sessionID, err := sessionIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := sessions.Discard(r.Context(), sessionID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		store, err := sessions.Get(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		countMutation(rec, "clear")
		responses.WriteSuccess(w, newView(sessionID, store))
	}
}

// CartApplyCoupon attaches a coupon. A rejected code answers 422 with the
// reason and leaves the stored cart untouched.
func CartApplyCoupon(sessions Sessions, rec Recorder, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if sessions == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		sessionID, err := sessionIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload applyCouponRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		code := strings.TrimSpace(payload.Code)

		var rejected cartsvc.Rejection
		store, err := sessions.Update(r.Context(), sessionID, func(s *cartsvc.Store) error {
			if reason, ok := s.EvaluateCoupon(code); !ok {
				rejected = reason
				return pkgerrors.New(pkgerrors.CodeStateConflict, "coupon could not be applied").
					WithDetails(map[string]any{"reason": string(reason), "code": code})
			}
			s.ApplyCoupon(code)
			return nil
		})
		if err != nil {
			if rejected != "" {
				countCoupon(rec, string(rejected))
			}
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		countCoupon(rec, "applied")
		countMutation(rec, "apply_coupon")
		responses.WriteSuccess(w, newView(sessionID, store))
	}
}

func CartRemoveCoupon(sessions Sessions, rec Recorder, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if sessions == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		sessionID, err := sessionIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store, err := sessions.Update(r.Context(), sessionID, func(s *cartsvc.Store) error {
			s.RemoveCoupon()
			return nil
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		countMutation(rec, "remove_coupon")
		responses.WriteSuccess(w, newView(sessionID, store))
	}
}

func sessionIDFromContext(r *http.Request) (string, error) {
	sessionID := middleware.SessionIDFromContext(r.Context())
	if sessionID == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "cart session missing")
	}
	return sessionID, nil
}

func itemIDParam(r *http.Request) (string, error) {
	id := strings.TrimSpace(chi.URLParam(r, "itemId"))
	if id == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	return id, nil
}

func countMutation(rec Recorder, op string) {
	if rec != nil {
		rec.IncCartMutation(op)
	}
}

func countCoupon(rec Recorder, result string) {
	if rec != nil {
		rec.IncCouponResult(result)
	}
}
