package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/tastetrack-storefront/api/responses"
	"github.com/angelmondragon/tastetrack-storefront/api/validators"
	"github.com/angelmondragon/tastetrack-storefront/internal/catalog"
	"github.com/angelmondragon/tastetrack-storefront/internal/coupons"
	pkgerrors "github.com/angelmondragon/tastetrack-storefront/pkg/errors"
	"github.com/angelmondragon/tastetrack-storefront/pkg/logger"
)

const maxSearchLength = 100

// RestaurantList serves every restaurant, or only open ones when openOnly is set.
func RestaurantList(svc catalog.Service, openOnly bool, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var (
			list []catalog.Restaurant
			err  error
		)
		if openOnly {
			list, err = svc.ListOpenRestaurants(r.Context())
		} else {
			list, err = svc.ListRestaurants(r.Context())
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

func RestaurantSearch(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		query := validators.ParseQueryString(r, "q", maxSearchLength)
		list, err := svc.SearchRestaurants(r.Context(), query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

func RestaurantDetail(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id, err := restaurantIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		restaurant, err := svc.GetRestaurant(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, restaurant)
	}
}

func RestaurantMenu(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id, err := restaurantIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.ListMenu(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, items)
	}
}

// CouponList exposes the coupon catalog so the UI can suggest codes.
func CouponList(couponCatalog coupons.Catalog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if couponCatalog == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "coupon catalog unavailable"))
			return
		}
		responses.WriteSuccess(w, couponCatalog.All())
	}
}

func restaurantIDParam(r *http.Request) (string, error) {
	id := strings.TrimSpace(chi.URLParam(r, "restaurantId"))
	if id == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "restaurant id is required")
	}
	return id, nil
}
