package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	pkgerrors "github.com/angelmondragon/tastetrack-storefront/pkg/errors"
	"github.com/angelmondragon/tastetrack-storefront/pkg/upstream"
)

// Service reads restaurants and menus from the REST API.
type Service interface {
	ListRestaurants(ctx context.Context) ([]Restaurant, error)
	ListOpenRestaurants(ctx context.Context) ([]Restaurant, error)
	SearchRestaurants(ctx context.Context, query string) ([]Restaurant, error)
	GetRestaurant(ctx context.Context, id string) (*Restaurant, error)
	ListMenu(ctx context.Context, restaurantID string) ([]MenuItem, error)
	GetMenuItem(ctx context.Context, id string) (*MenuItem, error)
}

type doer interface {
	Do(ctx context.Context, req upstream.Request, out any) error
}

type service struct {
	client doer
}

// NewService builds a catalog service on top of the upstream client.
func NewService(client doer) (Service, error) {
	if client == nil {
		return nil, fmt.Errorf("upstream client required")
	}
	return &service{client: client}, nil
}

func (s *service) ListRestaurants(ctx context.Context) ([]Restaurant, error) {
	return s.listRestaurants(ctx, "catalog.restaurants", "restaurants", nil)
}

func (s *service) ListOpenRestaurants(ctx context.Context) ([]Restaurant, error) {
	return s.listRestaurants(ctx, "catalog.restaurants_open", "restaurants/open", nil)
}

func (s *service) SearchRestaurants(ctx context.Context, query string) ([]Restaurant, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return s.ListRestaurants(ctx)
	}
	return s.listRestaurants(ctx, "catalog.restaurants_search", "restaurants/search", url.Values{"q": []string{trimmed}})
}

func (s *service) GetRestaurant(ctx context.Context, id string) (*Restaurant, error) {
	if strings.TrimSpace(id) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "restaurant id is required")
	}
	var payload RestaurantPayload
	if err := s.client.Do(ctx, upstream.Request{
		Operation: "catalog.restaurant",
		Method:    http.MethodGet,
		Path:      "restaurants/" + upstream.PathID(id),
	}, &payload); err != nil {
		return nil, err
	}
	restaurant := payload.ToRestaurant()
	return &restaurant, nil
}

func (s *service) ListMenu(ctx context.Context, restaurantID string) ([]MenuItem, error) {
	if strings.TrimSpace(restaurantID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "restaurant id is required")
	}
	var payloads []MenuItemPayload
	if err := s.client.Do(ctx, upstream.Request{
		Operation: "catalog.menu",
		Method:    http.MethodGet,
		Path:      "menu-items/restaurant/" + upstream.PathID(restaurantID),
	}, &payloads); err != nil {
		return nil, err
	}
	items := make([]MenuItem, 0, len(payloads))
	for _, p := range payloads {
		item := p.ToMenuItem()
		if item.RestaurantID == "" {
			item.RestaurantID = strings.TrimSpace(restaurantID)
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *service) GetMenuItem(ctx context.Context, id string) (*MenuItem, error) {
	if strings.TrimSpace(id) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "menu item id is required")
	}
	var payload MenuItemPayload
	if err := s.client.Do(ctx, upstream.Request{
		Operation: "catalog.menu_item",
		Method:    http.MethodGet,
		Path:      "menu-items/" + upstream.PathID(id),
	}, &payload); err != nil {
		return nil, err
	}
	item := payload.ToMenuItem()
	return &item, nil
}

func (s *service) listRestaurants(ctx context.Context, op, path string, query url.Values) ([]Restaurant, error) {
	var payloads []RestaurantPayload
	if err := s.client.Do(ctx, upstream.Request{
		Operation: op,
		Method:    http.MethodGet,
		Path:      path,
		Query:     query,
	}, &payloads); err != nil {
		return nil, err
	}
	restaurants := make([]Restaurant, 0, len(payloads))
	for _, p := range payloads {
		restaurants = append(restaurants, p.ToRestaurant())
	}
	return restaurants, nil
}
