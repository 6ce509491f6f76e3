package catalog

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	pkgerrors "github.com/angelmondragon/tastetrack-storefront/pkg/errors"
	"github.com/angelmondragon/tastetrack-storefront/pkg/upstream"
	"github.com/shopspring/decimal"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newTestService(t *testing.T, routes map[string]string) (Service, *[]string) {
	t.Helper()
	var seen []string
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		seen = append(seen, req.URL.RequestURI())
		body, ok := routes[req.URL.RequestURI()]
		status := http.StatusOK
		if !ok {
			status = http.StatusNotFound
			body = `{"message":"Restaurant not found"}`
		}
		return &http.Response{
			StatusCode: status,
			Body:       io.NopCloser(strings.NewReader(body)),
			Header:     http.Header{},
		}, nil
	})
	client, err := upstream.NewClient("http://api.test/api", upstream.WithHTTPClient(&http.Client{Transport: rt}))
	if err != nil {
		t.Fatalf("new upstream client: %v", err)
	}
	svc, err := NewService(client)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, &seen
}

func TestListMenuConvertsPayloads(t *testing.T) {
	svc, _ := newTestService(t, map[string]string{
		"/api/menu-items/restaurant/7": `[
			{"id": 1, "name": "Margherita", "price": 12.99, "category": "Pizza", "restaurantId": 7, "isVeg": true, "rating": 4.5},
			{"id": 2, "name": "Garlic Bread", "price": 4.5, "category": "Sides", "isVeg": true, "rating": 4.1}
		]`,
	})

	items, err := svc.ListMenu(context.Background(), "7")
	if err != nil {
		t.Fatalf("list menu: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	first := items[0]
	if first.ID != "1" || first.RestaurantID != "7" || !first.IsVeg {
		t.Fatalf("unexpected first item %+v", first)
	}
	if !first.Price.Equal(decimal.RequireFromString("12.99")) {
		t.Fatalf("unexpected price %s", first.Price)
	}
	if items[1].RestaurantID != "7" {
		t.Fatalf("expected restaurant id to default to the requested one, got %q", items[1].RestaurantID)
	}
}

func TestListMenuRejectsUntypedPayloads(t *testing.T) {
	svc, _ := newTestService(t, map[string]string{
		"/api/menu-items/restaurant/7": `[{"name": "No id", "price": 1}]`,
	})
	if _, err := svc.ListMenu(context.Background(), "7"); !pkgerrors.HasCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestSearchRestaurantsFallsBackToListing(t *testing.T) {
	svc, seen := newTestService(t, map[string]string{
		"/api/restaurants":                `[{"id": 1, "name": "Luigi's", "minOrder": 10, "isOpen": true, "rating": 4.2}]`,
		"/api/restaurants/search?q=sushi": `[{"id": 2, "name": "Sushi Go", "rating": 4.8}]`,
	})

	found, err := svc.SearchRestaurants(context.Background(), " sushi ")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(found) != 1 || found[0].Name != "Sushi Go" {
		t.Fatalf("unexpected search result %+v", found)
	}

	all, err := svc.SearchRestaurants(context.Background(), "  ")
	if err != nil {
		t.Fatalf("blank search: %v", err)
	}
	if len(all) != 1 || !all[0].IsOpen || !all[0].MinOrder.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("unexpected listing %+v", all)
	}
	if (*seen)[1] != "/api/restaurants" {
		t.Fatalf("expected blank query to hit the listing endpoint, saw %v", *seen)
	}
}

func TestGetRestaurantMapsNotFound(t *testing.T) {
	svc, _ := newTestService(t, map[string]string{})

	_, err := svc.GetRestaurant(context.Background(), "404")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	if typed.Message() != "Restaurant not found" {
		t.Fatalf("expected upstream message, got %q", typed.Message())
	}

	if _, err := svc.GetRestaurant(context.Background(), " "); !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for blank id, got %v", err)
	}
}

func TestListMenuRejectsBadPrices(t *testing.T) {
	cases := map[string]string{
		"negative": `[{"id": 1, "name": "Corrupt", "price": -12.99}]`,
		"missing":  `[{"id": 2, "name": "NoPrice"}]`,
		"null":     `[{"id": 3, "name": "NullPrice", "price": null}]`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			svc, _ := newTestService(t, map[string]string{"/api/menu-items/restaurant/7": body})
			items, err := svc.ListMenu(context.Background(), "7")
			if !pkgerrors.HasCode(err, pkgerrors.CodeDependency) {
				t.Fatalf("expected dependency error, got %v (items %+v)", err, items)
			}
		})
	}
}

func TestGetMenuItemAcceptsZeroPrice(t *testing.T) {
	svc, _ := newTestService(t, map[string]string{
		"/api/menu-items/5": `{"id": 5, "name": " Water ", "price": 0}`,
		"/api/menu-items/6": `{"id": 6, "name": "Broken", "price": -1}`,
	})

	item, err := svc.GetMenuItem(context.Background(), "5")
	if err != nil {
		t.Fatalf("get menu item: %v", err)
	}
	if !item.Price.IsZero() || item.Name != "Water" {
		t.Fatalf("unexpected item %+v", item)
	}

	if _, err := svc.GetMenuItem(context.Background(), "6"); !pkgerrors.HasCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error for negative price, got %v", err)
	}
}
