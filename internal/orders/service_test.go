package orders

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/angelmondragon/tastetrack-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/tastetrack-storefront/pkg/errors"
	"github.com/angelmondragon/tastetrack-storefront/pkg/upstream"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

type call struct {
	method string
	uri    string
	auth   string
	body   string
}

type fakeRoute struct {
	status int
	body   string
}

func newTestService(t *testing.T, routes map[string]fakeRoute) (Service, *[]call) {
	t.Helper()
	var calls []call
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		var body string
		if req.Body != nil {
			raw, _ := io.ReadAll(req.Body)
			body = string(raw)
		}
		calls = append(calls, call{
			method: req.Method,
			uri:    req.URL.RequestURI(),
			auth:   req.Header.Get("Authorization"),
			body:   body,
		})
		route, ok := routes[req.Method+" "+req.URL.RequestURI()]
		if !ok {
			route = fakeRoute{status: http.StatusNotFound, body: `{"message":"Order not found"}`}
		}
		if route.status == 0 {
			route.status = http.StatusOK
		}
		return &http.Response{
			StatusCode: route.status,
			Body:       io.NopCloser(strings.NewReader(route.body)),
			Header:     http.Header{},
		}, nil
	})
	client, err := upstream.NewClient("http://api.test/api", upstream.WithHTTPClient(&http.Client{Transport: rt}))
	require.NoError(t, err)
	svc, err := NewService(client)
	require.NoError(t, err)
	return svc, &calls
}

const orderJSON = `{
	"id": 42,
	"orderNumber": "ORD-1001",
	"status": "PREPARING",
	"total": 29.45,
	"deliveryAddress": "1 Main St",
	"orderDate": "2026-03-01T12:00:00",
	"estimatedDelivery": "2026-03-01T12:45:00",
	"restaurant": {"id": 7, "name": "Pizza Place", "cuisine": "Italian", "rating": 4.4, "isOpen": true},
	"items": [
		{"menuItem": {"id": 1, "name": "Margherita", "price": 12.99, "rating": 4.5}, "quantity": 2, "price": 12.99}
	]
}`

func TestCreateForwardsTokenAndBody(t *testing.T) {
	svc, calls := newTestService(t, map[string]fakeRoute{
		"POST /api/orders": {status: http.StatusCreated, body: orderJSON},
	})

	order, err := svc.Create(context.Background(), "up-token", CreateRequest{
		RestaurantID: "7",
		Items:        []CreateItem{{MenuItemID: "1", Quantity: 2}},
		Delivery:     DeliveryDetails{CustomerName: "Ana", DeliveryAddress: "1 Main St"},
		Payment:      PaymentDetails{PaymentMethod: enums.PaymentMethodCashOnDelivery},
	})
	require.NoError(t, err)
	assert.Equal(t, "42", order.ID)
	assert.Equal(t, "ORD-1001", order.OrderNumber)
	assert.Equal(t, enums.OrderStatusPreparing, order.Status)
	require.NotNil(t, order.Restaurant)
	assert.Equal(t, "7", order.Restaurant.ID)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Margherita", order.Items[0].MenuItem.Name)

	require.Len(t, *calls, 1)
	sent := (*calls)[0]
	assert.Equal(t, "Bearer up-token", sent.auth)

	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(sent.body), &body))
	assert.Equal(t, float64(7), body["restaurantId"])
	payment := body["payment"].(map[string]any)
	assert.Equal(t, "CASH_ON_DELIVERY", payment["paymentMethod"])
	_, hasCard := payment["cardNumber"]
	assert.False(t, hasCard)
}

func TestCreateRejectsEmptyOrder(t *testing.T) {
	svc, calls := newTestService(t, nil)
	_, err := svc.Create(context.Background(), "tok", CreateRequest{RestaurantID: "7"})
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
	assert.Empty(t, *calls)
}

func TestGetMapsUpstreamNotFound(t *testing.T) {
	svc, _ := newTestService(t, nil)
	_, err := svc.Get(context.Background(), "tok", "999")
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
	assert.Equal(t, "Order not found", typed.Message())
}

func TestGetByNumberUsesOrderNumberPath(t *testing.T) {
	svc, calls := newTestService(t, map[string]fakeRoute{
		"GET /api/orders/order-number/ORD-1001": {body: orderJSON},
	})
	order, err := svc.GetByNumber(context.Background(), "tok", "ORD-1001")
	require.NoError(t, err)
	assert.Equal(t, "42", order.ID)
	assert.Equal(t, "/api/orders/order-number/ORD-1001", (*calls)[0].uri)
}

func TestListAllAggregatesEveryStatus(t *testing.T) {
	routes := map[string]fakeRoute{}
	for _, status := range enums.OrderStatuses() {
		routes["GET /api/orders/status/"+status.String()] = fakeRoute{body: `[]`}
	}
	routes["GET /api/orders/status/PENDING"] = fakeRoute{body: `[{"id": 1, "status": "PENDING", "total": 10}]`}
	routes["GET /api/orders/status/DELIVERED"] = fakeRoute{body: `[{"id": 2, "status": "DELIVERED", "total": 20}, {"id": 3, "status": "DELIVERED", "total": 30}]`}

	svc, calls := newTestService(t, routes)
	orders, err := svc.ListAll(context.Background(), "admin-token")
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.Equal(t, []string{"1", "2", "3"}, []string{orders[0].ID, orders[1].ID, orders[2].ID})
	assert.Len(t, *calls, len(enums.OrderStatuses()))
}

func TestListAllStopsOnFailure(t *testing.T) {
	svc, _ := newTestService(t, map[string]fakeRoute{
		"GET /api/orders/status/PENDING": {status: http.StatusForbidden, body: `{"error":"Forbidden"}`},
	})
	_, err := svc.ListAll(context.Background(), "tok")
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeForbidden))
}

func TestUpdateStatusValidatesBeforeCalling(t *testing.T) {
	svc, calls := newTestService(t, map[string]fakeRoute{
		"PUT /api/orders/42/status/CONFIRMED": {body: strings.Replace(orderJSON, "PREPARING", "CONFIRMED", 1)},
	})

	_, err := svc.UpdateStatus(context.Background(), "tok", "42", enums.OrderStatus("LOST"))
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
	assert.Empty(t, *calls)

	order, err := svc.UpdateStatus(context.Background(), "tok", "42", enums.OrderStatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusConfirmed, order.Status)
}

func TestCancelUsesCancelEndpoint(t *testing.T) {
	svc, calls := newTestService(t, map[string]fakeRoute{
		"PUT /api/orders/42/cancel": {body: strings.Replace(orderJSON, "PREPARING", "CANCELLED", 1)},
	})
	order, err := svc.Cancel(context.Background(), "tok", "42")
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusCancelled, order.Status)
	assert.Equal(t, http.MethodPut, (*calls)[0].method)
}

func TestListVendorOrdersFiltersByStatus(t *testing.T) {
	svc, _ := newTestService(t, map[string]fakeRoute{
		"GET /api/vendor/orders": {body: `[
			{"id": 1, "status": "PENDING", "total": 10},
			{"id": 2, "status": "PREPARING", "total": 20}
		]`},
	})

	all, err := svc.ListVendorOrders(context.Background(), "vendor-token", nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	pending := enums.OrderStatusPending
	filtered, err := svc.ListVendorOrders(context.Background(), "vendor-token", &pending)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "1", filtered[0].ID)
}

func TestUpdateVendorStatusUnwrapsEnvelope(t *testing.T) {
	svc, calls := newTestService(t, map[string]fakeRoute{
		"PUT /api/vendor/orders/42/status": {body: `{"success": true, "message": "Order status updated", "order": ` + orderJSON + `}`},
	})
	order, err := svc.UpdateVendorStatus(context.Background(), "vendor-token", "42", enums.OrderStatusPreparing)
	require.NoError(t, err)
	assert.Equal(t, "42", order.ID)
	assert.JSONEq(t, `{"status":"PREPARING"}`, (*calls)[0].body)
}

func TestUpdateVendorStatusRejected(t *testing.T) {
	svc, _ := newTestService(t, map[string]fakeRoute{
		"PUT /api/vendor/orders/42/status": {body: `{"success": false, "message": "Order is already delivered"}`},
	})
	_, err := svc.UpdateVendorStatus(context.Background(), "vendor-token", "42", enums.OrderStatusPreparing)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeStateConflict))
	assert.Equal(t, "Order is already delivered", pkgerrors.As(err).Message())
}

func TestTrackingDerivesStepsAndBreakdown(t *testing.T) {
	svc, _ := newTestService(t, map[string]fakeRoute{
		"GET /api/orders/42": {body: orderJSON},
	})
	tracking, err := svc.Tracking(context.Background(), "tok", "42")
	require.NoError(t, err)

	require.Len(t, tracking.Steps, 5)
	assert.True(t, tracking.Steps[0].Completed)
	assert.True(t, tracking.Steps[2].Completed)
	assert.True(t, tracking.Steps[2].Current)
	assert.False(t, tracking.Steps[3].Completed)
	assert.Equal(t, "2026-03-01T12:00:00", tracking.Steps[0].Time)
	assert.Equal(t, "2026-03-01T12:45:00", tracking.EstimatedDelivery)

	assert.Equal(t, "23.57", tracking.Breakdown.Subtotal)
	assert.Equal(t, "1.89", tracking.Breakdown.Tax)
	assert.Equal(t, "3.99", tracking.Breakdown.DeliveryFee)
	assert.Equal(t, "29.45", tracking.Breakdown.Total)
}

func TestBuildTrackingCancelledOrder(t *testing.T) {
	tracking := BuildTracking(Order{
		ID:                "9",
		Status:            enums.OrderStatusCancelled,
		Total:             decimal.RequireFromString("10"),
		EstimatedDelivery: "2026-03-01T12:45:00",
	})
	for _, step := range tracking.Steps {
		assert.False(t, step.Completed, step.Label)
		assert.False(t, step.Current, step.Label)
	}
	assert.Empty(t, tracking.EstimatedDelivery)
}
