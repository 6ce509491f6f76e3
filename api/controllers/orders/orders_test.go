package orders

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/tastetrack-storefront/api/middleware"
	internalorders "github.com/angelmondragon/tastetrack-storefront/internal/orders"
	"github.com/angelmondragon/tastetrack-storefront/pkg/auth/session"
	"github.com/angelmondragon/tastetrack-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/tastetrack-storefront/pkg/errors"
)

type stubOrdersService struct {
	internalorders.Service

	lastToken  string
	lastID     string
	lastStatus *enums.OrderStatus
	calls      []string
	err        error
}

func (s *stubOrdersService) record(call, token, id string) {
	s.calls = append(s.calls, call)
	s.lastToken = token
	s.lastID = id
}

func (s *stubOrdersService) ListMine(_ context.Context, token string) ([]internalorders.Order, error) {
	s.record("list_mine", token, "")
	return []internalorders.Order{{ID: "1"}}, s.err
}

func (s *stubOrdersService) Get(_ context.Context, token, id string) (*internalorders.Order, error) {
	s.record("get", token, id)
	if s.err != nil {
		return nil, s.err
	}
	return &internalorders.Order{ID: id}, nil
}

func (s *stubOrdersService) GetByNumber(_ context.Context, token, number string) (*internalorders.Order, error) {
	s.record("get_by_number", token, number)
	return &internalorders.Order{ID: "9", OrderNumber: number}, s.err
}

func (s *stubOrdersService) ListByStatus(_ context.Context, token string, status enums.OrderStatus) ([]internalorders.Order, error) {
	s.record("list_by_status", token, "")
	s.lastStatus = &status
	return []internalorders.Order{}, s.err
}

func (s *stubOrdersService) ListAll(_ context.Context, token string) ([]internalorders.Order, error) {
	s.record("list_all", token, "")
	return []internalorders.Order{}, s.err
}

func (s *stubOrdersService) UpdateStatus(_ context.Context, token, id string, status enums.OrderStatus) (*internalorders.Order, error) {
	s.record("update_status", token, id)
	s.lastStatus = &status
	return &internalorders.Order{ID: id, Status: status}, s.err
}

func (s *stubOrdersService) Cancel(_ context.Context, token, id string) (*internalorders.Order, error) {
	s.record("cancel", token, id)
	return &internalorders.Order{ID: id, Status: enums.OrderStatusCancelled}, s.err
}

func (s *stubOrdersService) ListVendorOrders(_ context.Context, token string, status *enums.OrderStatus) ([]internalorders.Order, error) {
	s.record("vendor_list", token, "")
	s.lastStatus = status
	return []internalorders.Order{}, s.err
}

func (s *stubOrdersService) UpdateVendorStatus(_ context.Context, token, id string, status enums.OrderStatus) (*internalorders.Order, error) {
	s.record("vendor_update_status", token, id)
	s.lastStatus = &status
	if s.err != nil {
		return nil, s.err
	}
	return &internalorders.Order{ID: id, Status: status}, nil
}

func (s *stubOrdersService) Tracking(_ context.Context, token, id string) (*internalorders.Tracking, error) {
	s.record("tracking", token, id)
	return internalorders.BuildTracking(internalorders.Order{ID: id, Status: enums.OrderStatusPreparing}), s.err
}

func signedIn(req *http.Request, role enums.Role) *http.Request {
	ctx := middleware.WithIdentity(req.Context(), "access-1", session.Identity{
		Email:         "user@example.com",
		Role:          role,
		UpstreamToken: "up-token",
	})
	return req.WithContext(ctx)
}

func withParam(req *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func TestListRequiresIdentity(t *testing.T) {
	svc := &stubOrdersService{}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	resp := httptest.NewRecorder()

	List(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
	var envelope struct {
		Error struct {
			Details map[string]any `json:"details"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Error.Details["redirect_to"] != "/auth" {
		t.Fatalf("expected login redirect, got %v", envelope.Error.Details)
	}
	if len(svc.calls) != 0 {
		t.Fatalf("expected no service call")
	}
}

func TestListForwardsUpstreamToken(t *testing.T) {
	svc := &stubOrdersService{}
	req := signedIn(httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil), enums.RoleCustomer)
	resp := httptest.NewRecorder()

	List(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.lastToken != "up-token" {
		t.Fatalf("expected upstream token, got %q", svc.lastToken)
	}
}

func TestDetailNotFound(t *testing.T) {
	svc := &stubOrdersService{err: pkgerrors.New(pkgerrors.CodeNotFound, "Order not found")}
	req := signedIn(httptest.NewRequest(http.MethodGet, "/api/v1/orders/5", nil), enums.RoleCustomer)
	req = withParam(req, "orderId", "5")
	resp := httptest.NewRecorder()

	Detail(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
	if svc.lastID != "5" {
		t.Fatalf("expected id 5, got %q", svc.lastID)
	}
}

func TestDetailByNumber(t *testing.T) {
	svc := &stubOrdersService{}
	req := signedIn(httptest.NewRequest(http.MethodGet, "/api/v1/orders/number/ORD-1", nil), enums.RoleCustomer)
	req = withParam(req, "orderNumber", "ORD-1")
	resp := httptest.NewRecorder()

	DetailByNumber(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK || svc.lastID != "ORD-1" {
		t.Fatalf("unexpected result %d %q", resp.Code, svc.lastID)
	}
}

func TestTrackingReturnsSteps(t *testing.T) {
	svc := &stubOrdersService{}
	req := signedIn(httptest.NewRequest(http.MethodGet, "/api/v1/orders/3/tracking", nil), enums.RoleCustomer)
	req = withParam(req, "orderId", "3")
	resp := httptest.NewRecorder()

	Tracking(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var envelope struct {
		Data struct {
			Steps []internalorders.TrackingStep `json:"steps"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data.Steps) != 5 {
		t.Fatalf("expected 5 steps, got %d", len(envelope.Data.Steps))
	}
}

func TestCancelOrder(t *testing.T) {
	svc := &stubOrdersService{}
	req := signedIn(httptest.NewRequest(http.MethodPost, "/api/v1/orders/3/cancel", nil), enums.RoleCustomer)
	req = withParam(req, "orderId", "3")
	resp := httptest.NewRecorder()

	CancelOrder(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK || len(svc.calls) != 1 || svc.calls[0] != "cancel" {
		t.Fatalf("unexpected result %d %v", resp.Code, svc.calls)
	}
}

func TestAdminListChoosesQuery(t *testing.T) {
	cases := []struct {
		name   string
		target string
		call   string
		code   int
	}{
		{name: "all", target: "/api/admin/v1/orders", call: "list_all", code: http.StatusOK},
		{name: "by status", target: "/api/admin/v1/orders?status=preparing", call: "list_by_status", code: http.StatusOK},
		{name: "bad status", target: "/api/admin/v1/orders?status=LOST", code: http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &stubOrdersService{}
			req := signedIn(httptest.NewRequest(http.MethodGet, tc.target, nil), enums.RoleAdmin)
			resp := httptest.NewRecorder()

			AdminList(svc, nil).ServeHTTP(resp, req)

			if resp.Code != tc.code {
				t.Fatalf("expected %d got %d", tc.code, resp.Code)
			}
			if tc.call == "" {
				if len(svc.calls) != 0 {
					t.Fatalf("expected no call, got %v", svc.calls)
				}
				return
			}
			if len(svc.calls) != 1 || svc.calls[0] != tc.call {
				t.Fatalf("expected %s, got %v", tc.call, svc.calls)
			}
		})
	}
}

func TestAdminUpdateStatus(t *testing.T) {
	svc := &stubOrdersService{}
	req := signedIn(httptest.NewRequest(http.MethodPut, "/api/admin/v1/orders/4/status", strings.NewReader(`{"status":"out_for_delivery"}`)), enums.RoleAdmin)
	req = withParam(req, "orderId", "4")
	resp := httptest.NewRecorder()

	AdminUpdateStatus(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.lastStatus == nil || *svc.lastStatus != enums.OrderStatusOutForDelivery {
		t.Fatalf("unexpected status %v", svc.lastStatus)
	}
}

func TestAdminUpdateStatusRejectsUnknownStatus(t *testing.T) {
	svc := &stubOrdersService{}
	req := signedIn(httptest.NewRequest(http.MethodPut, "/api/admin/v1/orders/4/status", strings.NewReader(`{"status":"TELEPORTED"}`)), enums.RoleAdmin)
	req = withParam(req, "orderId", "4")
	resp := httptest.NewRecorder()

	AdminUpdateStatus(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if len(svc.calls) != 0 {
		t.Fatalf("expected no service call")
	}
}

func TestVendorListPassesFilter(t *testing.T) {
	svc := &stubOrdersService{}
	req := signedIn(httptest.NewRequest(http.MethodGet, "/api/vendor/v1/orders?status=PENDING", nil), enums.RoleVendor)
	resp := httptest.NewRecorder()

	VendorList(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.lastStatus == nil || *svc.lastStatus != enums.OrderStatusPending {
		t.Fatalf("expected pending filter, got %v", svc.lastStatus)
	}
}

func TestVendorUpdateStatusRejected(t *testing.T) {
	svc := &stubOrdersService{err: pkgerrors.New(pkgerrors.CodeStateConflict, "Order already delivered")}
	req := signedIn(httptest.NewRequest(http.MethodPut, "/api/vendor/v1/orders/4/status", strings.NewReader(`{"status":"PREPARING"}`)), enums.RoleVendor)
	req = withParam(req, "orderId", "4")
	resp := httptest.NewRecorder()

	VendorUpdateStatus(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "Order already delivered") {
		t.Fatalf("expected upstream message, got %s", resp.Body.String())
	}
}
