package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/angelmondragon/tastetrack-storefront/api/middleware"
	"github.com/angelmondragon/tastetrack-storefront/internal/auth"
	"github.com/angelmondragon/tastetrack-storefront/pkg/auth/session"
	"github.com/angelmondragon/tastetrack-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/tastetrack-storefront/pkg/errors"
)

type stubAuthService struct {
	resp       *auth.LoginResponse
	profile    *auth.Profile
	err        error
	lastLogin  auth.LoginRequest
	lastSignup auth.SignupRequest
	loggedOut  string
	lookedUp   string
}

func (s *stubAuthService) Login(_ context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	s.lastLogin = req
	return s.resp, s.err
}

func (s *stubAuthService) Signup(_ context.Context, req auth.SignupRequest) (*auth.LoginResponse, error) {
	s.lastSignup = req
	return s.resp, s.err
}

func (s *stubAuthService) Logout(_ context.Context, accessToken string) error {
	s.loggedOut = accessToken
	return s.err
}

func (s *stubAuthService) Me(_ context.Context, sessionID string) (*auth.Profile, error) {
	s.lookedUp = sessionID
	return s.profile, s.err
}

func vendorLogin() *auth.LoginResponse {
	return &auth.LoginResponse{
		AccessToken: "access-token",
		User:        auth.Profile{Email: "vendor@example.com", Role: enums.RoleVendor},
		RedirectTo:  auth.LandingVendor,
	}
}

func TestAuthLoginSuccess(t *testing.T) {
	svc := &stubAuthService{resp: vendorLogin()}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"vendor@example.com","password":"pw"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	AuthLogin(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if got := resp.Header().Get(tokenHeader); got != "access-token" {
		t.Fatalf("expected token header got %q", got)
	}
	var envelope struct {
		Data auth.LoginResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.RedirectTo != "/vendor" {
		t.Fatalf("expected vendor landing got %q", envelope.Data.RedirectTo)
	}
}

func TestAuthLoginInvalidPayload(t *testing.T) {
	svc := &stubAuthService{resp: vendorLogin()}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"not-an-email"}`))
	resp := httptest.NewRecorder()

	AuthLogin(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if svc.lastLogin.Email != "" {
		t.Fatalf("expected service not called")
	}
}

func TestAuthLoginUpstreamRejection(t *testing.T) {
	svc := &stubAuthService{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "Invalid email or password")}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"a@example.com","password":"bad"}`))
	resp := httptest.NewRecorder()

	AuthLogin(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "Invalid email or password") {
		t.Fatalf("expected upstream message, got %s", resp.Body.String())
	}
}

func TestAuthSignupCreated(t *testing.T) {
	svc := &stubAuthService{resp: &auth.LoginResponse{AccessToken: "tok", RedirectTo: auth.LandingCustomer}}
	body := `{"first_name":"New","last_name":"User","email":"new@example.com","password":"secret1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/signup", strings.NewReader(body))
	resp := httptest.NewRecorder()

	AuthSignup(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.lastSignup.FirstName != "New" {
		t.Fatalf("unexpected signup %+v", svc.lastSignup)
	}
}

func TestAuthSignupShortPassword(t *testing.T) {
	svc := &stubAuthService{}
	body := `{"first_name":"New","last_name":"User","email":"new@example.com","password":"123"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/signup", strings.NewReader(body))
	resp := httptest.NewRecorder()

	AuthSignup(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAuthLogoutRequiresBearer(t *testing.T) {
	svc := &stubAuthService{}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	resp := httptest.NewRecorder()

	AuthLogout(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer abc.def")
	resp = httptest.NewRecorder()

	AuthLogout(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.loggedOut != "abc.def" {
		t.Fatalf("expected token forwarded got %q", svc.loggedOut)
	}
}

func TestAuthMeUsesAccessSession(t *testing.T) {
	svc := &stubAuthService{profile: &auth.Profile{Email: "c@example.com", Role: enums.RoleCustomer}}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req = req.WithContext(middleware.WithIdentity(req.Context(), "access-7", session.Identity{Email: "c@example.com", Role: enums.RoleCustomer}))
	resp := httptest.NewRecorder()

	AuthMe(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.lookedUp != "access-7" {
		t.Fatalf("expected access session lookup got %q", svc.lookedUp)
	}
}

func TestAuthServiceUnavailable(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{}`))
	resp := httptest.NewRecorder()

	AuthLogin(nil, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", resp.Code)
	}
}
