package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	pkgAuth "github.com/angelmondragon/tastetrack-storefront/pkg/auth"
	"github.com/angelmondragon/tastetrack-storefront/pkg/auth/session"
	"github.com/angelmondragon/tastetrack-storefront/pkg/config"
	"github.com/angelmondragon/tastetrack-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/tastetrack-storefront/pkg/errors"
	"github.com/angelmondragon/tastetrack-storefront/pkg/upstream"
)

const (
	LandingVendor   = "/vendor"
	LandingAdmin    = "/admin"
	LandingCustomer = "/"
)

// Service defines the behavior needed by the auth controller.
type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Signup(ctx context.Context, req SignupRequest) (*LoginResponse, error)
	Logout(ctx context.Context, accessToken string) error
	Me(ctx context.Context, sessionID string) (*Profile, error)
}

type doer interface {
	Do(ctx context.Context, req upstream.Request, out any) error
}

type identityStore interface {
	Save(ctx context.Context, sessionID string, identity session.Identity) error
	Load(ctx context.Context, sessionID string) (session.Identity, error)
	Revoke(ctx context.Context, sessionID string) error
}

type service struct {
	client     doer
	identities identityStore
	jwtCfg     config.JWTConfig
	now        func() time.Time
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	Client     doer
	Identities identityStore
	JWTConfig  config.JWTConfig
	Now        func() time.Time
}

// NewService constructs the auth service. Credentials are checked by the
// REST API; the storefront keeps the resulting identity in its session store.
func NewService(params ServiceParams) (Service, error) {
	if params.Client == nil {
		return nil, fmt.Errorf("upstream client is required")
	}
	if params.Identities == nil {
		return nil, fmt.Errorf("identity store is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		client:     params.Client,
		identities: params.Identities,
		jwtCfg:     params.JWTConfig,
		now:        now,
	}, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	var resp upstreamAuthResponse
	if err := s.client.Do(ctx, upstream.Request{
		Operation: "auth.login",
		Method:    http.MethodPost,
		Path:      "auth/login",
		Body: upstreamLogin{
			Email:    strings.TrimSpace(req.Email),
			Password: req.Password,
		},
	}, &resp); err != nil {
		return nil, err
	}
	return s.establish(ctx, resp)
}

func (s *service) Signup(ctx context.Context, req SignupRequest) (*LoginResponse, error) {
	var resp upstreamAuthResponse
	if err := s.client.Do(ctx, upstream.Request{
		Operation: "auth.signup",
		Method:    http.MethodPost,
		Path:      "auth/signup",
		Body: upstreamSignup{
			FirstName: strings.TrimSpace(req.FirstName),
			LastName:  strings.TrimSpace(req.LastName),
			Email:     strings.TrimSpace(req.Email),
			Password:  req.Password,
			Phone:     strings.TrimSpace(req.Phone),
		},
	}, &resp); err != nil {
		return nil, err
	}
	return s.establish(ctx, resp)
}

// establish stores the identity under a fresh session and mints the token
// that points at it.
func (s *service) establish(ctx context.Context, resp upstreamAuthResponse) (*LoginResponse, error) {
	role, err := enums.ParseRole(resp.Role)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upstream returned an unknown role")
	}

	identity := session.Identity{
		Email:         strings.TrimSpace(resp.Email),
		FirstName:     resp.FirstName,
		LastName:      resp.LastName,
		Role:          role,
		UpstreamToken: resp.Token,
	}
	sessionID := session.NewSessionID()
	if err := s.identities.Save(ctx, sessionID, identity); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store session identity")
	}

	token, err := pkgAuth.MintAccessToken(s.jwtCfg, s.now(), pkgAuth.AccessTokenPayload{
		SessionID: sessionID,
		Email:     identity.Email,
		Role:      role,
	})
	if err != nil {
		_ = s.identities.Revoke(ctx, sessionID)
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}

	return &LoginResponse{
		AccessToken: token,
		User:        profileFrom(identity),
		RedirectTo:  LandingPath(role),
	}, nil
}

// Logout revokes the identity behind the token. Expired tokens are accepted
// so a stale UI can still sign out cleanly.
func (s *service) Logout(ctx context.Context, accessToken string) error {
	claims, err := pkgAuth.ParseAccessTokenAllowExpired(s.jwtCfg, strings.TrimSpace(accessToken))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid access token")
	}
	if err := s.identities.Revoke(ctx, claims.SessionID()); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session identity")
	}
	return nil
}

func (s *service) Me(ctx context.Context, sessionID string) (*Profile, error) {
	identity, err := s.identities.Load(ctx, sessionID)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "session expired")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "session unreadable")
	}
	profile := profileFrom(identity)
	return &profile, nil
}

// LandingPath is where the UI goes after signing in.
func LandingPath(role enums.Role) string {
	switch role {
	case enums.RoleVendor:
		return LandingVendor
	case enums.RoleAdmin:
		return LandingAdmin
	default:
		return LandingCustomer
	}
}

func profileFrom(identity session.Identity) Profile {
	return Profile{
		Email:     identity.Email,
		FirstName: identity.FirstName,
		LastName:  identity.LastName,
		Role:      identity.Role,
	}
}
