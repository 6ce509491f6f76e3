package middleware

import (
	"context"

	"github.com/angelmondragon/tastetrack-storefront/internal/access"
	"github.com/angelmondragon/tastetrack-storefront/pkg/auth/session"
)

type contextKey string

const (
	ctxSessionID       contextKey = "session_id"
	ctxIdentity        contextKey = "identity"
	ctxAccessSessionID contextKey = "access_session_id"
	ctxFacts           contextKey = "guard_facts"
)

// SessionIDFromContext returns the cart session of the request.
func SessionIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxSessionID).(string); ok {
		return v
	}
	return ""
}

// WithSessionID injects the cart session identifier into the context.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxSessionID, sessionID)
}

// IdentityFromContext returns the signed-in identity, if any.
func IdentityFromContext(ctx context.Context) (session.Identity, bool) {
	if ctx == nil {
		return session.Identity{}, false
	}
	identity, ok := ctx.Value(ctxIdentity).(session.Identity)
	return identity, ok
}

// AccessSessionIDFromContext returns the jti of the verified access token.
func AccessSessionIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxAccessSessionID).(string); ok {
		return v
	}
	return ""
}

// WithIdentity injects a resolved identity and its access session.
func WithIdentity(ctx context.Context, accessSessionID string, identity session.Identity) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxAccessSessionID, accessSessionID)
	ctx = context.WithValue(ctx, ctxIdentity, identity)
	return context.WithValue(ctx, ctxFacts, access.Facts{Authenticated: true, Role: identity.Role})
}

func factsFromContext(ctx context.Context) access.Facts {
	if ctx == nil {
		return access.Facts{}
	}
	if f, ok := ctx.Value(ctxFacts).(access.Facts); ok {
		return f
	}
	return access.Facts{}
}

func withFacts(ctx context.Context, facts access.Facts) context.Context {
	return context.WithValue(ctx, ctxFacts, facts)
}
