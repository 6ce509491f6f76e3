package middleware

import (
	"errors"
	"net/http"

	"github.com/angelmondragon/tastetrack-storefront/api/responses"
	"github.com/angelmondragon/tastetrack-storefront/api/validators"
	"github.com/angelmondragon/tastetrack-storefront/internal/access"
	pkgAuth "github.com/angelmondragon/tastetrack-storefront/pkg/auth"
	"github.com/angelmondragon/tastetrack-storefront/pkg/auth/session"
	"github.com/angelmondragon/tastetrack-storefront/pkg/config"
	pkgerrors "github.com/angelmondragon/tastetrack-storefront/pkg/errors"
	"github.com/angelmondragon/tastetrack-storefront/pkg/logger"
)

// Identity resolves the optional bearer token into a stored identity. It never
// rejects a request for being signed out: missing, expired or unknown tokens
// simply leave the request anonymous. An identity record that cannot be read
// is purged and the request continues signed out.
func Identity(cfg config.JWTConfig, reader session.IdentityReader, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			token, err := validators.ParseBearerToken(r.Header.Get("Authorization"))
			if err != nil || reader == nil {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				if logg != nil {
					logg.Debug(logg.WithField(ctx, "reason", err.Error()), "identity.token_rejected")
				}
				next.ServeHTTP(w, r)
				return
			}

			accessID := claims.SessionID()
			payload, err := reader.Payload(ctx, accessID)
			if err != nil {
				if errors.Is(err, session.ErrSessionNotFound) {
					next.ServeHTTP(w, r)
					return
				}
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load session identity"))
				return
			}

			facts := access.FactsFrom(true, payload, session.DecodeRole)
			if facts.Malformed {
				if revokeErr := reader.Revoke(ctx, accessID); revokeErr != nil && logg != nil {
					logg.Error(ctx, "identity.purge_failed", revokeErr)
				}
				if logg != nil {
					logg.Warn(logg.WithField(ctx, "access_session_id", accessID), "identity.malformed_purged")
				}
				next.ServeHTTP(w, r.WithContext(withFacts(ctx, facts)))
				return
			}

			identity, err := session.Decode(payload)
			if err != nil {
				next.ServeHTTP(w, r.WithContext(withFacts(ctx, access.Facts{Malformed: true})))
				return
			}

			ctx = WithIdentity(ctx, accessID, identity)
			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{
					"user_id":    identity.Email,
					"actor_role": identity.Role.String(),
				})
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireIdentity rejects anonymous requests, pointing the UI at the login page.
func RequireIdentity(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := IdentityFromContext(r.Context()); !ok {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in required").
					WithDetails(map[string]any{"redirect_to": access.LoginPath}))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
