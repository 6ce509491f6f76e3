package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/angelmondragon/tastetrack-storefront/api/responses"
	"github.com/angelmondragon/tastetrack-storefront/pkg/config"
	pkgerrors "github.com/angelmondragon/tastetrack-storefront/pkg/errors"
	"github.com/angelmondragon/tastetrack-storefront/pkg/logger"
)

const readinessTimeout = 2 * time.Second

// Pinger is anything readiness can probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-TasteTrack-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready once redis answers. The database is probed only
// when coupons are served from it; pass a nil db otherwise.
func HealthReady(cfg *config.Config, logg *logger.Logger, redisP Pinger, dbP Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-TasteTrack-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		checks := map[string]string{}
		var failed error
		probe := func(name string, p Pinger) {
			if p == nil {
				return
			}
			if err := p.Ping(ctx); err != nil {
				checks[name] = "down"
				if failed == nil {
					failed = pkgerrors.Wrap(pkgerrors.CodeDependency, err, name+" unavailable").
						WithDetails(map[string]any{"checks": checks})
				}
				return
			}
			checks[name] = "up"
		}
		probe("redis", redisP)
		probe("db", dbP)

		if failed != nil {
			responses.WriteError(r.Context(), logg, w, failed)
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
