package controllers

import (
	"net/http"

	"github.com/swiftshop/swiftshop-backend/api/responses"
	"github.com/swiftshop/swiftshop-backend/pkg/config"
	"github.com/swiftshop/swiftshop-backend/pkg/db"
	pkgerrors "github.com/swiftshop/swiftshop-backend/pkg/errors"
	"github.com/swiftshop/swiftshop-backend/pkg/logger"
	"github.com/swiftshop/swiftshop-backend/pkg/redis"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-SwiftShop-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady verifies the backing stores answer before reporting
// ready. The redis pinger is optional; rate limiting degrades without
// it but the API still serves.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-SwiftShop-Env", cfg.App.Env)

		checks := map[string]string{"database": "ok"}
		if dbP == nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeDependency, "database not configured"))
			return
		}
		if err := dbP.Ping(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unavailable"))
			return
		}
		if redisP != nil {
			checks["redis"] = "ok"
			if err := redisP.Ping(r.Context()); err != nil {
				checks["redis"] = "unavailable"
				logg.Warn(logg.WithField(r.Context(), "error", err.Error()), "redis ping failed")
			}
		}

		checks["status"] = "ready"
		responses.WriteSuccess(w, checks)
	}
}
