package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/mandimart/mandimart-backend/api/responses"
	"github.com/mandimart/mandimart-backend/pkg/config"
	"github.com/mandimart/mandimart-backend/pkg/db"
	"github.com/mandimart/mandimart-backend/pkg/logger"
	"github.com/mandimart/mandimart-backend/pkg/redis"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-MandiMart-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-MandiMart-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		checks := map[string]string{}
		ready := true

		checks["database"] = pingStatus(ctx, dbP)
		checks["redis"] = pingStatus(ctx, redisP)
		for _, status := range checks {
			if status != "ok" {
				ready = false
			}
		}

		if !ready {
			if logg != nil {
				logg.Warn(logg.WithField(ctx, "checks", checks), "readiness check failed")
			}
			responses.WriteSuccessStatus(w, http.StatusServiceUnavailable, map[string]any{
				"status": "degraded",
				"checks": checks,
			})
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"status": "ready",
			"checks": checks,
		})
	}
}

type pinger interface {
	Ping(ctx context.Context) error
}

func pingStatus(ctx context.Context, p pinger) string {
	if p == nil {
		return "skipped"
	}
	if err := p.Ping(ctx); err != nil {
		return "error"
	}
	return "ok"
}
