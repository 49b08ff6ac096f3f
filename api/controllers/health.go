package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/evergreenlabs/plantcare-backend/api/responses"
	"github.com/evergreenlabs/plantcare-backend/pkg/config"
	"github.com/evergreenlabs/plantcare-backend/pkg/db"
	"github.com/evergreenlabs/plantcare-backend/pkg/logger"
	"github.com/evergreenlabs/plantcare-backend/pkg/redis"
)

const dependencyPingTimeout = 2 * time.Second

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Plantcare-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the backing services and reports per-dependency status.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Plantcare-Env", cfg.App.Env)

		checks := map[string]string{}
		healthy := true

		checks["database"] = pingStatus(r.Context(), logg, "database", dbP)
		checks["redis"] = pingStatus(r.Context(), logg, "redis", redisP)
		for _, status := range checks {
			if status != "ok" {
				healthy = false
			}
		}

		payload := map[string]any{"status": "ready", "checks": checks}
		if !healthy {
			payload["status"] = "degraded"
			responses.WriteSuccessStatus(w, http.StatusServiceUnavailable, payload)
			return
		}
		responses.WriteSuccess(w, payload)
	}
}

type pinger interface {
	Ping(ctx context.Context) error
}

func pingStatus(ctx context.Context, logg *logger.Logger, name string, p pinger) string {
	if p == nil {
		return "skipped"
	}
	pingCtx, cancel := context.WithTimeout(ctx, dependencyPingTimeout)
	defer cancel()
	if err := p.Ping(pingCtx); err != nil {
		if logg != nil {
			logg.Error(ctx, "readiness check failed for "+name, err)
		}
		return "unavailable"
	}
	return "ok"
}
