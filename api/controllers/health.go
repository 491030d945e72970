package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/greenmandi/greenmandi-backend/api/responses"
	"github.com/greenmandi/greenmandi-backend/pkg/logger"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type healthStatus struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Health reports liveness of the process and its backing stores.
func Health(db, cache pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := healthStatus{Status: "ok", Checks: map[string]string{}}
		for name, dep := range map[string]pinger{"postgres": db, "redis": cache} {
			if dep == nil {
				continue
			}
			if err := dep.Ping(ctx); err != nil {
				status.Status = "degraded"
				status.Checks[name] = "down"
				logg.Warn(ctx, name+" health check failed")
				continue
			}
			status.Checks[name] = "up"
		}

		code := http.StatusOK
		if status.Status != "ok" {
			code = http.StatusServiceUnavailable
		}
		responses.Data(w, code, status)
	}
}
