package handlers

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/opsdesk/aws-agent/app"
	"github.com/opsdesk/aws-agent/utils"
)

// HealthResponse is the liveness/readiness payload
type HealthResponse struct {
	Status  string            `json:"status"`
	Service string            `json:"service"`
	Version string            `json:"version"`
	Checks  map[string]string `json:"checks,omitempty"`
}

// HealthCheck serves GET /healthz. It reports liveness only and never touches
// downstream dependencies.
func HealthCheck(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteJSON(w, http.StatusOK, HealthResponse{
			Status:  "ok",
			Service: app.ServiceName,
			Version: app.Version,
		})
	}
}

// ReadinessCheck serves GET /readyz. Ready means the cloud account is
// reachable and, when configured, the audit database answers.
func ReadinessCheck(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		checks := map[string]string{}
		ready := true

		if _, err := deps.Cloud.Identity(ctx); err != nil {
			deps.Logger.Warn("readiness: cloud identity check failed", zap.Error(err))
			checks["cloud"] = "unreachable: " + err.Error()
			ready = false
		} else {
			checks["cloud"] = "ok"
		}

		if deps.DB != nil {
			if err := deps.DB.HealthCheck(ctx); err != nil {
				deps.Logger.Warn("readiness: audit database check failed", zap.Error(err))
				checks["audit_db"] = "unreachable: " + err.Error()
				ready = false
			} else {
				checks["audit_db"] = "ok"
			}
		}

		status := http.StatusOK
		statusText := "ready"
		if !ready {
			status = http.StatusServiceUnavailable
			statusText = "not ready"
		}

		_ = utils.WriteJSON(w, status, HealthResponse{
			Status:  statusText,
			Service: app.ServiceName,
			Version: app.Version,
			Checks:  checks,
		})
	}
}
