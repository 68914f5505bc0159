// Package health contiene los controllers de health check.
package health

import (
	"encoding/json"
	"net/http"

	svc "github.com/dropDatabas3/authzserver/internal/http/services/health"
	"github.com/dropDatabas3/authzserver/internal/observability/logger"
)

// Controllers agrupa todos los controllers del dominio health.
type Controllers struct {
	Health *HealthController
}

func NewControllers(s svc.Services) *Controllers {
	return &Controllers{
		Health: NewHealthController(s.Health),
	}
}

// HealthController maneja /healthz y /readyz.
type HealthController struct {
	service svc.HealthService
}

func NewHealthController(s svc.HealthService) *HealthController {
	return &HealthController{service: s}
}

func (c *HealthController) Live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, c.service.Live(r.Context()))
}

func (c *HealthController) Ready(w http.ResponseWriter, r *http.Request) {
	resp, ok := c.service.Ready(r.Context())
	status := http.StatusOK
	if !ok {
		status = http.StatusServiceUnavailable
		logger.From(r.Context()).Warn("readiness check failed", logger.Layer("controller"), logger.Any("components", resp.Components))
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
