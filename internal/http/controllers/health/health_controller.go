// Package health contiene los controllers de liveness y readiness.
package health

import (
	"context"
	"net/http"
	"time"

	dto "github.com/dropDatabas3/taskflow/internal/http/dto/health"
	"github.com/dropDatabas3/taskflow/internal/http/helpers"
	"github.com/dropDatabas3/taskflow/internal/observability/logger"
)

// Check es una dependencia que readiness verifica (store, cache).
type Check struct {
	Name string
	Ping func(ctx context.Context) error
}

// HealthController responde /healthz y /readyz.
type HealthController struct {
	checks  []Check
	timeout time.Duration
}

// NewHealthController crea el controller. timeout acota cada ping (default 2s).
func NewHealthController(timeout time.Duration, checks ...Check) *HealthController {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &HealthController{checks: checks, timeout: timeout}
}

// Live maneja GET /healthz: el proceso responde.
func (c *HealthController) Live(w http.ResponseWriter, _ *http.Request) {
	helpers.WriteJSON(w, http.StatusOK, dto.HealthResponse{Status: "ok"})
}

// Ready maneja GET /readyz: todas las dependencias responden.
func (c *HealthController) Ready(w http.ResponseWriter, r *http.Request) {
	resp := dto.HealthResponse{Status: "ok", Checks: make(map[string]string, len(c.checks))}
	status := http.StatusOK

	for _, chk := range c.checks {
		ctx, cancel := context.WithTimeout(r.Context(), c.timeout)
		err := chk.Ping(ctx)
		cancel()
		if err != nil {
			logger.From(r.Context()).Warn("readiness check failed",
				logger.Component(chk.Name), logger.Err(err))
			resp.Checks[chk.Name] = "down"
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[chk.Name] = "up"
	}

	helpers.WriteJSON(w, status, resp)
}
