package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Check is one readiness probe against a backing service.
type Check struct {
	Name string
	Ping func(ctx context.Context) error
}

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	checks  []Check
	timeout time.Duration
}

func NewHealthHandler(checks ...Check) *HealthHandler {
	return &HealthHandler{checks: checks, timeout: 5 * time.Second}
}

// Liveness reports that the process is up.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness pings every backing service; any failure yields 503 with the
// per-check breakdown.
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	results := map[string]string{}
	healthy := true
	for _, check := range h.checks {
		if err := check.Ping(ctx); err != nil {
			results[check.Name] = err.Error()
			healthy = false
		} else {
			results[check.Name] = "ok"
		}
	}

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"checks": results})
}
