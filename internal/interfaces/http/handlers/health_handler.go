package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthChecker reports whether one backing dependency is reachable.
type HealthChecker interface {
	Name() string
	HealthCheck(ctx context.Context) error
}

// ReadinessReporter is the slice of the enrichment service the readiness
// probe needs.
type ReadinessReporter interface {
	Ready() bool
}

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	service  ReadinessReporter
	checkers []HealthChecker
}

// NewHealthHandler constructs the handler. checkers may be empty when the
// server runs without external dependencies.
func NewHealthHandler(service ReadinessReporter, checkers ...HealthChecker) *HealthHandler {
	return &HealthHandler{service: service, checkers: checkers}
}

// Liveness handles GET /healthz. It answers as long as the process serves
// requests.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness handles GET /readyz. The server is ready once the dictionaries
// are built and every registered dependency answers its health check.
func (h *HealthHandler) Readiness(c *gin.Context) {
	status := http.StatusOK
	body := gin.H{"status": "ready"}

	if h.service != nil && !h.service.Ready() {
		status = http.StatusServiceUnavailable
		body["status"] = "not_ready"
		body["reason"] = "dictionaries not built"
	}

	if len(h.checkers) > 0 {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		deps := make(gin.H, len(h.checkers))
		for _, checker := range h.checkers {
			if err := checker.HealthCheck(ctx); err != nil {
				deps[checker.Name()] = err.Error()
				status = http.StatusServiceUnavailable
				body["status"] = "not_ready"
			} else {
				deps[checker.Name()] = "ok"
			}
		}
		body["dependencies"] = deps
	}

	c.JSON(status, body)
}

//Personal.AI order the ending
