// Package http wires the gin router, middleware chain and HTTP server for
// the OncoTerm API.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/OncoTerm/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/OncoTerm/internal/interfaces/http/handlers"
	"github.com/turtacn/OncoTerm/internal/interfaces/http/middleware"
)

// RouterConfig carries everything the router needs beyond the handlers.
type RouterConfig struct {
	Mode        string
	CORS        middleware.CORSConfig
	RateLimit   middleware.RateLimitConfig
	MetricsPath string

	// Metrics is the Prometheus exposition handler. Nil disables the
	// metrics endpoint.
	Metrics http.Handler
}

// Handlers groups the route handlers the router mounts.
type Handlers struct {
	Enrichment *handlers.EnrichmentHandler
	Report     *handlers.ReportHandler
	Health     *handlers.HealthHandler
}

// NewRouter builds the gin engine with the full middleware chain and the
// API route tree.
func NewRouter(cfg RouterConfig, h Handlers, logger logging.Logger) *gin.Engine {
	switch cfg.Mode {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.RequestLogging(logger))
	engine.Use(middleware.CORS(cfg.CORS))
	engine.Use(middleware.NewRateLimiter(cfg.RateLimit).Handler())

	engine.GET("/healthz", h.Health.Liveness)
	engine.GET("/readyz", h.Health.Readiness)

	if cfg.Metrics != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		engine.GET(path, gin.WrapH(cfg.Metrics))
	}

	v1 := engine.Group("/api/v1")
	{
		v1.POST("/resolve", h.Enrichment.Resolve)
		v1.POST("/enrich", h.Enrichment.Enrich)
		v1.GET("/status", h.Enrichment.Status)
		v1.POST("/dictionaries/rebuild", h.Enrichment.Rebuild)

		if h.Report != nil {
			v1.GET("/runs/:id", h.Report.GetRun)
			v1.GET("/unknowns", h.Report.GetUnknownTerms)
		}
	}

	return engine
}

//Personal.AI order the ending
