// Package http assembles the gin route tree and the server around it.
package http

import (
	"github.com/gin-gonic/gin"

	"github.com/claimlens/claimlens/internal/infrastructure/monitoring/logging"
	"github.com/claimlens/claimlens/internal/infrastructure/monitoring/prometheus"
	"github.com/claimlens/claimlens/internal/interfaces/http/handlers"
	"github.com/claimlens/claimlens/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handlers and cross-cutting dependencies the
// route tree needs.
type RouterConfig struct {
	DocumentHandler *handlers.DocumentHandler
	ClaimHandler    *handlers.ClaimHandler
	AnalysisHandler *handlers.AnalysisHandler
	SearchHandler   *handlers.SearchHandler
	HealthHandler   *handlers.HealthHandler

	Logger  logging.Logger
	Metrics *prometheus.AppMetrics

	// Mode selects the gin mode: debug, release or test.
	Mode string
}

// NewRouter builds the complete route tree.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}

	engine := gin.New()
	engine.Use(middleware.Recovery(cfg.Logger))
	engine.Use(middleware.RequestLogger(cfg.Logger, cfg.Metrics))

	if cfg.HealthHandler != nil {
		engine.GET("/healthz", cfg.HealthHandler.Liveness)
		engine.GET("/readyz", cfg.HealthHandler.Readiness)
	}
	if cfg.Metrics != nil {
		engine.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := engine.Group("/api/v1")
	{
		if cfg.DocumentHandler != nil {
			api.POST("/documents", cfg.DocumentHandler.Upload)
			api.GET("/documents/:id", cfg.DocumentHandler.Get)
			api.GET("/documents/:id/download", cfg.DocumentHandler.Download)
			api.POST("/documents/:id/review", cfg.DocumentHandler.Review)
			api.GET("/documents/review-queue", cfg.DocumentHandler.ReviewQueue)
		}
		if cfg.SearchHandler != nil {
			api.GET("/documents/search", cfg.SearchHandler.SearchDocuments)
		}
		if cfg.ClaimHandler != nil {
			api.POST("/claims", cfg.ClaimHandler.Register)
			api.GET("/claims", cfg.ClaimHandler.List)
			api.GET("/claims/:id", cfg.ClaimHandler.Get)
			api.POST("/claims/:id/documents", cfg.ClaimHandler.AttachDocument)
			api.GET("/claims/:id/documents", cfg.ClaimHandler.ListDocuments)
			api.POST("/claims/:id/status", cfg.ClaimHandler.SetStatus)
		}
		if cfg.AnalysisHandler != nil {
			api.POST("/claims/:id/analysis", cfg.AnalysisHandler.Analyze)
			api.GET("/claims/:id/analysis", cfg.AnalysisHandler.LatestReport)
		}
	}

	return engine
}
