// Package http assembles the gin route tree and the HTTP server.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/praxisip/molscope/internal/infrastructure/monitoring/logging"
	"github.com/praxisip/molscope/internal/infrastructure/monitoring/prometheus"
	"github.com/praxisip/molscope/internal/interfaces/http/handlers"
	"github.com/praxisip/molscope/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handler and middleware dependencies needed
// to build the route tree.
type RouterConfig struct {
	SearchHandler *handlers.SearchHandler
	PatentHandler *handlers.PatentHandler
	HealthHandler *handlers.HealthHandler

	RateLimiter *middleware.RateLimiter

	Logger  logging.Logger
	Metrics *prometheus.Metrics
}

// NewRouter builds the complete route tree.
func NewRouter(cfg RouterConfig) http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.CORS())
	r.Use(middleware.RequestLogging(cfg.Logger, cfg.Metrics))
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Handler())
	}

	r.POST("/search", cfg.SearchHandler.Search)
	r.GET("/patent/:patentID", cfg.PatentHandler.GetDetail)
	r.GET("/health", cfg.HealthHandler.Health)
	r.GET("/stats", cfg.HealthHandler.Stats)
	r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))

	return r
}
