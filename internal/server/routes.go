package server

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) registerRoutes() {
	// Observability endpoints (no user header required)
	s.echo.GET("/health/live", s.handleLiveness)
	s.echo.GET("/health/ready", s.handleReadiness)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Reaction API. Authentication is delegated to the gateway, which passes
	// the resolved user in X-User-ID.
	api := s.echo.Group("/api/v1")
	api.POST("/:type/:id/reactions", s.handleApplyReaction)
	api.GET("/:type/:id/reactions", s.handleGetReactions)
	api.POST("/:type/:id/cache/warm", s.handleWarmTarget)
	api.POST("/cache/warm", s.handleBatchWarm)
	api.POST("/reactions/status", s.handleBatchStatus)
}
