// Package http serves the aggregation results over a JSON REST API. This is
// the surface read by the rendering/presentation collaborators.
package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"maiscore/internal/assets"
	"maiscore/internal/core"
	"maiscore/pkg/config"
	"maiscore/pkg/metrics"
)

// Server manages the HTTP REST API server
type Server struct {
	router        *gin.Engine
	config        *config.Config
	aggregatorSvc core.AggregatorService
	assetCache    *assets.Cache
}

// NewServer creates a new HTTP server with all handlers
func NewServer(cfg *config.Config, aggregatorSvc core.AggregatorService, assetCache *assets.Cache) *Server {
	// Set Gin to release mode by default
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(requestIDMiddleware())
	router.Use(loggingMiddleware())
	router.Use(corsMiddleware())

	s := &Server{
		router:        router,
		config:        cfg,
		aggregatorSvc: aggregatorSvc,
		assetCache:    assetCache,
	}

	s.setupRoutes()
	return s
}

// setupRoutes registers all HTTP routes
func (s *Server) setupRoutes() {
	s.router.GET("/health", s.healthCheck)
	s.router.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := s.router.Group("/api")
	{
		api.GET("/players/:source/:ref/bests", s.getBests)
		api.GET("/players/:source/:ref/songs/:song_id/score", s.getSingleScore)
		api.GET("/songs/:song_id", s.getSong)
		api.GET("/songs/:song_id/thresholds", s.getThresholds)
		api.GET("/assets/:category/:key", s.getAsset)
	}
}

// Start runs the HTTP server
func (s *Server) Start(addr string) error {
	return s.router.Run(addr)
}

// Router exposes the underlying gin engine
func (s *Server) Router() *gin.Engine {
	return s.router
}

// healthCheck returns server health status
func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(200, gin.H{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// corsMiddleware handles CORS
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
