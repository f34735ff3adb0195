// Package api exposes the risk assessment engine over HTTP.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/chronic-risk-engine/internal/cache"
	"github.com/chronic-risk-engine/internal/domain"
	"github.com/chronic-risk-engine/internal/middleware"
	"github.com/chronic-risk-engine/internal/repository"
	"github.com/chronic-risk-engine/internal/service"
)

// Server represents the HTTP server
type Server struct {
	config   *domain.Config
	assessor *service.AssessorService
	store    repository.ProfileStore
	cache    *cache.ProfileCache
	log      *logrus.Logger
	router   *gin.Engine
	server   *http.Server
}

// NewServer creates a new HTTP server instance
func NewServer(
	config *domain.Config,
	assessor *service.AssessorService,
	store repository.ProfileStore,
	profileCache *cache.ProfileCache,
	logger *logrus.Logger,
) *Server {
	// Set Gin mode based on environment
	if config.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.CorrelationID())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.AuditLogger())
	router.Use(middleware.RateLimiter(config.Server.RateLimitRPS, config.Server.RateLimitBurst))

	server := &Server{
		config:   config,
		assessor: assessor,
		store:    store,
		cache:    profileCache,
		log:      logger,
		router:   router,
	}

	server.setupRoutes()

	return server
}

// Start starts the HTTP server and blocks until the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	cfg := s.config.Server
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	s.log.WithFields(logrus.Fields{
		"addr": addr,
	}).Info("HTTP server started")

	select {
	case err := <-errCh:
		return fmt.Errorf("starting server: %w", err)
	case <-ctx.Done():
	}

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s.log.Info("Shutting down HTTP server")
	return s.server.Shutdown(shutdownCtx)
}

// Router exposes the gin engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/assess", s.handleAssess)
		v1.POST("/assess/:condition", s.handleAssessCondition)
		v1.GET("/profiles/:id", s.handleGetProfile)
		v1.DELETE("/profiles/:id", s.handleDeleteProfile)
		v1.GET("/patients/:id/profiles", s.handleListProfiles)
	}
}

// handleHealth handles health check requests
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"formulas":  s.assessor.FormulaCount(),
	})
}
