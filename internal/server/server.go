// Package server provides the HTTP surface of platformapi.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"platformapi/internal/config"
	"platformapi/internal/logging"
	"platformapi/internal/ping"
)

// Server wires the HTTP routes to the ping service
type Server struct {
	engine *gin.Engine
	cfg    *config.Config
	svc    *ping.Service
	logger *logging.Logger
}

// New creates a server with all routes registered
func New(cfg *config.Config, svc *ping.Service, logger *logging.Logger) (*Server, error) {
	if logger.IsQuiet() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	tmpl, err := loadTemplates()
	if err != nil {
		return nil, fmt.Errorf("failed to load page templates: %w", err)
	}
	engine.SetHTMLTemplate(tmpl)

	s := &Server{
		engine: engine,
		cfg:    cfg,
		svc:    svc,
		logger: logger,
	}
	s.registerRoutes()

	return s, nil
}

// registerRoutes attaches all HTTP handlers to the engine
func (s *Server) registerRoutes() {
	s.engine.GET("/", s.handleLoginPage)
	s.engine.POST("/login", s.handleLogin)
	s.engine.GET("/health", s.handleHealth)
	s.engine.GET("/app", s.handleDashboard)
	s.engine.POST("/api/ping", s.handlePing)
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// Engine exposes the underlying router, mainly for tests
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Run serves HTTP until ctx is canceled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.Listen,
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.LogServerStart(s.cfg.Listen)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
