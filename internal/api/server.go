// Package api exposes the back-office over HTTP: statement uploads,
// line-item queries and edits, reconciliation triggers, run history and
// invoice management.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ledgerdesk/backoffice-backend/internal/adapters/accounting"
	"github.com/ledgerdesk/backoffice-backend/internal/application/statement"
	"github.com/ledgerdesk/backoffice-backend/internal/infrastructure/config"
	"github.com/ledgerdesk/backoffice-backend/internal/infrastructure/storage"
)

// Server wires the HTTP surface to the application services.
type Server struct {
	statements *statement.Service
	repo       storage.Repository
	pusher     accounting.Pusher
	logger     *slog.Logger
	httpServer *http.Server
	router     *gin.Engine
}

// NewServer builds the router and all routes. pusher may be nil when no
// books provider is configured; the push endpoint then returns 503.
func NewServer(
	cfg config.ServerConfig,
	statements *statement.Service,
	repo storage.Repository,
	pusher accounting.Pusher,
	logger *slog.Logger,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))
	router.Use(corsMiddleware(cfg.AllowedOrigins))

	s := &Server{
		statements: statements,
		repo:       repo,
		pusher:     pusher,
		logger:     logger,
		router:     router,
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      router,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  120 * time.Second,
		},
	}

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", s.health)

		v1.POST("/statements", s.uploadStatement)
		v1.GET("/statements", s.listStatements)
		v1.GET("/statements/:id", s.getStatement)
		v1.GET("/statements/:id/items", s.listStatementItems)
		v1.DELETE("/statements/:id", s.deleteStatement)
		v1.POST("/statements/:id/reconcile", s.triggerReconcile)

		v1.PUT("/items/:id", s.editItem)
		v1.DELETE("/items/:id", s.deleteItem)

		v1.GET("/runs", s.listRuns)
		v1.GET("/runs/:id", s.getRun)

		v1.GET("/analytics", s.analytics)

		v1.POST("/invoices", s.createInvoice)
		v1.GET("/invoices", s.listInvoices)
		v1.POST("/invoices/:id/push", s.pushInvoice)
	}

	return s
}

// Router exposes the gin engine for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start runs the HTTP server until it fails or is shut down.
func (s *Server) Start() error {
	s.logger.Info("starting API server", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
