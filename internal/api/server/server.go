// Package server provides the HTTP server implementation
package server

// @title           TeamPlan Account API
// @version         1.0
// @description     Account security API with global rate limiting.
// @x-skip-model-definitions true
//
// @description.markdown
// All API endpoints are subject to rate limiting:
// * Rate limits are applied per IP address
// * Sensitive flows carry additional per-subject ceilings
//
// When a rate limit is exceeded:
// * Status code 429 (Too Many Requests) is returned
// * Headers:
//   - X-RateLimit-Limit: Maximum requests allowed
//   - X-RateLimit-Reset: Unix timestamp when the rate limit resets
//   - Retry-After: Seconds to wait before retrying
//
// @host            localhost:8080
// @BasePath        /api/v1
//
// @response 429 {object} models.ThrottledResponse "Rate limit exceeded"

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"teamplan/internal/api/routes"
	"teamplan/internal/config"
)

// Server represents the HTTP server
type Server struct {
	cfg *config.Config
	db  *sql.DB
}

// New creates a new server instance
func New(cfg *config.Config, db *sql.DB) *Server {
	return &Server{
		cfg: cfg,
		db:  db,
	}
}

// Start runs the HTTP server until SIGINT or SIGTERM, then shuts it
// down gracefully. It returns once shutdown completes or listening
// fails.
func (s *Server) Start() error {
	port, err := strconv.Atoi(s.cfg.API.Port)
	if err != nil {
		return fmt.Errorf("invalid port number: %w", err)
	}

	router := routes.SetupRoutes(s.cfg, s.db)
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting server on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}
	log.Println("Shutting down server...")

	// Give outstanding requests 5 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
