// Package api assembles the HTTP surface of the preview resolver: the chi
// router, the preview routes, and the health probes.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ignite/preview-resolver/internal/config"
	"github.com/ignite/preview-resolver/internal/preview"
)

// Server represents the HTTP server
type Server struct {
	config  config.ServerConfig
	handler http.Handler
	server  *http.Server
}

// NewServer creates a server serving the preview routes and health probes.
func NewServer(cfg config.ServerConfig, previews *preview.Handler, health *HealthChecker) *Server {
	return &Server{
		config:  cfg,
		handler: SetupRoutes(previews, health),
	}
}

// Addr is the listen address from the server config.
func (s *Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.config.GetHost(), s.config.Port)
}

// ListenAndServe starts the HTTP server
func (s *Server) ListenAndServe(addr string) error {
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler returns the HTTP handler for testing
func (s *Server) Handler() http.Handler {
	return s.handler
}
