// Package http serves the prediction API.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Server wraps http.Server with graceful shutdown.
type Server struct {
	server *http.Server
	logger *zap.Logger
}

// ServerConfig holds listener settings.
type ServerConfig struct {
	Addr    string
	Timeout time.Duration
}

// DefaultServerConfig listens on :8000 with a 30s timeout.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:    ":8000",
		Timeout: 30 * time.Second,
	}
}

// NewServer builds a server for handler.
func NewServer(config ServerConfig, handler http.Handler, logger *zap.Logger) *Server {
	if config.Timeout <= 0 {
		config.Timeout = DefaultServerConfig().Timeout
	}
	return &Server{
		server: &http.Server{
			Addr:              config.Addr,
			Handler:           handler,
			ReadTimeout:       config.Timeout,
			ReadHeaderTimeout: config.Timeout,
			WriteTimeout:      config.Timeout,
			IdleTimeout:       120 * time.Second,
		},
		logger: logger,
	}
}

// Start blocks until the server stops. A clean Stop returns nil.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Stop drains in-flight requests for up to 5 seconds.
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.logger.Info("shutting down HTTP server")

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	return nil
}

// Addr is the configured listen address.
func (s *Server) Addr() string {
	return s.server.Addr
}
