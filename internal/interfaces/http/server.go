package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/claimlens/claimlens/internal/config"
	"github.com/claimlens/claimlens/internal/infrastructure/monitoring/logging"
)

// Server wraps http.Server with graceful shutdown.
type Server struct {
	srv     *http.Server
	logger  logging.Logger
	timeout config.ServerConfig
}

// NewServer builds the server around an assembled handler.
func NewServer(cfg config.ServerConfig, handler http.Handler, logger logging.Logger) *Server {
	return &Server{
		srv: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		logger:  logger.Named("server"),
		timeout: cfg,
	}
}

// Start blocks serving requests until Stop is called or the listener fails.
func (s *Server) Start() error {
	s.logger.Info("http server listening", logging.String("addr", s.srv.Addr))
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop drains in-flight requests within the configured shutdown window.
func (s *Server) Stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, s.timeout.ShutdownTimeout)
	defer cancel()

	s.logger.Info("http server shutting down")
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

// Handler exposes the underlying handler for tests.
func (s *Server) Handler() http.Handler { return s.srv.Handler }
