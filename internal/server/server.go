// Package server exposes the contrast engine and palette generator as a
// small JSON HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/wcagtint/internal/config"
)

// Server serves the HTTP API.
type Server struct {
	Config config.Config
	Logger hclog.Logger

	newID func() string
}

// New creates a server. A nil logger discards output.
func New(cfg config.Config, logger hclog.Logger) *Server {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 5 * time.Second
	}
	return &Server{
		Config: cfg,
		Logger: logger,
		newID:  uuid.NewString,
	}
}

// Serve listens on Config.HTTPAddr until ctx is cancelled, then shuts down
// gracefully within Config.ShutdownTimeout.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.Config.HTTPAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.Config.HTTPAddr, err)
	}
	return s.ServeListener(ctx, ln)
}

// ServeListener is Serve on an existing listener.
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Routes(),
		IdleTimeout:       time.Minute,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	stopped := make(chan struct{})
	shutdownErr := make(chan error, 1)

	go func() {
		select {
		case <-ctx.Done():
		case <-stopped:
			shutdownErr <- nil
			return
		}
		s.Logger.Info("shutting down server", "reason", context.Cause(ctx))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.Config.ShutdownTimeout)
		defer cancel()
		shutdownErr <- srv.Shutdown(shutdownCtx)
	}()

	addr := ln.Addr().String()
	s.Logger.Info("starting server", "addr", addr)

	err := srv.Serve(ln)
	close(stopped)
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	if err := <-shutdownErr; err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	s.Logger.Info("stopped server", "addr", addr)
	return nil
}
