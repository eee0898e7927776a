package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// SignalHandler manages graceful shutdown of the HTTP server
type SignalHandler struct {
	server          *http.Server
	shutdownTimeout time.Duration
	logger          *slog.Logger
}

// NewSignalHandler creates a new signal handler
func NewSignalHandler(server *http.Server, shutdownTimeout time.Duration, logger *slog.Logger) *SignalHandler {
	return &SignalHandler{
		server:          server,
		shutdownTimeout: shutdownTimeout,
		logger:          logger,
	}
}

// Shutdown stops the server, waiting up to the shutdown timeout for
// in-flight requests.
func (sh *SignalHandler) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), sh.shutdownTimeout)
	defer cancel()

	if err := sh.server.Shutdown(ctx); err != nil {
		sh.logger.Error("server forced to shut down", "error", err)
		return fmt.Errorf("shutdown: %w", err)
	}
	sh.logger.Info("server gracefully shut down")
	return nil
}

// Serve runs the server until ctx is cancelled or the listener fails, then
// shuts it down gracefully.
func (sh *SignalHandler) Serve(ctx context.Context, serve func() error) error {
	errCh := make(chan error, 1)
	go func() {
		sh.logger.Info("starting server", "addr", sh.server.Addr)
		if err := serve(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		sh.logger.Info("initiating graceful shutdown")
		return sh.Shutdown()
	}
}

// HandleSignals starts the server and shuts it down on SIGINT or SIGTERM.
func HandleSignals(server *http.Server, shutdownTimeout time.Duration, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return NewSignalHandler(server, shutdownTimeout, logger).Serve(ctx, server.ListenAndServe)
}
