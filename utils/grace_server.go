package utils

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"
)

const (
	DEFAULT_READ_TIMEOUT     = 60 * time.Second
	DEFAULT_WRITE_TIMEOUT    = DEFAULT_READ_TIMEOUT
	DEFAULT_SHUTDOWN_TIMEOUT = 30 * time.Second
)

// NewServer creates an http.Server with timeouts and handler.
func NewServer(addr string, handler http.Handler, readTimeout, writeTimeout time.Duration) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}
}

// Serve runs srv until ctx is cancelled, then drains in-flight requests.
func Serve(ctx context.Context, srv *http.Server, shutdownTimeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	Sugar.Info("graceful shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		Sugar.Errorf("HTTP server shutdown error: %v", err)
		return err
	}
	Sugar.Info("HTTP server shutdown success")
	return <-errCh
}

// GraceServer serves handler on addr until SIGINT or SIGTERM.
func GraceServer(addr string, handler http.Handler) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return Serve(ctx, NewServer(addr, handler, DEFAULT_READ_TIMEOUT, DEFAULT_WRITE_TIMEOUT), DEFAULT_SHUTDOWN_TIMEOUT)
}
