// Package server provides HTTP server lifecycle helpers
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/didyoueat/didyoueat/internal/logging"
)

// ShutdownTimeout bounds how long in-flight requests get to finish
const ShutdownTimeout = 5 * time.Second

// Options configures Run
type Options struct {
	// BeforeStop runs before the listener is closed (e.g. stop the poller)
	BeforeStop func()
	// AfterStop runs once the server has shut down (e.g. close the store)
	AfterStop func()
	// Ready receives the bound address once listening; may be nil
	Ready func(addr net.Addr)
}

// Run serves srv until ctx is cancelled or the process receives SIGINT or
// SIGTERM, then shuts down gracefully.
func Run(ctx context.Context, srv *http.Server, opts Options) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return err
	}
	if opts.Ready != nil {
		opts.Ready(ln.Addr())
	}
	logging.Info("Listening", logging.String("addr", ln.Addr().String()))

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logging.Error("Server error", logging.Err(err))
			return err
		}
		return nil
	case <-ctx.Done():
		return shutdown(srv, opts)
	}
}

func shutdown(srv *http.Server, opts Options) error {
	logging.Info("Shutting down...")
	if opts.BeforeStop != nil {
		opts.BeforeStop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}

	if opts.AfterStop != nil {
		opts.AfterStop()
	}
	logging.Info("Server stopped")
	return nil
}
