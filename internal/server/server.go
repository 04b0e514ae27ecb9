// Package server owns the HTTP and gRPC listener lifecycle.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/shashiranjanraj/catalog/pkg/grpc"
	"github.com/shashiranjanraj/catalog/pkg/logger"
)

// Options configures Run.
type Options struct {
	Addr    string
	Handler http.Handler

	// GRPCPort enables the gRPC health listener when non-empty.
	GRPCPort string
	Ready    grpc.ReadyFunc

	// ShutdownTimeout bounds how long in-flight requests may finish. Default 15s.
	ShutdownTimeout time.Duration
}

// Run serves until ctx is cancelled, then shuts both listeners down gracefully.
func Run(ctx context.Context, opts Options) error {
	lis, err := net.Listen("tcp", opts.Addr)
	if err != nil {
		return fmt.Errorf("server: listen on %s: %w", opts.Addr, err)
	}
	return Serve(ctx, lis, opts)
}

// Serve is Run on an existing listener.
func Serve(ctx context.Context, lis net.Listener, opts Options) error {
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 15 * time.Second
	}

	srv := &http.Server{
		Handler:           opts.Handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	if opts.GRPCPort != "" {
		gsrv, err := grpc.Start(opts.GRPCPort, opts.Ready)
		if err != nil {
			lis.Close()
			return err
		}
		defer grpc.Stop(gsrv)
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "addr", lis.Addr().String())
		errCh <- srv.Serve(lis)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("HTTP server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), opts.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}
