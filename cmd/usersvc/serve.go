package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/smartkuk/simple-flask/internal/config"
	"github.com/smartkuk/simple-flask/internal/events"
	grpcserver "github.com/smartkuk/simple-flask/internal/grpc"
	"github.com/smartkuk/simple-flask/internal/logging"
	"github.com/smartkuk/simple-flask/internal/metrics"
	"github.com/smartkuk/simple-flask/internal/server"
	"github.com/smartkuk/simple-flask/internal/users"
)

const eventBuffer = 16

// serveCommand runs the HTTP API (and the gRPC health service when enabled)
// until SIGINT or SIGTERM.
func serveCommand(c *cli.Context) error {
	// 1. Load and validate configuration before anything listens.
	cfg := configFromContext(c)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := logging.New(os.Stdout, cfg.LogFormat, cfg.Verbose)
	slog.SetDefault(logger)
	logConfig(logger, cfg)

	// 2. Create the in-memory registry.
	registry := users.NewRegistry()
	if cfg.SeedUsers {
		if err := registry.Seed(users.DefaultSeed()...); err != nil {
			return fmt.Errorf("seed users: %w", err)
		}
		logger.Info("seeded users", "count", registry.Len())
	}

	hub := events.NewHub(eventBuffer)
	m := metrics.New(registry.Len)

	// 3. Set up the chi router with all handlers.
	handler, err := server.New(cfg, server.Deps{
		Registry: registry,
		Hub:      hub,
		Metrics:  m,
		Logger:   logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	// 4. Start the HTTP server.
	srv := &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      0, // no write timeout to support the events stream
		IdleTimeout:       120 * time.Second,
	}

	// The gRPC listener is opened first so a bind failure leaves nothing running.
	var grpcLis net.Listener
	if addr := cfg.GRPCAddr(); addr != "" {
		grpcLis, err = net.Listen("tcp", addr)
		if err != nil {
			return fmt.Errorf("grpc listen %s: %w", addr, err)
		}
	}

	errCh := make(chan error, 2)
	go func() {
		logger.Info("users service listening", "addr", cfg.ListenAddr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	var health *grpcserver.HealthServer
	if grpcLis != nil {
		lis := grpcLis
		health = grpcserver.NewHealthServer(logger)
		go func() {
			if err := health.Serve(lis); err != nil {
				errCh <- fmt.Errorf("grpc server: %w", err)
			}
		}()
	}

	// Graceful shutdown on SIGINT / SIGTERM.
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(done)

	var runErr error
	select {
	case sig := <-done:
		logger.Info("shutting down", "signal", sig.String())
	case runErr = <-errCh:
		logger.Error("server failed, shutting down", "error", runErr)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if health != nil {
		health.SetServing(false)
	}
	// Closing the hub ends every open events stream.
	hub.Close()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown error", "error", err)
	}
	if health != nil {
		health.Stop(ctx)
	}

	logger.Info("users service stopped")
	return runErr
}

// logConfig prints the resolved configuration at startup.
func logConfig(logger *slog.Logger, cfg *config.Config) {
	logger.Info("configuration",
		"version", cfg.Version,
		"context_path", cfg.ContextPath,
		"host", cfg.Host,
		"port", cfg.Port,
		"grpc_port", cfg.GRPCPort,
		"verbose", cfg.Verbose,
		"seed_users", cfg.SeedUsers,
		"cors_allowed_origins", cfg.AllowedOrigins,
		"max_body_bytes", cfg.MaxBodyBytes,
		"log_format", cfg.LogFormat,
		"shutdown_timeout", cfg.ShutdownTimeout,
	)
}
