package main

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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/GoSim-25-26J-441/seed-api/config"
	"github.com/GoSim-25-26J-441/seed-api/internal/bootstrap"
	"github.com/GoSim-25-26J-441/seed-api/internal/logging"
)

const serviceName = "seed-api"

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          serviceName,
		Short:        "RESTful CRUD service for paragraph nodes and tags",
		SilenceUsage: true,
		RunE: func(c *cobra.Command, _ []string) error {
			return runServe(c.Context())
		},
	}

	cmd.AddCommand(serveCmd(), routesCmd(), migrateCmd())
	return cmd
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(c *cobra.Command, _ []string) error {
			return runServe(c.Context())
		},
	}
}

func routesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "Print the registered CRUD routes",
		RunE: func(c *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			views, err := bootstrap.Views(bootstrap.NewMemoryStorage(), cfg.Resources)
			if err != nil {
				return err
			}

			out := c.OutOrStdout()
			for _, v := range views {
				for _, r := range v.Routes() {
					fmt.Fprintf(out, "%-6s %s%s\n", r.Method, bootstrap.APIPrefix, r.Path)
				}
			}
			return nil
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the resource tables (postgres driver only)",
		RunE: func(c *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := logging.New(logging.Config{Level: cfg.App.LogLevel, Format: cfg.App.LogFormat})

			ctx := c.Context()
			storage, err := bootstrap.OpenStorage(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeStorage(logger, storage)

			if err := storage.Migrate(ctx); err != nil {
				return err
			}
			logger.Info("migrations applied", "driver", storage.Driver)
			return nil
		},
	}
}

func runServe(parent context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := logging.New(logging.Config{Level: cfg.App.LogLevel, Format: cfg.App.LogFormat})
	bootstrap.SetGinMode(cfg.App.Environment)

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	storage, err := bootstrap.OpenStorage(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer closeStorage(logger, storage)

	verifier, err := bootstrap.NewTokenVerifier(ctx, cfg.Auth)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	router, err := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: serviceName,
		Version:     cfg.App.Version,
		Logger:      logger,
		Storage:     storage,
		Resources:   cfg.Resources,
		Server:      cfg.Server,
		Verifier:    verifier,
		Registry:    registry,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", srv.Addr, "driver", storage.Driver, "env", cfg.App.Environment)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func closeStorage(logger *slog.Logger, storage *bootstrap.Storage) {
	if err := storage.Close(); err != nil {
		logger.Warn("failed to close storage", "driver", storage.Driver, "error", err)
	}
}
