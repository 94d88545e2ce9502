package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/payplan/internal/config"
	payplanhttp "github.com/fyrsmithlabs/payplan/internal/http"
)

// serveCmd runs the HTTP API
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the payplan HTTP API",
	Long: `Serve the extraction engine over HTTP.

Endpoints:
  GET  /health
  POST /api/v1/extract
  POST /api/v1/dates/reparse
  GET  /api/v1/cache/stats
  GET  /metrics

The sender allowlist file (sender.allowlist_file) is reloaded when it changes.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := newApp(ctx, appOptions{withCache: true})
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close(context.Background()) }()

	cfg := rt.cfg
	rt.logger.Info(ctx, "starting payplan",
		zap.String("version", version),
		zap.Int("port", cfg.Server.Port),
		zap.Bool("cache", cfg.Cache.Enabled),
		zap.Bool("telemetry", cfg.Telemetry.Enabled),
	)

	if path := cfg.Sender.AllowlistFile; path != "" {
		if err := watchAllowlist(ctx, rt, path); err != nil {
			rt.logger.Warn(ctx, "allowlist hot reload disabled", zap.Error(err))
		}
	}

	srv, err := payplanhttp.NewServer(rt.engine, rt.logger, &payplanhttp.Config{
		Host:      cfg.Server.Host,
		Port:      cfg.Server.Port,
		RateLimit: cfg.Server.RateLimit,
		RateBurst: cfg.Server.RateBurst,
		BodyLimit: cfg.Server.BodyLimit,
	}, payplanhttp.WithTelemetry(rt.tel), payplanhttp.WithVersion(version))
	if err != nil {
		return fmt.Errorf("failed to create http server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	rt.logger.Info(context.Background(), "shutting down gracefully")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Duration())
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return <-errCh
}

// watchAllowlist reloads the sender allowlist into the detector on change.
// A bad file keeps the previous domains.
func watchAllowlist(ctx context.Context, rt *app, path string) error {
	return config.WatchFile(ctx, path,
		func() { reloadAllowlist(ctx, rt, path) },
		func(err error) {
			rt.logger.Warn(ctx, "allowlist watch error", zap.Error(err))
		},
	)
}

func reloadAllowlist(ctx context.Context, rt *app, path string) {
	al, err := config.LoadAllowlist(path)
	if err != nil {
		rt.logger.Warn(ctx, "allowlist reload rejected", zap.Error(err))
		return
	}
	rt.detector.SetExtraDomains(al.Domains)
	if c := rt.engine.Cache(); c != nil {
		c.Clear()
	}

	n := 0
	for _, domains := range al.Domains {
		n += len(domains)
	}
	rt.logger.Info(ctx, "allowlist reloaded", zap.Int("domains", n))
}
