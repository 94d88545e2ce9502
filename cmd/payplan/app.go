package main

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/payplan/internal/cache"
	"github.com/fyrsmithlabs/payplan/internal/config"
	"github.com/fyrsmithlabs/payplan/internal/engine"
	"github.com/fyrsmithlabs/payplan/internal/extraction"
	"github.com/fyrsmithlabs/payplan/internal/logging"
	"github.com/fyrsmithlabs/payplan/internal/provider"
	"github.com/fyrsmithlabs/payplan/internal/redact"
	"github.com/fyrsmithlabs/payplan/internal/telemetry"
)

// app is everything a command needs, built from configuration.
type app struct {
	cfg      *config.Config
	logger   *logging.Logger
	tel      *telemetry.Telemetry
	detector *provider.Detector
	engine   *engine.Engine
}

// appOptions tune newApp per command.
type appOptions struct {
	// logToStderr keeps stdout free for command results.
	logToStderr bool
	// withCache enables the extraction cache when configured.
	withCache bool
}

func newApp(ctx context.Context, opts appOptions) (*app, error) {
	cfg, err := config.LoadWithFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logCfg, err := logging.FromSettings(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Sampling)
	if err != nil {
		return nil, err
	}
	logCfg.Output.Stderr = opts.logToStderr

	tel, err := telemetry.New(ctx, telemetry.FromSettings(cfg.Telemetry, version))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	logger, err := logging.NewLogger(logCfg, tel.LoggerProvider())
	if err != nil {
		_ = tel.Shutdown(ctx)
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	if h := tel.Health(); h.Degraded {
		logger.Warn(ctx, "telemetry degraded", zap.String("reason", h.Reason))
	}

	allowlist, err := config.LoadAllowlist(cfg.Sender.AllowlistFile)
	if err != nil {
		_ = tel.Shutdown(ctx)
		return nil, err
	}
	detOpts := []provider.Option{provider.WithExtraDomains(allowlist.Domains)}
	if len(cfg.Sender.SuspiciousTLDs) > 0 {
		detOpts = append(detOpts, provider.WithSuspiciousTLDs(cfg.Sender.SuspiciousTLDs))
	}
	detector := provider.NewDetector(detOpts...)

	eng, err := buildEngine(cfg, detector, logger, tel, opts.withCache)
	if err != nil {
		_ = tel.Shutdown(ctx)
		return nil, err
	}

	return &app{
		cfg:      cfg,
		logger:   logger,
		tel:      tel,
		detector: detector,
		engine:   eng,
	}, nil
}

// buildEngine wires the extraction pipeline, cache and instrumentation.
func buildEngine(cfg *config.Config, detector *provider.Detector, logger *logging.Logger, tel *telemetry.Telemetry, withCache bool) (*engine.Engine, error) {
	xcfg := extraction.Config{
		MaxInputChars:          cfg.Extraction.MaxInputChars,
		LowConfidenceThreshold: cfg.Extraction.LowConfidenceThreshold,
		StripHTML:              cfg.Extraction.StripHTML,
		PastWindow:             cfg.Dates.PastWindow.Duration(),
		FutureWindow:           cfg.Dates.FutureWindow.Duration(),
	}
	var popts []extraction.PipelineOption
	if cfg.Redaction.CredentialScan {
		popts = append(popts, extraction.WithCredentialScanner(redact.NewCredentialScanner()))
	}

	metrics, err := engine.NewMetrics(tel.Meter(engine.InstrumentationName))
	if err != nil {
		return nil, fmt.Errorf("failed to create engine metrics: %w", err)
	}

	eopts := []engine.Option{
		engine.WithLogger(logger),
		engine.WithTracer(tel.Tracer(engine.InstrumentationName)),
		engine.WithMetrics(metrics),
		engine.WithDefaults(cfg.Extraction.DefaultTimezone, cfg.Extraction.Locale()),
	}
	if withCache && cfg.Cache.Enabled {
		c := cache.New(cfg.Cache.Capacity, cfg.Cache.TTL.Duration(), cache.WithMetrics(cache.NewMetrics()))
		eopts = append(eopts, engine.WithCache(c))
	}

	return engine.New(extraction.NewPipeline(xcfg, detector, popts...), eopts...), nil
}

// Close flushes logs and telemetry.
func (r *app) Close(ctx context.Context) error {
	var errs []error
	if err := r.tel.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := r.logger.Sync(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
