// Package http serves the extraction engine over a JSON API.
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/payplan/internal/dates"
	"github.com/fyrsmithlabs/payplan/internal/engine"
	"github.com/fyrsmithlabs/payplan/internal/extraction"
	"github.com/fyrsmithlabs/payplan/internal/logging"
	"github.com/fyrsmithlabs/payplan/internal/telemetry"
)

// Server provides HTTP endpoints for the extraction engine.
type Server struct {
	echo      *echo.Echo
	engine    *engine.Engine
	logger    *logging.Logger
	config    *Config
	telemetry *telemetry.Telemetry
	version   string
	meter     metric.Meter
}

// Config holds HTTP server configuration.
type Config struct {
	Host string
	Port int
	// RateLimit is requests per second per client IP on /api. Zero disables it.
	RateLimit float64
	RateBurst int
	// BodyLimit caps request bodies, e.g. "2M".
	BodyLimit string
}

// DefaultConfig returns the server defaults.
func DefaultConfig() *Config {
	return &Config{
		Host:      "localhost",
		Port:      9090,
		RateLimit: 10,
		RateBurst: 20,
		BodyLimit: "2M",
	}
}

// Option configures a Server.
type Option func(*Server)

// WithTelemetry reports telemetry health on /health and records HTTP
// metrics with its meter.
func WithTelemetry(t *telemetry.Telemetry) Option {
	return func(s *Server) {
		s.telemetry = t
		if t != nil {
			s.meter = t.Meter(httpInstrumentationName)
		}
	}
}

// WithVersion sets the version reported on /health.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.version = v
	}
}

// NewServer creates a new HTTP server.
func NewServer(eng *engine.Engine, logger *logging.Logger, cfg *Config, opts ...Option) (*Server, error) {
	if eng == nil {
		return nil, fmt.Errorf("engine cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required for request tracking and debugging")
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:   e,
		engine: eng,
		logger: logger,
		config: cfg,
	}
	for _, opt := range opts {
		opt(s)
	}
	e.HTTPErrorHandler = s.handleError

	// Middleware
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(s.requestContext)
	e.Use(NewHTTPMetrics(s.meter, logger).MetricsMiddleware())
	if cfg.BodyLimit != "" {
		e.Use(middleware.BodyLimit(cfg.BodyLimit))
	}

	s.registerRoutes()

	return s, nil
}

// requestContext attaches the request ID and logger to the request context
// and logs each request.
func (s *Server) requestContext(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		req := c.Request()
		ctx := logging.WithLogger(req.Context(), s.logger)

		id := c.Response().Header().Get(echo.HeaderXRequestID)
		if logging.ValidateRequestID(id) == nil {
			ctx = logging.WithRequestID(ctx, id)
		}
		c.SetRequest(req.WithContext(ctx))

		err := next(c)

		status := c.Response().Status
		var he *echo.HTTPError
		if errors.As(err, &he) {
			status = he.Code
		}
		s.logger.Info(ctx, "http request",
			zap.String("method", req.Method),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Duration("duration", time.Since(start)),
		)
		return err
	}
}

// registerRoutes sets up the HTTP endpoints.
func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	v1 := s.echo.Group("/api/v1")
	if s.config.RateLimit > 0 {
		v1.Use(newIPLimiter(s.config.RateLimit, s.config.RateBurst).middleware(s.logger))
	}
	v1.POST("/extract", s.handleExtract)
	v1.POST("/dates/reparse", s.handleReparse)
	v1.GET("/cache/stats", s.handleCacheStats)
}

func (s *Server) handleHealth(c echo.Context) error {
	resp := HealthResponse{Status: "ok", Version: s.version}
	if s.telemetry != nil {
		h := s.telemetry.Health()
		resp.Telemetry = &h
		if h.Degraded {
			resp.Status = "degraded"
		}
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleExtract(c echo.Context) error {
	ctx := c.Request().Context()

	var req ExtractRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn(ctx, "invalid extract request", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	locale, err := parseLocale(req.DateLocale)
	if err != nil {
		return err
	}

	res, err := s.engine.Extract(ctx, engine.Input{Text: req.text()}, req.Timezone, engine.Options{
		DateLocale:  locale,
		BypassCache: req.BypassCache,
	})
	if err != nil {
		return s.toHTTPError(ctx, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (s *Server) handleReparse(c echo.Context) error {
	ctx := c.Request().Context()

	var req ReparseRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn(ctx, "invalid reparse request", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	locale, err := parseLocale(req.DateLocale)
	if err != nil {
		return err
	}

	if req.Item != nil {
		item, err := s.engine.Reparse(ctx, *req.Item, locale)
		if err != nil {
			return s.toHTTPError(ctx, err)
		}
		return c.JSON(http.StatusOK, ReparseResponse{
			Item:    &item,
			DueDate: item.DueDate,
			RawText: item.RawDueDate,
		})
	}

	if req.RawDate == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "item or rawDate is required")
	}
	d, err := s.engine.ReparseDate(ctx, req.RawDate, req.Timezone, locale)
	if err != nil {
		return s.toHTTPError(ctx, err)
	}
	return c.JSON(http.StatusOK, ReparseResponse{
		DueDate:   d.ISODate,
		RawText:   d.RawText,
		Ambiguous: d.Ambiguous,
		Instant:   d.RFC3339(),
	})
}

func (s *Server) handleCacheStats(c echo.Context) error {
	cache := s.engine.Cache()
	if cache == nil {
		return echo.NewHTTPError(http.StatusNotFound, "cache disabled")
	}
	return c.JSON(http.StatusOK, cache.Stats())
}

// handleError writes every error as an ErrorResponse.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := "internal error"
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		} else {
			msg = http.StatusText(code)
		}
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, ErrorResponse{Error: msg})
	}
	if err != nil {
		s.logger.Warn(c.Request().Context(), "failed to write error response", zap.Error(err))
	}
}

// parseLocale leaves an empty locale empty so the engine default applies.
func parseLocale(s string) (dates.Locale, error) {
	if strings.TrimSpace(s) == "" {
		return "", nil
	}
	l, err := dates.ParseLocale(s)
	if err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, "dateLocale must be US or EU")
	}
	return l, nil
}

// toHTTPError maps engine errors to status codes. Unknown errors never leak
// their text to the client.
func (s *Server) toHTTPError(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, extraction.ErrInputTooLarge):
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "input too large")
	case errors.Is(err, dates.ErrInvalidTimezone):
		return echo.NewHTTPError(http.StatusBadRequest, "invalid timezone")
	case errors.Is(err, engine.ErrNoRawDate):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, dates.ErrMalformed),
		errors.Is(err, dates.ErrImpossibleDate),
		errors.Is(err, dates.ErrSuspiciousDate):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, extraction.ReasonFor(err))
	default:
		s.logger.Error(ctx, "request failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info(context.Background(), "starting http server", zap.String("addr", addr))
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info(ctx, "shutting down http server")
	return s.echo.Shutdown(ctx)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}
