// Package engine is the entry point for installment extraction. It owns one
// explicitly constructed cache and wraps the extraction pipeline with
// logging, tracing and metrics.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/payplan/internal/cache"
	"github.com/fyrsmithlabs/payplan/internal/dates"
	"github.com/fyrsmithlabs/payplan/internal/extraction"
	"github.com/fyrsmithlabs/payplan/internal/logging"
)

// ErrNoRawDate is returned by Reparse for an item without matched date text.
var ErrNoRawDate = errors.New("item has no raw due date to reparse")

// Input is the text to extract from. A nil Text models a missing or
// non-string value and yields an empty result.
type Input struct {
	Text *string
}

// Text wraps s as an Input.
func Text(s string) Input {
	return Input{Text: &s}
}

// Options are the per-call engine options.
type Options struct {
	// DateLocale reads numeric slash dates. Empty means the engine default.
	DateLocale dates.Locale

	// BypassCache skips both the cache read and the cache write.
	BypassCache bool
}

// Engine runs extraction with an optional result cache.
type Engine struct {
	pipeline      *extraction.Pipeline
	cache         *cache.Cache
	logger        *logging.Logger
	tracer        trace.Tracer
	metrics       *Metrics
	defaultTZ     string
	defaultLocale dates.Locale
}

// Option configures an Engine.
type Option func(*Engine)

// WithCache enables result caching. A nil cache disables it.
func WithCache(c *cache.Cache) Option {
	return func(e *Engine) {
		e.cache = c
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *logging.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithTracer sets the tracer. The default uses the global provider.
func WithTracer(t trace.Tracer) Option {
	return func(e *Engine) {
		if t != nil {
			e.tracer = t
		}
	}
}

// WithMetrics sets the metric instruments. The default records nothing.
func WithMetrics(m *Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithDefaults sets the zone used when a call passes none and the locale
// used when a call's DateLocale is empty.
func WithDefaults(tz string, locale dates.Locale) Option {
	return func(e *Engine) {
		e.defaultTZ = tz
		e.defaultLocale = locale.OrDefault()
	}
}

// New creates an Engine around pipeline.
func New(pipeline *extraction.Pipeline, opts ...Option) *Engine {
	if pipeline == nil {
		pipeline = extraction.NewPipeline(extraction.DefaultConfig(), nil)
	}
	e := &Engine{
		pipeline:      pipeline,
		logger:        logging.NewNop(),
		tracer:        otel.Tracer(InstrumentationName),
		defaultTZ:     "UTC",
		defaultLocale: dates.LocaleUS,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Cache returns the engine's cache, or nil when caching is off.
func (e *Engine) Cache() *cache.Cache {
	return e.cache
}

// DefaultTimezone returns the zone used when a call passes none.
func (e *Engine) DefaultTimezone() string {
	return e.defaultTZ
}

func (e *Engine) locale(l dates.Locale) dates.Locale {
	if l == "" {
		return e.defaultLocale
	}
	return l
}

func (e *Engine) zone(tz string) string {
	if tz == "" {
		return e.defaultTZ
	}
	return tz
}

// Extract returns the installments found in in.Text read in zone tz.
//
// A nil text yields an empty result. Oversized input, an unknown zone and
// an invalid locale are returned as errors; every per-block failure becomes
// an Issue in the result.
func (e *Engine) Extract(ctx context.Context, in Input, tz string, opts Options) (extraction.Result, error) {
	tz = e.zone(tz)
	locale := e.locale(opts.DateLocale)

	ctx, span := e.tracer.Start(ctx, "extraction.Extract",
		trace.WithAttributes(
			attribute.String("timezone", tz),
			attribute.String("date_locale", string(locale)),
			attribute.Bool("cache.bypass", opts.BypassCache),
		),
	)
	defer span.End()

	if !locale.Valid() {
		err := fmt.Errorf("invalid date locale %q", locale)
		span.SetStatus(codes.Error, err.Error())
		e.metrics.recordRequest(ctx, outcomeRejected)
		return extraction.Result{}, err
	}

	if in.Text == nil {
		span.SetAttributes(attribute.Bool("input.null", true))
		e.metrics.recordRequest(ctx, outcomeEmpty)
		e.logger.Debug(ctx, "extraction input is null")
		return extraction.EmptyResult(locale), nil
	}
	text := *in.Text
	span.SetAttributes(attribute.Int("input.chars", utf8.RuneCountInString(text)))

	xopts := extraction.Options{DateLocale: locale}
	useCache := e.cache != nil && !opts.BypassCache

	if useCache {
		if res, ok := e.cache.Get(text, tz, xopts); ok {
			span.SetAttributes(
				attribute.Bool("cache.hit", true),
				attribute.Int("items", len(res.Items)),
				attribute.Int("issues", len(res.Issues)),
			)
			e.metrics.recordRequest(ctx, outcomeCached)
			e.logger.Debug(ctx, "extraction served from cache",
				zap.Int("items", len(res.Items)),
				zap.Int("issues", len(res.Issues)),
			)
			return res, nil
		}
	}
	span.SetAttributes(attribute.Bool("cache.hit", false))

	start := time.Now()
	res, failures, err := e.pipeline.ExtractReport(text, tz, xopts)
	elapsed := time.Since(start)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "extraction rejected")
		e.metrics.recordRequest(ctx, outcomeRejected)
		e.logger.Warn(ctx, "extraction rejected",
			zap.Error(err),
			zap.Int("chars", utf8.RuneCountInString(text)),
			zap.String("timezone", tz),
		)
		return extraction.Result{}, err
	}

	for _, f := range failures {
		e.logger.Debug(ctx, "block produced an issue",
			zap.Int("block", f.Block),
			zap.String("kind", string(f.Kind)),
			zap.Error(f.Err),
		)
	}

	if useCache {
		e.cache.Set(text, tz, xopts, res)
	}

	providers := make(map[string]int64, len(res.Items))
	for _, it := range res.Items {
		providers[it.Provider.String()]++
	}
	e.metrics.recordRequest(ctx, outcomeOK)
	e.metrics.recordResult(ctx, providers, len(res.Issues), res.DuplicatesRemoved, elapsed.Seconds())

	span.SetAttributes(
		attribute.Int("items", len(res.Items)),
		attribute.Int("issues", len(res.Issues)),
		attribute.Int("duplicates_removed", res.DuplicatesRemoved),
	)
	e.logger.Info(ctx, "extraction finished",
		zap.Int("items", len(res.Items)),
		zap.Int("issues", len(res.Issues)),
		zap.Int("duplicates_removed", res.DuplicatesRemoved),
		zap.Duration("duration", elapsed),
	)
	return res, nil
}

// Reparse re-reads item's raw due date under locale and returns a corrected
// copy. The original item is not modified.
func (e *Engine) Reparse(ctx context.Context, item extraction.Item, locale dates.Locale) (extraction.Item, error) {
	if item.RawDueDate == "" {
		return extraction.Item{}, ErrNoRawDate
	}
	d, err := e.ReparseDate(ctx, item.RawDueDate, "", locale)
	if err != nil {
		return extraction.Item{}, err
	}
	out := item.WithDueDate(d)
	if err := out.Validate(); err != nil {
		return extraction.Item{}, fmt.Errorf("reparsed item invalid: %w", err)
	}
	return out, nil
}

// ReparseDate parses raw date text under locale in zone tz, applying the
// pipeline's date window.
func (e *Engine) ReparseDate(ctx context.Context, raw, tz string, locale dates.Locale) (dates.Result, error) {
	tz = e.zone(tz)
	locale = e.locale(locale)

	ctx, span := e.tracer.Start(ctx, "dates.Reparse",
		trace.WithAttributes(
			attribute.String("timezone", tz),
			attribute.String("date_locale", string(locale)),
		),
	)
	defer span.End()

	if !locale.Valid() {
		err := fmt.Errorf("invalid date locale %q", locale)
		span.SetStatus(codes.Error, err.Error())
		return dates.Result{}, err
	}

	cfg := e.pipeline.Config()
	d, err := dates.Parse(raw, tz, dates.Options{
		Locale:       locale,
		Now:          cfg.Now,
		PastWindow:   cfg.PastWindow,
		FutureWindow: cfg.FutureWindow,
	})
	e.metrics.recordReparse(ctx, string(locale), err == nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "reparse failed")
		e.logger.Debug(ctx, "date reparse failed", zap.Error(err), zap.String("locale", string(locale)))
		return dates.Result{}, err
	}

	span.SetAttributes(attribute.Bool("ambiguous", d.Ambiguous))
	return d, nil
}
