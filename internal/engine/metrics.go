package engine

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// InstrumentationName is the OTEL scope for engine spans and metrics.
const InstrumentationName = "github.com/fyrsmithlabs/payplan/internal/engine"

// Outcomes recorded on payplan.extraction.requests.
const (
	outcomeOK       = "ok"
	outcomeCached   = "cached"
	outcomeEmpty    = "empty"
	outcomeRejected = "rejected"
)

// Metrics provides OpenTelemetry metrics for extraction calls.
type Metrics struct {
	requests metric.Int64Counter
	items    metric.Int64Counter
	issues   metric.Int64Counter
	dupes    metric.Int64Counter
	duration metric.Float64Histogram
	reparses metric.Int64Counter
}

// NewMetrics creates the engine instruments. A nil meter uses the global
// meter provider.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	if meter == nil {
		meter = otel.Meter(InstrumentationName)
	}

	m := &Metrics{}
	var err error

	m.requests, err = meter.Int64Counter(
		"payplan.extraction.requests",
		metric.WithDescription("Extraction calls labeled by outcome (ok, cached, empty, rejected)"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	m.items, err = meter.Int64Counter(
		"payplan.extraction.items",
		metric.WithDescription("Installment items returned, labeled by provider"),
		metric.WithUnit("{item}"),
	)
	if err != nil {
		return nil, err
	}

	m.issues, err = meter.Int64Counter(
		"payplan.extraction.issues",
		metric.WithDescription("Issues returned for blocks that did not yield a trusted item"),
		metric.WithUnit("{issue}"),
	)
	if err != nil {
		return nil, err
	}

	m.dupes, err = meter.Int64Counter(
		"payplan.extraction.duplicates_removed",
		metric.WithDescription("Items dropped as duplicates of another block"),
		metric.WithUnit("{item}"),
	)
	if err != nil {
		return nil, err
	}

	m.duration, err = meter.Float64Histogram(
		"payplan.extraction.duration",
		metric.WithDescription("Time spent in the extraction pipeline, excluding cache hits"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25),
	)
	if err != nil {
		return nil, err
	}

	m.reparses, err = meter.Int64Counter(
		"payplan.dates.reparses",
		metric.WithDescription("Quick-fix date reparses labeled by locale and result"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

func (m *Metrics) recordRequest(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.requests.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

func (m *Metrics) recordResult(ctx context.Context, providers map[string]int64, issues, dupes int, seconds float64) {
	if m == nil {
		return
	}
	for name, n := range providers {
		m.items.Add(ctx, n, metric.WithAttributes(attribute.String("provider", name)))
	}
	if issues > 0 {
		m.issues.Add(ctx, int64(issues))
	}
	if dupes > 0 {
		m.dupes.Add(ctx, int64(dupes))
	}
	m.duration.Record(ctx, seconds)
}

func (m *Metrics) recordReparse(ctx context.Context, locale string, ok bool) {
	if m == nil {
		return
	}
	m.reparses.Add(ctx, 1, metric.WithAttributes(
		attribute.String("locale", locale),
		attribute.Bool("ok", ok),
	))
}
