// Package telemetry provides OpenTelemetry tracing and metrics for payplan.
//
// Spans and metrics are exported over OTLP (gRPC or HTTP) to a collector.
//
//	cfg := telemetry.FromSettings(appCfg.Telemetry, version)
//	tel, err := telemetry.New(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer tel.Shutdown(context.Background())
//
//	ctx, span := tel.Tracer("payplan/engine").Start(ctx, "extraction.Extract")
//	defer span.End()
//
// Telemetry failures never stop extraction: when an exporter cannot be
// built the instance reports Degraded and the global no-op providers stay
// in place.
//
// Tests use TestTelemetry, which records spans in memory:
//
//	tt := telemetry.NewTestTelemetry()
//	_, span := tt.Tracer("test").Start(ctx, "test-span")
//	span.End()
//	tt.AssertSpanExists(t, "test-span")
package telemetry
