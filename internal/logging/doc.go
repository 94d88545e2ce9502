// Package logging provides structured logging with OpenTelemetry integration.
//
// Logging wraps Zap with:
//   - Custom Trace level (-2, below Debug)
//   - Stdout and OpenTelemetry outputs
//   - Context field injection (trace_id, span_id, request.id)
//   - PII and secret redaction at the encoder
//   - Per-level sampling (errors never sampled)
//
// # Usage
//
//	cfg, err := logging.FromSettings("info", "json", true)
//	if err != nil {
//	    return err
//	}
//	logger, err := logging.NewLogger(cfg, otelProvider)
//	if err != nil {
//	    return err
//	}
//	defer logger.Sync()
//
//	ctx = logging.WithRequestID(ctx, "req_123")
//	logger.Info(ctx, "extraction finished", zap.Int("items", n))
//
// # Redaction
//
// Pasted payment emails contain names, emails and card fragments. Never log
// the text itself; use Redacted for a scrubbed preview or Masked for the
// length only:
//
//	logger.Debug(ctx, "block rejected",
//	    logging.Redacted("block_preview", redact.Redact(block)))
//
// The encoder also drops values under keys such as "text" and "snippet" and
// masks emails, card, phone and account numbers inside any string value.
//
// # Sampling
//
//   - Trace: never sampled; enable it only while debugging
//   - Debug: first 10 per second, drop rest
//   - Info: first 100, then 1 every 10
//   - Warn: first 100, then 1 every 100
//   - Error+: never sampled
//
// # Testing
//
//	tl := logging.NewTestLogger()
//	tl.Info(ctx, "test message", zap.String("key", "value"))
//	tl.AssertLogged(t, zapcore.InfoLevel, "test message")
//	tl.AssertField(t, "test message", "key", "value")
//	tl.AssertNoPII(t)
package logging
