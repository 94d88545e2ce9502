package logging

import (
	"fmt"

	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.opentelemetry.io/otel/log"
	"go.uber.org/zap/zapcore"
)

// newDualCore creates core with stdout and/or OTEL outputs.
// The OTEL core gets the same redaction as stdout through redactingCore.
func newDualCore(cfg *Config, otelProvider log.LoggerProvider, out zapcore.WriteSyncer) (zapcore.Core, error) {
	cores := make([]zapcore.Core, 0, 2)

	if cfg.Output.Stdout {
		encoder, err := NewRedactingEncoder(newEncoder(cfg.Format), cfg.Redaction)
		if err != nil {
			return nil, fmt.Errorf("failed to create redacting encoder: %w", err)
		}
		cores = append(cores, zapcore.NewCore(encoder, out, cfg.Level))
	}

	if cfg.Output.OTEL && otelProvider != nil {
		scrubber, err := NewRedactingEncoder(nil, cfg.Redaction)
		if err != nil {
			return nil, fmt.Errorf("failed to create redaction rules: %w", err)
		}
		otelCore := otelzap.NewCore(cfg.serviceName(),
			otelzap.WithLoggerProvider(otelProvider),
		)
		cores = append(cores, &redactingCore{
			Core:  &levelFilterCore{Core: otelCore, minLevel: cfg.Level, hasMin: true},
			rules: scrubber,
		})
	}

	if len(cores) == 0 {
		return nil, fmt.Errorf("at least one output must be enabled and available")
	}

	var core zapcore.Core
	if len(cores) == 1 {
		core = cores[0]
	} else {
		core = zapcore.NewTee(cores...)
	}

	return newSampledCore(core, cfg.Sampling), nil
}

// redactingCore scrubs fields before they reach a core whose encoder we do
// not control.
type redactingCore struct {
	zapcore.Core
	rules *RedactingEncoder
}

func (c *redactingCore) With(fields []zapcore.Field) zapcore.Core {
	return &redactingCore{Core: c.Core.With(c.rules.redactFields(fields)), rules: c.rules}
}

func (c *redactingCore) Check(e zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(e.Level) {
		return ce.AddCore(e, c)
	}
	return ce
}

func (c *redactingCore) Write(e zapcore.Entry, fields []zapcore.Field) error {
	e.Message = c.rules.redactValue(e.Message)
	return c.Core.Write(e, c.rules.redactFields(fields))
}
