package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, zapcore.InfoLevel, cfg.Level)
	assert.Equal(t, "json", cfg.Format)
	assert.True(t, cfg.Output.Stdout)
	assert.False(t, cfg.Output.OTEL)
	assert.True(t, cfg.Sampling.Enabled)
	assert.Equal(t, "payplan", cfg.Fields["service"])
	assert.True(t, cfg.Redaction.PII)
	assert.Contains(t, cfg.Redaction.Fields, "text")
	require.NoError(t, cfg.Validate())
}

func TestFromSettings(t *testing.T) {
	cfg, err := FromSettings("trace", "console", false)
	require.NoError(t, err)
	assert.Equal(t, TraceLevel, cfg.Level)
	assert.Equal(t, "console", cfg.Format)
	assert.False(t, cfg.Sampling.Enabled)

	_, err = FromSettings("loud", "json", true)
	assert.Error(t, err)

	_, err = FromSettings("info", "xml", true)
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"bad format", func(c *Config) { c.Format = "logfmt" }, "format must be"},
		{"no outputs", func(c *Config) { c.Output.Stdout = false }, "at least one output"},
		{"zero tick", func(c *Config) { c.Sampling.Tick = 0 }, "sampling tick"},
		{"negative skip", func(c *Config) { c.Caller.Skip = -1 }, "caller skip"},
		{"bad pattern", func(c *Config) { c.Redaction.Patterns = []string{"(unclosed"} }, "invalid redaction pattern"},
		{"empty field key", func(c *Config) { c.Fields[""] = "x" }, "field key cannot be empty"},
		{"empty field value", func(c *Config) { c.Fields["env"] = "" }, "empty value"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_ServiceName(t *testing.T) {
	cfg := NewDefaultConfig()
	assert.Equal(t, "payplan", cfg.serviceName())

	cfg.Fields = nil
	assert.Equal(t, "payplan", cfg.serviceName())

	cfg.Fields = map[string]string{"service": "payplan-worker"}
	assert.Equal(t, "payplan-worker", cfg.serviceName())
}
