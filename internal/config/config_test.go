package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/payplan/internal/dates"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 16000, cfg.Extraction.MaxInputChars)
	assert.Equal(t, 0.6, cfg.Extraction.LowConfidenceThreshold)
	assert.Equal(t, "UTC", cfg.Extraction.DefaultTimezone)
	assert.Equal(t, dates.LocaleUS, cfg.Extraction.Locale())
	assert.True(t, cfg.Extraction.StripHTML)

	assert.Equal(t, 30*24*time.Hour, cfg.Dates.PastWindow.Duration())
	assert.Equal(t, 730*24*time.Hour, cfg.Dates.FutureWindow.Duration())

	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, 100, cfg.Cache.Capacity)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL.Duration())

	assert.Equal(t, 8085, cfg.Server.Port)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout.Duration())
	assert.Equal(t, "64K", cfg.Server.BodyLimit)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.False(t, cfg.Telemetry.Enabled)
	assert.Equal(t, "payplan", cfg.Telemetry.ServiceName)

	require.NoError(t, cfg.Validate())
}

func TestExtractionConfig_Locale(t *testing.T) {
	assert.Equal(t, dates.LocaleEU, ExtractionConfig{DefaultLocale: "EU"}.Locale())
	assert.Equal(t, dates.LocaleUS, ExtractionConfig{DefaultLocale: ""}.Locale())
	assert.Equal(t, dates.LocaleUS, ExtractionConfig{DefaultLocale: "XX"}.Locale())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"zero max input", func(c *Config) { c.Extraction.MaxInputChars = 0 }, "max_input_chars"},
		{"threshold above one", func(c *Config) { c.Extraction.LowConfidenceThreshold = 1.5 }, "low_confidence_threshold"},
		{"bad locale", func(c *Config) { c.Extraction.DefaultLocale = "JP" }, "default_locale"},
		{"bad timezone", func(c *Config) { c.Extraction.DefaultTimezone = "Mars/Base" }, "default_timezone"},
		{"zero window", func(c *Config) { c.Dates.PastWindow = 0 }, "dates windows"},
		{"zero cache capacity", func(c *Config) { c.Cache.Capacity = 0 }, "cache.capacity"},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, "invalid server port"},
		{"negative rate", func(c *Config) { c.Server.RateLimit = -1 }, "rate limit"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"bad protocol", func(c *Config) {
			c.Telemetry.Enabled = true
			c.Telemetry.Protocol = "udp"
		}, "telemetry.protocol"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_DisabledCacheIgnoresCapacity(t *testing.T) {
	cfg := Default()
	cfg.Cache.Enabled = false
	cfg.Cache.Capacity = 0
	assert.NoError(t, cfg.Validate())
}

func TestDuration_UnmarshalText(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalText([]byte("90s")))
	assert.Equal(t, 90*time.Second, d.Duration())

	assert.Error(t, d.UnmarshalText([]byte("-1s")))
	assert.Error(t, d.UnmarshalText([]byte("soon")))

	text, err := Duration(time.Minute).MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "1m0s", string(text))
}
