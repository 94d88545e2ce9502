// Package config loads payplan configuration.
//
// Values come from built-in defaults, then an optional YAML file, then
// PAYPLAN_-prefixed environment variables. Sender allowlist extensions live
// in a separate TOML file that can be reloaded while serving.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fyrsmithlabs/payplan/internal/dates"
)

// Config holds the complete payplan configuration.
type Config struct {
	Extraction ExtractionConfig `koanf:"extraction"`
	Dates      DatesConfig      `koanf:"dates"`
	Cache      CacheConfig      `koanf:"cache"`
	Sender     SenderConfig     `koanf:"sender"`
	Redaction  RedactionConfig  `koanf:"redaction"`
	Server     ServerConfig     `koanf:"server"`
	Logging    LoggingConfig    `koanf:"logging"`
	Telemetry  TelemetryConfig  `koanf:"telemetry"`
}

// ExtractionConfig holds pipeline settings.
type ExtractionConfig struct {
	MaxInputChars          int     `koanf:"max_input_chars"`
	LowConfidenceThreshold float64 `koanf:"low_confidence_threshold"`
	DefaultTimezone        string  `koanf:"default_timezone"`
	DefaultLocale          string  `koanf:"default_locale"`
	StripHTML              bool    `koanf:"strip_html"`
}

// DatesConfig bounds accepted due dates relative to today.
type DatesConfig struct {
	PastWindow   Duration `koanf:"past_window"`
	FutureWindow Duration `koanf:"future_window"`
}

// CacheConfig holds extraction cache settings.
type CacheConfig struct {
	Enabled  bool     `koanf:"enabled"`
	Capacity int      `koanf:"capacity"`
	TTL      Duration `koanf:"ttl"`
}

// SenderConfig holds sender validation settings.
type SenderConfig struct {
	// AllowlistFile is a TOML file adding sender domains per provider.
	AllowlistFile string `koanf:"allowlist_file"`
	// SuspiciousTLDs replaces the built-in low-reputation TLD list when set.
	SuspiciousTLDs []string `koanf:"suspicious_tlds"`
}

// RedactionConfig controls Issue snippet scrubbing.
type RedactionConfig struct {
	// CredentialScan also removes API keys and tokens found by gitleaks rules.
	CredentialScan bool `koanf:"credential_scan"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string   `koanf:"host"`
	Port            int      `koanf:"http_port"`
	ShutdownTimeout Duration `koanf:"shutdown_timeout"`
	// RateLimit is requests per second per client IP. Zero disables limiting.
	RateLimit float64 `koanf:"rate_limit"`
	RateBurst int     `koanf:"rate_burst"`
	// BodyLimit is an echo size string such as "64K".
	BodyLimit string `koanf:"body_limit"`
}

// LoggingConfig selects the log level and encoding.
type LoggingConfig struct {
	Level    string `koanf:"level"`
	Format   string `koanf:"format"`
	Sampling bool   `koanf:"sampling"`
}

// TelemetryConfig holds OpenTelemetry export settings.
type TelemetryConfig struct {
	Enabled     bool    `koanf:"enabled"`
	Endpoint    string  `koanf:"endpoint"`
	Protocol    string  `koanf:"protocol"`
	Insecure    bool    `koanf:"insecure"`
	ServiceName string  `koanf:"service_name"`
	SampleRate  float64 `koanf:"sample_rate"`
}

// Locale returns the configured default date locale.
func (c ExtractionConfig) Locale() dates.Locale {
	l, err := dates.ParseLocale(c.DefaultLocale)
	if err != nil {
		return dates.LocaleUS
	}
	return l
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	var errs []error

	if c.Extraction.MaxInputChars <= 0 {
		errs = append(errs, fmt.Errorf("extraction.max_input_chars must be positive, got %d", c.Extraction.MaxInputChars))
	}
	if t := c.Extraction.LowConfidenceThreshold; t <= 0 || t > 1 {
		errs = append(errs, fmt.Errorf("extraction.low_confidence_threshold must be in (0,1], got %v", t))
	}
	if _, err := dates.ParseLocale(c.Extraction.DefaultLocale); err != nil {
		errs = append(errs, fmt.Errorf("extraction.default_locale: %w", err))
	}
	if _, err := dates.LoadLocation(c.Extraction.DefaultTimezone); err != nil {
		errs = append(errs, fmt.Errorf("extraction.default_timezone: %w", err))
	}

	if c.Dates.PastWindow.Duration() <= 0 || c.Dates.FutureWindow.Duration() <= 0 {
		errs = append(errs, errors.New("dates windows must be positive"))
	}

	if c.Cache.Enabled {
		if c.Cache.Capacity <= 0 {
			errs = append(errs, fmt.Errorf("cache.capacity must be positive, got %d", c.Cache.Capacity))
		}
		if c.Cache.TTL.Duration() <= 0 {
			errs = append(errs, errors.New("cache.ttl must be positive"))
		}
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid server port: %d (must be 1-65535)", c.Server.Port))
	}
	if c.Server.ShutdownTimeout.Duration() <= 0 {
		errs = append(errs, errors.New("shutdown timeout must be positive"))
	}
	if c.Server.RateLimit < 0 || c.Server.RateBurst < 0 {
		errs = append(errs, errors.New("rate limit and burst must not be negative"))
	}

	switch c.Logging.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("logging.format must be 'json' or 'console', got %q", c.Logging.Format))
	}

	if c.Telemetry.Enabled {
		if c.Telemetry.ServiceName == "" {
			errs = append(errs, errors.New("service name required when telemetry is enabled"))
		}
		switch strings.ToLower(c.Telemetry.Protocol) {
		case "grpc", "http":
		default:
			errs = append(errs, fmt.Errorf("telemetry.protocol must be 'grpc' or 'http', got %q", c.Telemetry.Protocol))
		}
	}

	return errors.Join(errs...)
}
