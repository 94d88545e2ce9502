package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withHome points the user config directory at a temp dir.
func withHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	dir := filepath.Join(home, ".config", "payplan")
	require.NoError(t, os.MkdirAll(dir, 0700))
	return dir
}

func writeConfig(t *testing.T, path, content string, perm os.FileMode) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), perm))
	require.NoError(t, os.Chmod(path, perm))
}

func TestLoadWithFile_MissingFileUsesDefaults(t *testing.T) {
	dir := withHome(t)

	cfg, err := LoadWithFile(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadWithFile_FileOverridesDefaults(t *testing.T) {
	dir := withHome(t)
	path := filepath.Join(dir, "config.yaml")
	writeConfig(t, path, `
extraction:
  default_locale: EU
  default_timezone: Europe/Berlin
cache:
  ttl: 30s
server:
  http_port: 9090
`, 0600)

	cfg, err := LoadWithFile(path)
	require.NoError(t, err)
	assert.Equal(t, "EU", cfg.Extraction.DefaultLocale)
	assert.Equal(t, "Europe/Berlin", cfg.Extraction.DefaultTimezone)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL.Duration())
	assert.Equal(t, 9090, cfg.Server.Port)
	// Untouched values keep their defaults.
	assert.Equal(t, 100, cfg.Cache.Capacity)
}

func TestLoadWithFile_EnvOverridesFile(t *testing.T) {
	dir := withHome(t)
	path := filepath.Join(dir, "config.yaml")
	writeConfig(t, path, "server:\n  http_port: 9090\n", 0600)

	t.Setenv("PAYPLAN_SERVER_HTTP_PORT", "9191")
	t.Setenv("PAYPLAN_CACHE_TTL", "2m")
	t.Setenv("PAYPLAN_EXTRACTION_MAX_INPUT_CHARS", "500")

	cfg, err := LoadWithFile(path)
	require.NoError(t, err)
	assert.Equal(t, 9191, cfg.Server.Port)
	assert.Equal(t, 2*time.Minute, cfg.Cache.TTL.Duration())
	assert.Equal(t, 500, cfg.Extraction.MaxInputChars)
}

func TestLoadWithFile_DefaultPath(t *testing.T) {
	dir := withHome(t)
	writeConfig(t, filepath.Join(dir, "config.yaml"), "logging:\n  level: debug\n", 0600)

	cfg, err := LoadWithFile("")
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadWithFile_RejectsPathOutsideConfigDir(t *testing.T) {
	withHome(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeConfig(t, path, "logging:\n  level: debug\n", 0600)

	_, err := LoadWithFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config path validation failed")
}

func TestLoadWithFile_RejectsSiblingPrefixDir(t *testing.T) {
	dir := withHome(t)
	sibling := dir + "-evil"
	require.NoError(t, os.MkdirAll(sibling, 0700))
	path := filepath.Join(sibling, "config.yaml")
	writeConfig(t, path, "logging:\n  level: debug\n", 0600)

	_, err := LoadWithFile(path)
	assert.Error(t, err)
}

func TestLoadWithFile_RejectsInsecurePermissions(t *testing.T) {
	dir := withHome(t)
	path := filepath.Join(dir, "config.yaml")
	writeConfig(t, path, "logging:\n  level: debug\n", 0644)

	_, err := LoadWithFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insecure config file permissions")
}

func TestLoadWithFile_InvalidValues(t *testing.T) {
	dir := withHome(t)
	path := filepath.Join(dir, "config.yaml")
	writeConfig(t, path, "extraction:\n  default_locale: JP\n", 0600)

	_, err := LoadWithFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config validation failed")
}

func TestLoadWithFile_MalformedYAML(t *testing.T) {
	dir := withHome(t)
	path := filepath.Join(dir, "config.yaml")
	writeConfig(t, path, "server: [unterminated\n", 0600)

	_, err := LoadWithFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "server.http_port", envKey("PAYPLAN_SERVER_HTTP_PORT"))
	assert.Equal(t, "cache.ttl", envKey("PAYPLAN_CACHE_TTL"))
	assert.Equal(t, "debug", envKey("PAYPLAN_DEBUG"))
}

func TestEnsureConfigDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	require.NoError(t, EnsureConfigDir())
	info, err := os.Stat(filepath.Join(home, ".config", "payplan"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
