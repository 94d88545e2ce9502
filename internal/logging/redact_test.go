package logging

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/fyrsmithlabs/payplan/internal/redact"
)

func TestRedacted(t *testing.T) {
	text := "Hi Jane, reach us at help@klarna.com. " + strings.Repeat("x", 200)
	f := Redacted("block_preview", redact.Redact(text))

	assert.Equal(t, zapcore.StringType, f.Type)
	assert.NotContains(t, f.String, "help@klarna.com")
	assert.True(t, strings.HasPrefix(f.String, "Hi Jane, reach us at [REDACTED]."))
	assert.True(t, strings.HasSuffix(f.String, redact.PreviewSuffix))
}

func TestMasked(t *testing.T) {
	f := Masked("text", redact.Redact("secret text"))
	assert.Equal(t, "[REDACTED: 11 chars]", f.String)
}

func TestRedactedString(t *testing.T) {
	f := RedactedString("api_key", "sk-1234567890abcdef")
	assert.Equal(t, "[REDACTED:19]", f.String)
}

func TestNewRedactingEncoder_InvalidPattern(t *testing.T) {
	_, err := NewRedactingEncoder(newEncoder("json"), RedactionConfig{
		Enabled:  true,
		Patterns: []string{"("},
	})
	assert.Error(t, err)

	_, err = NewRedactingEncoder(newEncoder("json"), RedactionConfig{
		Enabled:  true,
		Patterns: []string{strings.Repeat("a", 201)},
	})
	assert.Error(t, err)
}

func TestRedactingEncoder_Fields(t *testing.T) {
	enc, err := NewRedactingEncoder(newEncoder("json"), RedactionConfig{
		Enabled:  true,
		Fields:   []string{"Token"},
		Patterns: []string{`(?i)bearer\s+\S+`},
		PII:      true,
	})
	require.NoError(t, err)

	fields := []zapcore.Field{
		zap.String("token", "abc"),
		zap.String("header", "Bearer abc.def"),
		zap.String("plain", "nothing here"),
		zap.Int("count", 12345678),
		zap.Error(errors.New("555-123-4567 unreachable")),
		zap.String("trace_id", "11112222333344445555666677778888"),
	}
	got := enc.redactFields(fields)

	assert.Equal(t, "[REDACTED]", got[0].String)
	assert.Equal(t, "[REDACTED]", got[1].String)
	assert.Equal(t, "nothing here", got[2].String)
	assert.Equal(t, int64(12345678), got[3].Integer)
	assert.Equal(t, "[REDACTED] unreachable", got[4].String)
	assert.Equal(t, "11112222333344445555666677778888", got[5].String)

	// The caller's slice is untouched.
	assert.Equal(t, "abc", fields[0].String)
}

func TestRedactingEncoder_NoChangeReturnsSameSlice(t *testing.T) {
	enc, err := NewRedactingEncoder(newEncoder("json"), NewDefaultConfig().Redaction)
	require.NoError(t, err)

	fields := []zapcore.Field{zap.String("provider", "Klarna")}
	got := enc.redactFields(fields)
	assert.Equal(t, &fields[0], &got[0])
}

func TestRedactingEncoder_Disabled(t *testing.T) {
	enc, err := NewRedactingEncoder(newEncoder("json"), RedactionConfig{Enabled: false})
	require.NoError(t, err)
	assert.Equal(t, "a@b.co", enc.redactValue("a@b.co"))
}

func TestRedactingEncoder_CloneKeepsRules(t *testing.T) {
	logger, buf := bufferLogger(t, nil)
	child := logger.With(zap.Binary("text", []byte("raw")), zap.Strings("tags", []string{"a"}))
	child.Info(context.Background(), "cloned")

	out := buf.String()
	assert.NotContains(t, out, "cmF3") // base64 of "raw"
	assert.Contains(t, out, `"text":"[REDACTED]"`)
}
