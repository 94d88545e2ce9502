package logging

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"

	"github.com/fyrsmithlabs/payplan/internal/redact"
)

// Redacted logs a scrubbed, truncated preview of pasted text.
func Redacted(key string, val redact.Redacted) zap.Field {
	return zap.String(key, redact.SafePreview(redact.Scrub(redact.Unredact(val))))
}

// Masked logs only the length of val.
func Masked(key string, val redact.Redacted) zap.Field {
	return zap.String(key, redact.Masked(val))
}

// RedactedString creates a Zap field with redacted value and length.
func RedactedString(key, val string) zap.Field {
	return zap.String(key, "[REDACTED:"+strconv.Itoa(len(val))+"]")
}

// RedactingEncoder wraps a zapcore.Encoder to redact sensitive fields.
// Keys listed in the config are replaced outright. String values have PII
// and configured patterns masked in place.
type RedactingEncoder struct {
	zapcore.Encoder
	enabled     bool
	redactKeys  map[string]bool
	redactRegex []*regexp.Regexp
	pii         []redact.Pattern
}

// NewRedactingEncoder wraps an encoder with redaction rules.
// Returns error if any redaction pattern fails to compile.
func NewRedactingEncoder(base zapcore.Encoder, cfg RedactionConfig) (*RedactingEncoder, error) {
	if !cfg.Enabled {
		return &RedactingEncoder{Encoder: base}, nil
	}

	fields := make(map[string]bool, len(cfg.Fields))
	for _, f := range cfg.Fields {
		fields[strings.ToLower(f)] = true
	}

	var patterns []*regexp.Regexp
	for _, p := range cfg.Patterns {
		if len(p) > 200 {
			return nil, fmt.Errorf("redaction pattern too long (max 200 chars): %q", p)
		}
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid redaction pattern %q: %w", p, err)
		}
		patterns = append(patterns, re)
	}

	enc := &RedactingEncoder{
		Encoder:     base,
		enabled:     true,
		redactKeys:  fields,
		redactRegex: patterns,
	}
	if cfg.PII {
		enc.pii = redact.DefaultPatterns()
	}
	return enc, nil
}

// correlationKeys hold generated identifiers that can look like account
// numbers but never carry user data.
var correlationKeys = map[string]bool{
	"trace_id":   true,
	"span_id":    true,
	"request.id": true,
	"item.id":    true,
	"cache.key":  true,
}

func (e *RedactingEncoder) shouldRedactKey(key string) bool {
	return e.redactKeys[strings.ToLower(key)]
}

func (e *RedactingEncoder) redactValue(val string) string {
	if !e.enabled {
		return val
	}
	val = redact.RedactPatterns(val, e.pii)
	for _, re := range e.redactRegex {
		val = re.ReplaceAllLiteralString(val, redact.Replacement)
	}
	return val
}

// redactFields returns a copy of fields with sensitive keys and values
// replaced. Fields are only copied when something changes.
func (e *RedactingEncoder) redactFields(fields []zapcore.Field) []zapcore.Field {
	if !e.enabled || len(fields) == 0 {
		return fields
	}
	out := fields
	copied := false
	for i, f := range fields {
		r, changed := e.redactField(f)
		if !changed {
			continue
		}
		if !copied {
			out = make([]zapcore.Field, len(fields))
			copy(out, fields)
			copied = true
		}
		out[i] = r
	}
	return out
}

func (e *RedactingEncoder) redactField(f zapcore.Field) (zapcore.Field, bool) {
	if f.Type == zapcore.SkipType {
		return f, false
	}
	if e.shouldRedactKey(f.Key) {
		return zap.String(f.Key, redact.Replacement), true
	}
	if correlationKeys[f.Key] {
		return f, false
	}
	switch f.Type {
	case zapcore.StringType:
		if v := e.redactValue(f.String); v != f.String {
			f.String = v
			return f, true
		}
	case zapcore.ErrorType:
		if err, ok := f.Interface.(error); ok && err != nil {
			msg := err.Error()
			if v := e.redactValue(msg); v != msg {
				return zap.String(f.Key, v), true
			}
		}
	}
	return f, false
}

// EncodeEntry redacts the message and per-call fields before encoding.
func (e *RedactingEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	ent.Message = e.redactValue(ent.Message)
	return e.Encoder.EncodeEntry(ent, e.redactFields(fields))
}

// AddString redacts sensitive field names and value patterns.
func (e *RedactingEncoder) AddString(key, val string) {
	if e.shouldRedactKey(key) {
		e.Encoder.AddString(key, redact.Replacement)
		return
	}
	if correlationKeys[key] {
		e.Encoder.AddString(key, val)
		return
	}
	e.Encoder.AddString(key, e.redactValue(val))
}

// AddByteString redacts sensitive field names.
func (e *RedactingEncoder) AddByteString(key string, val []byte) {
	if e.shouldRedactKey(key) {
		e.Encoder.AddByteString(key, []byte(redact.Replacement))
		return
	}
	e.Encoder.AddByteString(key, val)
}

// AddBinary redacts sensitive field names.
func (e *RedactingEncoder) AddBinary(key string, val []byte) {
	if e.shouldRedactKey(key) {
		e.Encoder.AddString(key, redact.Replacement)
		return
	}
	e.Encoder.AddBinary(key, val)
}

// AddReflected redacts the whole value when the key is sensitive. Values
// inside reflected structs are not inspected.
func (e *RedactingEncoder) AddReflected(key string, val interface{}) error {
	if e.shouldRedactKey(key) {
		e.Encoder.AddString(key, redact.Replacement)
		return nil
	}
	return e.Encoder.AddReflected(key, val)
}

// AddArray redacts sensitive field names.
func (e *RedactingEncoder) AddArray(key string, arr zapcore.ArrayMarshaler) error {
	if e.shouldRedactKey(key) {
		e.Encoder.AddString(key, redact.Replacement)
		return nil
	}
	return e.Encoder.AddArray(key, arr)
}

// AddObject redacts sensitive field names.
func (e *RedactingEncoder) AddObject(key string, obj zapcore.ObjectMarshaler) error {
	if e.shouldRedactKey(key) {
		e.Encoder.AddString(key, redact.Replacement)
		return nil
	}
	return e.Encoder.AddObject(key, obj)
}

// Clone creates a copy of the encoder.
func (e *RedactingEncoder) Clone() zapcore.Encoder {
	return &RedactingEncoder{
		Encoder:     e.Encoder.Clone(),
		enabled:     e.enabled,
		redactKeys:  e.redactKeys,
		redactRegex: e.redactRegex,
		pii:         e.pii,
	}
}
