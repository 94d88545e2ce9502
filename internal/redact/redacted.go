package redact

import (
	"encoding/json"
	"fmt"
	"unicode/utf8"
)

const (
	// PreviewLength is the number of characters SafePreview reveals.
	PreviewLength = 100

	// PreviewSuffix is appended by SafePreview when the text was cut.
	PreviewSuffix = "... [redacted]"
)

// Redacted wraps text that has been through a redaction boundary.
// The zero value wraps the empty string.
type Redacted struct {
	s string
}

// Redact wraps raw text. It does not scrub anything; pair it with
// RedactPatterns when the text may contain PII.
func Redact(raw string) Redacted {
	return Redacted{s: raw}
}

// Unredact returns the wrapped text. Every call site is a place where the
// wrapped text leaves the redaction boundary, so keep them few.
func Unredact(r Redacted) string {
	return r.s
}

// Len returns the length of the wrapped text in characters.
func (r Redacted) Len() int {
	return utf8.RuneCountInString(r.s)
}

// SafePreview returns the first PreviewLength characters, followed by
// PreviewSuffix when the wrapped text was longer.
func SafePreview(r Redacted) string {
	if utf8.RuneCountInString(r.s) <= PreviewLength {
		return r.s
	}
	n := 0
	for i := range r.s {
		if n == PreviewLength {
			return r.s[:i] + PreviewSuffix
		}
		n++
	}
	return r.s
}

// Masked returns a placeholder that reveals only the length.
func Masked(r Redacted) string {
	return fmt.Sprintf("[REDACTED: %d chars]", r.Len())
}

// String implements fmt.Stringer. Always masked.
func (r Redacted) String() string {
	return Masked(r)
}

// GoString implements fmt.GoStringer for %#v formatting.
func (r Redacted) GoString() string {
	return "redact.Redacted(" + Masked(r) + ")"
}

// MarshalJSON implements json.Marshaler. Always masked.
func (r Redacted) MarshalJSON() ([]byte, error) {
	return json.Marshal(Masked(r))
}
