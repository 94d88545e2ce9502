package redact

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedactPatterns_Defaults(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "email", in: "contact jane.doe+bnpl@example.co.uk now", want: "contact [REDACTED] now"},
		{name: "ssn", in: "ssn 123-45-6789.", want: "ssn [REDACTED]."},
		{name: "card with spaces", in: "card 4111 1111 1111 1111 used", want: "card [REDACTED] used"},
		{name: "card with dashes", in: "card 4111-1111-1111-1111", want: "card [REDACTED]"},
		{name: "card without separators", in: "card 4111111111111111", want: "card [REDACTED]"},
		{name: "phone", in: "call (555) 123-4567 today", want: "call [REDACTED] today"},
		{name: "phone dotted", in: "call 555.123.4567", want: "call [REDACTED]"},
		{name: "account number", in: "acct 12345678", want: "acct [REDACTED]"},
		{name: "short numbers untouched", in: "payment 2 of 4 for $25.00", want: "payment 2 of 4 for $25.00"},
		{name: "iso date untouched", in: "due 2026-03-04", want: "due 2026-03-04"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RedactPatterns(tt.in, DefaultPatterns()))
		})
	}
}

func TestRedactPatterns_AppliedInOrder(t *testing.T) {
	// The second pattern only matches the output of the first.
	first := Pattern{ID: "a", Regexp: regexp.MustCompile(`secret`)}
	second := Pattern{ID: "b", Regexp: regexp.MustCompile(`\[REDACTED\]`)}

	got := RedactPatterns("a secret here", []Pattern{first, second})
	assert.Equal(t, "a [REDACTED] here", got)

	got = RedactPatterns("a secret here", []Pattern{second, first})
	assert.Equal(t, "a [REDACTED] here", got)

	third := Pattern{ID: "c", Regexp: regexp.MustCompile(`a \[`)}
	got = RedactPatterns("a secret here", []Pattern{first, third})
	assert.Equal(t, "[REDACTED]REDACTED] here", got)
}

func TestCompilePattern(t *testing.T) {
	p, err := CompilePattern("order", `ORD-\d+`)
	require.NoError(t, err)
	assert.Equal(t, "order [REDACTED]", RedactPatterns("order ORD-991", []Pattern{p}))

	_, err = CompilePattern("bad", `[invalid`)
	assert.Error(t, err)
}

func TestScrub(t *testing.T) {
	r := Scrub("From: bob@example.com, card 4111 1111 1111 1111")
	assert.Equal(t, "From: [REDACTED], card [REDACTED]", Unredact(r))
}
