package redact

import (
	"regexp"
)

// Replacement is the literal written over every pattern match.
const Replacement = "[REDACTED]"

// Pattern is a named PII detection rule.
type Pattern struct {
	// ID is the unique identifier for this pattern
	ID string
	// Description explains what this pattern detects
	Description string
	// Regexp matches the text to replace
	Regexp *regexp.Regexp
}

var defaultPatterns = []Pattern{
	{
		ID:          "email",
		Description: "Email address",
		Regexp:      regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`),
	},
	{
		ID:          "ssn",
		Description: "US Social Security Number",
		Regexp:      regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`),
	},
	// Cards before phones and accounts: 13-19 digits, optionally grouped.
	{
		ID:          "card",
		Description: "Payment card number",
		Regexp:      regexp.MustCompile(`\b\d{4}(?:[ \-]?\d{4}){2}[ \-]?\d{1,7}\b`),
	},
	{
		ID:          "phone",
		Description: "Phone number",
		Regexp:      regexp.MustCompile(`(?:\+?1[ .\-]?)?(?:\(\d{3}\)|\b\d{3})[ .\-]?\d{3}[ .\-]?\d{4}\b`),
	},
	{
		ID:          "account",
		Description: "Account number (8+ digits)",
		Regexp:      regexp.MustCompile(`\b\d{8,}\b`),
	},
}

// DefaultPatterns returns the PII patterns in the order they must be applied.
func DefaultPatterns() []Pattern {
	out := make([]Pattern, len(defaultPatterns))
	copy(out, defaultPatterns)
	return out
}

// CompilePattern builds a Pattern from a user-supplied expression.
func CompilePattern(id, expr string) (Pattern, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return Pattern{}, err
	}
	return Pattern{ID: id, Regexp: re}, nil
}

// RedactPatterns replaces every match of each pattern with Replacement.
// Patterns run in order; later patterns see the output of earlier ones.
func RedactPatterns(text string, patterns []Pattern) string {
	for _, p := range patterns {
		if p.Regexp == nil {
			continue
		}
		text = p.Regexp.ReplaceAllLiteralString(text, Replacement)
	}
	return text
}

// Scrub runs the default patterns over raw and wraps the result.
func Scrub(raw string) Redacted {
	return Redact(RedactPatterns(raw, defaultPatterns))
}
