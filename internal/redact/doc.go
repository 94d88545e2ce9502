// Package redact keeps raw pasted email text apart from text that is safe to
// log or show back to a user.
//
// Raw text becomes a Redacted value only through Redact, and turns back into a
// plain string only through Unredact. Neither direction happens implicitly:
// Redacted formats as a masked placeholder under fmt, JSON and zap.
//
//	r := redact.Redact(redact.RedactPatterns(block, redact.DefaultPatterns()))
//	issue.Snippet = redact.SafePreview(r)
//
// Pattern scrubbing replaces PII (email addresses, SSNs, card numbers, phone
// numbers and long account numbers) with "[REDACTED]". Patterns are applied in
// order and each one sees the output of the previous one.
package redact
