// Package dates turns the due-date text found in BNPL emails into a validated
// calendar date anchored in the user's IANA time zone.
//
// Numeric slash dates are ambiguous: "03/04/2026" is March 4 under LocaleUS
// and April 3 under LocaleEU. ISO dates and dates with a month name are read
// the same under both locales.
//
// Calendar validity is checked against an explicit days-per-month table, so
// "02/30/2026" is rejected instead of rolling over into March. Dates far in
// the past or future are rejected as suspicious (see Options).
package dates
