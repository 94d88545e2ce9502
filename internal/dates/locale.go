package dates

import (
	"fmt"
	"strings"
)

// Locale selects how numeric slash dates are read.
type Locale string

const (
	// LocaleUS reads NN/NN/YYYY as MM/DD/YYYY.
	LocaleUS Locale = "US"
	// LocaleEU reads NN/NN/YYYY as DD/MM/YYYY.
	LocaleEU Locale = "EU"
)

// ParseLocale parses "US" or "EU" case-insensitively. Empty means LocaleUS.
func ParseLocale(s string) (Locale, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "US":
		return LocaleUS, nil
	case "EU":
		return LocaleEU, nil
	default:
		return "", fmt.Errorf("unknown date locale %q (want US or EU)", s)
	}
}

// Valid reports whether l is a known locale.
func (l Locale) Valid() bool {
	return l == LocaleUS || l == LocaleEU
}

// OrDefault returns l, or LocaleUS when l is empty or unknown.
func (l Locale) OrDefault() Locale {
	if l.Valid() {
		return l
	}
	return LocaleUS
}
