package provider

import (
	"fmt"
	"strings"
)

// ID identifies a supported provider. The zero value is Unknown.
type ID int

const (
	Unknown ID = iota
	Klarna
	Affirm
	Afterpay
	PayPal
	Zip
	Sezzle
)

// priority is the tie-break order used by detection.
var priority = []ID{Klarna, Affirm, Afterpay, PayPal, Zip, Sezzle}

// All returns the known providers in detection priority order.
func All() []ID {
	out := make([]ID, len(priority))
	copy(out, priority)
	return out
}

// String returns the display name of the provider.
func (id ID) String() string {
	switch id {
	case Klarna:
		return "Klarna"
	case Affirm:
		return "Affirm"
	case Afterpay:
		return "Afterpay"
	case PayPal:
		return "PayPal"
	case Zip:
		return "Zip"
	case Sezzle:
		return "Sezzle"
	case Unknown:
		return "Unknown"
	}
	return fmt.Sprintf("ID(%d)", int(id))
}

// Key returns the lowercase config key of the provider ("klarna").
func (id ID) Key() string {
	return strings.ToLower(id.String())
}

// Valid reports whether id is a known provider.
func (id ID) Valid() bool {
	_, ok := ProfileFor(id)
	return ok
}

// Parse resolves a provider name or config key, case-insensitively.
func Parse(name string) (ID, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, id := range priority {
		if id.Key() == name {
			return id, true
		}
	}
	return Unknown, false
}

// MarshalText encodes the provider as its display name.
func (id ID) MarshalText() ([]byte, error) {
	if !id.Valid() {
		return nil, fmt.Errorf("unknown provider id %d", int(id))
	}
	return []byte(id.String()), nil
}

// UnmarshalText decodes a provider name.
func (id *ID) UnmarshalText(b []byte) error {
	parsed, ok := Parse(string(b))
	if !ok {
		return fmt.Errorf("unknown provider %q", string(b))
	}
	*id = parsed
	return nil
}
