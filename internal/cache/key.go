package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/fyrsmithlabs/payplan/internal/extraction"
)

// Key identifies one set of extraction arguments.
type Key string

// KeyFor hashes the normalized input together with the zone and options.
// Line endings and surrounding whitespace do not change the key.
func KeyFor(text, tz string, opts extraction.Options) Key {
	normalized := strings.TrimSpace(strings.ReplaceAll(text, "\r\n", "\n"))

	h := sha256.New()
	h.Write([]byte(normalized))
	h.Write([]byte{0})
	h.Write([]byte(tz))
	h.Write([]byte{0})
	h.Write([]byte(opts.DateLocale.OrDefault()))
	return Key(hex.EncodeToString(h.Sum(nil)))
}
