package extraction

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/fyrsmithlabs/payplan/internal/dates"
	"github.com/fyrsmithlabs/payplan/internal/provider"
)

var (
	currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)

	currencySymbols = map[string]string{
		"$": "USD",
		"€": "EUR",
		"£": "GBP",
	}

	ordinalWords = map[string]int{
		"first": 1, "second": 2, "third": 3,
		"fourth": 4, "fifth": 5, "sixth": 6,
	}

	autopayOff = regexp.MustCompile(`(?i)` +
		`auto\s?-?pay(?:ment)?s?\s+(?:is\s+|are\s+)?(?:off|disabled|not\s+(?:on|enabled|set\s+up|active))\b` +
		`|automatic\s+payments?\s+(?:is\s+|are\s+)?(?:off|disabled|not\s+(?:on|enabled|set\s+up))\b` +
		`|(?:turn(?:ed)?|switch(?:ed)?)\s+off\s+auto\s?-?pay` +
		`|\bno\s+auto\s?-?pay\b` +
		`|(?:need|have)\s+to\s+(?:pay|make\s+(?:this|the|your)\s+payment)\s+manually`)

	autopayOn = regexp.MustCompile(`(?i)` +
		`auto\s?-?pay(?:ment)?s?\s+(?:is\s+|are\s+)?(?:on|enabled|active|set\s+up|turned\s+on)\b` +
		`|automatic\s+payments?\s+(?:is\s+|are\s+)?(?:on|enabled|active|set\s+up)\b` +
		`|we(?:'ll|’ll|\s+will)\s+automatically\s+(?:charge|debit|collect)` +
		`|(?:charge|debit|collect)[^.\n]{0,40}\bautomatically\b` +
		`|will\s+be\s+(?:automatically\s+)?(?:charged|debited|collected)\s+automatically`)
)

// Amount is a parsed money value.
type Amount struct {
	Cents    int64
	Currency string
	Raw      string
}

func group(re *regexp.Regexp, m []string, name string) string {
	i := re.SubexpIndex(name)
	if i < 0 || i >= len(m) {
		return ""
	}
	return strings.TrimSpace(m[i])
}

// ExtractAmount returns the first positive amount matched by patterns, in
// order. The currency comes from a symbol or ISO code next to the number,
// else defaultCurrency.
func ExtractAmount(text string, patterns []*regexp.Regexp, defaultCurrency string) (Amount, error) {
	for _, re := range patterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			raw := group(re, m, provider.GroupAmount)
			if raw == "" {
				continue
			}
			cents, ok := toCents(raw)
			if !ok {
				continue
			}
			cur := currencyOf(group(re, m, provider.GroupCurrency), group(re, m, provider.GroupCode), defaultCurrency)
			if cur == "" {
				continue
			}
			return Amount{Cents: cents, Currency: cur, Raw: strings.TrimSpace(m[0])}, nil
		}
	}
	return Amount{}, ErrAmountNotFound
}

var maxCents = decimal.NewFromInt(math.MaxInt64)

// toCents parses a decimal literal with optional thousands separators and at
// most two decimal digits. Values that do not fit in int64 cents are rejected.
func toCents(raw string) (int64, bool) {
	d, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", ""))
	if err != nil || !d.IsPositive() {
		return 0, false
	}
	cents := d.Shift(2)
	if !cents.Equal(cents.Truncate(0)) || cents.GreaterThan(maxCents) {
		return 0, false
	}
	return cents.IntPart(), true
}

func currencyOf(symbol, code, fallback string) string {
	for _, c := range []string{code, symbol} {
		c = strings.ToUpper(strings.TrimSpace(c))
		if c == "" {
			continue
		}
		if iso, ok := currencySymbols[c]; ok {
			return iso
		}
		if currencyPattern.MatchString(c) {
			return c
		}
	}
	if currencyPattern.MatchString(fallback) {
		return fallback
	}
	return ""
}

// ExtractDueDate parses the date captured by the first matching pattern.
// A match that does not parse is an error; it does not fall through to
// later patterns.
func ExtractDueDate(text string, patterns []*regexp.Regexp, tz string, opts dates.Options) (dates.Result, error) {
	for _, re := range patterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		raw := group(re, m, provider.GroupDate)
		if raw == "" {
			continue
		}
		return dates.Parse(raw, tz, opts)
	}
	return dates.Result{}, ErrDueDateNotFound
}

// ExtractInstallmentNumber returns the installment number stated in text.
// A final-payment phrase yields the declared plan length.
func ExtractInstallmentNumber(text string, p *provider.Profile) (int, error) {
	for _, re := range p.Installment {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			n := atoi(group(re, m, provider.GroupNumber))
			if n == 0 {
				n = ordinalWords[strings.ToLower(group(re, m, provider.GroupOrdinal))]
			}
			if n <= 0 {
				continue
			}
			if total := atoi(group(re, m, provider.GroupTotal)); total > 0 && n > total {
				continue
			}
			return n, nil
		}
	}

	for _, re := range p.FinalPayment {
		if re.MatchString(text) {
			return DeclaredTotal(text, p), nil
		}
	}
	return 0, ErrInstallmentNotFound
}

// DeclaredTotal returns the plan length stated in text, else the profile default.
func DeclaredTotal(text string, p *provider.Profile) int {
	for _, re := range p.Total {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			if total := atoi(group(re, m, provider.GroupTotal)); total > 0 && total <= 48 {
				return total
			}
		}
	}
	return p.DefaultTotal
}

// DetectAutopay scans for an explicit autopay statement. Disabling phrases
// win over enabling ones. found is false when neither appears.
func DetectAutopay(text string) (on, found bool) {
	if autopayOff.MatchString(text) {
		return false, true
	}
	if autopayOn.MatchString(text) {
		return true, true
	}
	return false, false
}

// ExtractLateFee returns the late fee in cents, or 0 when none is stated.
func ExtractLateFee(text string, patterns []*regexp.Regexp) int64 {
	for _, re := range patterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if cents, ok := toCents(group(re, m, provider.GroupAmount)); ok {
			return cents
		}
	}
	return 0
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
