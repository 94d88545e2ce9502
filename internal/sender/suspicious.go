package sender

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/idna"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/text/unicode/norm"
)

// DefaultSuspiciousTLDs are low-reputation TLDs common in phishing campaigns.
var DefaultSuspiciousTLDs = []string{
	"tk", "ml", "ga", "cf", "gq", "xyz", "top", "click", "work",
	"zip", "mov", "country", "loan", "icu", "buzz", "rest",
}

// Brand is a provider name that must not appear as a subdomain label of a
// registrable domain the provider does not own.
type Brand struct {
	// Tokens are lowercase labels that identify the brand ("klarna").
	Tokens []string
	// Domains are the domains the brand legitimately sends from.
	Domains []string
}

// Checker holds the suspicion rules.
type Checker struct {
	tlds   map[string]bool
	brands []Brand
}

// NewChecker builds a Checker. A nil tlds slice means DefaultSuspiciousTLDs.
func NewChecker(tlds []string, brands []Brand) *Checker {
	if tlds == nil {
		tlds = DefaultSuspiciousTLDs
	}
	set := make(map[string]bool, len(tlds))
	for _, tld := range tlds {
		set[strings.ToLower(strings.TrimPrefix(tld, "."))] = true
	}
	return &Checker{tlds: set, brands: brands}
}

// IsSuspicious reports whether domain carries a spoofing signal, and why.
func (c *Checker) IsSuspicious(domain string) (bool, string) {
	domain = strings.ToLower(strings.TrimSuffix(strings.TrimSpace(domain), "."))
	if domain == "" {
		return true, "empty sender domain"
	}

	if reason, ok := homograph(domain); ok {
		return true, reason
	}

	labels := strings.Split(domain, ".")
	if c.tlds[labels[len(labels)-1]] {
		return true, "sender uses a low-reputation top-level domain"
	}

	if brandImpersonation(domain, c.brands) {
		return true, "provider name used as a subdomain of an unrelated domain"
	}

	return false, ""
}

// homograph detects look-alike characters. Punycode labels are decoded first.
func homograph(domain string) (string, bool) {
	decoded, err := idna.Punycode.ToUnicode(domain)
	if err != nil {
		return "sender domain has invalid internationalized labels", true
	}

	if norm.NFKC.String(decoded) != decoded {
		return "sender domain contains compatibility look-alike characters", true
	}

	for _, label := range strings.Split(decoded, ".") {
		if isASCII(label) {
			continue
		}
		var latin, confusable, other bool
		for _, r := range label {
			switch {
			case r < utf8.RuneSelf:
				if unicode.IsLetter(r) {
					latin = true
				}
			case unicode.In(r, unicode.Cyrillic, unicode.Greek, unicode.Armenian):
				confusable = true
			case unicode.Is(unicode.Latin, r):
				// Accented Latin next to plain ASCII is a classic substitution.
				confusable = true
			case unicode.IsLetter(r):
				other = true
			}
		}
		if confusable || (latin && other) {
			return "sender domain mixes scripts (possible homograph)", true
		}
	}
	return "", false
}

// brandImpersonation reports whether a brand token appears in the subdomain
// part of domain while the registrable domain is not one of the brand's.
func brandImpersonation(domain string, brands []Brand) bool {
	registrable, err := publicsuffix.EffectiveTLDPlusOne(domain)
	if err != nil || registrable == domain {
		return false
	}
	sub := strings.Split(strings.TrimSuffix(domain, "."+registrable), ".")

	for _, b := range brands {
		if !containsBrand(sub, b.Tokens) {
			continue
		}
		if !ownsRegistrable(registrable, b.Domains) {
			return true
		}
	}
	return false
}

func containsBrand(labels, tokens []string) bool {
	for _, label := range labels {
		for _, part := range strings.FieldsFunc(label, func(r rune) bool { return r == '-' || r == '_' }) {
			for _, tok := range tokens {
				if part == tok {
					return true
				}
			}
		}
	}
	return false
}

func ownsRegistrable(registrable string, domains []string) bool {
	for _, d := range domains {
		own, err := publicsuffix.EffectiveTLDPlusOne(strings.ToLower(d))
		if err != nil {
			own = strings.ToLower(d)
		}
		if own == registrable {
			return true
		}
	}
	return false
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
