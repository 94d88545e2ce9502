package sender

import (
	"net/mail"
	"strings"
)

// ExtractDomain returns the lowercased domain after "@" in addr.
// addr may be a bare address or a display form like `Klarna <no-reply@klarna.com>`.
func ExtractDomain(addr string) (string, bool) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return "", false
	}
	if parsed, err := mail.ParseAddress(addr); err == nil {
		addr = parsed.Address
	}

	at := strings.LastIndex(addr, "@")
	if at <= 0 || at == len(addr)-1 {
		return "", false
	}
	domain := strings.ToLower(strings.TrimSpace(addr[at+1:]))
	domain = strings.TrimSuffix(domain, ".")
	if domain == "" || strings.ContainsAny(domain, " \t<>@") || !strings.Contains(domain, ".") {
		return "", false
	}
	if strings.HasPrefix(domain, ".") || strings.Contains(domain, "..") {
		return "", false
	}
	return domain, true
}

// IsAllowed reports whether domain equals an allowed entry or is a subdomain
// of one on a dot boundary.
func IsAllowed(domain string, allowed []string) bool {
	domain = strings.ToLower(strings.TrimSuffix(domain, "."))
	if domain == "" {
		return false
	}
	for _, a := range allowed {
		a = strings.ToLower(strings.TrimSuffix(a, "."))
		if a == "" {
			continue
		}
		if domain == a || strings.HasSuffix(domain, "."+a) {
			return true
		}
	}
	return false
}
