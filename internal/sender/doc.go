// Package sender validates the sender domain of a pasted email against the
// domains a BNPL provider is known to send from.
//
// Validation is two checks composed:
//   - IsAllowed: the domain equals an allowed domain or is a subdomain of one
//     on a dot boundary. "fooklarna.com" and "klarna.com.evil.com" fail.
//   - IsSuspicious: the domain shows a spoofing signal even if it passed the
//     allowlist (low-reputation TLD, provider brand used as a subdomain label
//     of another registrable domain, homograph characters, empty domain).
//
// This is a heuristic guard against copy-pasted phishing mail, not sender
// authentication; SPF and DKIM are out of reach for pasted text.
package sender
