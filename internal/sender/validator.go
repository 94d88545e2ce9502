package sender

// Confidence grades a validation result.
type Confidence string

const (
	ConfidenceHigh Confidence = "high"
	ConfidenceLow  Confidence = "low"
)

// Result is the outcome of validating one sender address.
type Result struct {
	Valid      bool       `json:"isValid"`
	Domain     string     `json:"domain,omitempty"`
	Confidence Confidence `json:"confidence"`
	Reason     string     `json:"reason"`
}

// Validator composes the allowlist check with the suspicion check.
type Validator struct {
	checker *Checker
}

// NewValidator returns a Validator using checker. A nil checker uses the
// default TLD deny-list and no brands.
func NewValidator(checker *Checker) *Validator {
	if checker == nil {
		checker = NewChecker(nil, nil)
	}
	return &Validator{checker: checker}
}

// IsSuspicious delegates to the underlying Checker.
func (v *Validator) IsSuspicious(domain string) (bool, string) {
	return v.checker.IsSuspicious(domain)
}

// Validate checks the domain of from against allowed. A domain that passes
// the allowlist is still rejected when it looks suspicious.
func (v *Validator) Validate(from string, allowed []string) Result {
	domain, ok := ExtractDomain(from)
	if !ok {
		return Result{
			Valid:      false,
			Confidence: ConfidenceLow,
			Reason:     "sender address is missing or malformed",
		}
	}

	if suspicious, why := v.checker.IsSuspicious(domain); suspicious {
		return Result{Valid: false, Domain: domain, Confidence: ConfidenceLow, Reason: why}
	}

	if !IsAllowed(domain, allowed) {
		return Result{
			Valid:      false,
			Domain:     domain,
			Confidence: ConfidenceLow,
			Reason:     "sender domain is not on the provider allowlist",
		}
	}

	return Result{
		Valid:      true,
		Domain:     domain,
		Confidence: ConfidenceHigh,
		Reason:     "sender domain matches the provider allowlist",
	}
}
