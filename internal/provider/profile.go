package provider

import "regexp"

// Profile is the immutable pattern set of one provider. The slices are shared
// and must not be modified by callers.
type Profile struct {
	ID   ID
	Name string

	// Domains are the sender domains the provider mails from.
	Domains []string
	// BrandTokens identify the provider inside a domain label.
	BrandTokens []string

	// Keywords identify the provider in body text.
	Keywords []*regexp.Regexp
	// Qualifiers, when set, must also match for the provider to be detected
	// by either domain or keyword.
	Qualifiers []*regexp.Regexp

	Amount       []*regexp.Regexp
	DueDate      []*regexp.Regexp
	Installment  []*regexp.Regexp
	Total        []*regexp.Regexp
	FinalPayment []*regexp.Regexp
	LateFee      []*regexp.Regexp

	DefaultCurrency string
	// DefaultTotal is the installment count assumed when the text never
	// declares one.
	DefaultTotal int
}

var (
	klarnaProfile = &Profile{
		ID:          Klarna,
		Name:        "Klarna",
		Domains:     []string{"klarna.com", "klarna.net"},
		BrandTokens: []string{"klarna"},
		Keywords:    compile(`(?i)\bklarna\b`),
		Amount:      compile(baseAmount...),
		DueDate:     compile(with(baseDueDate, `(?i)we(?:'ll| will)\s+(?:charge|collect)[^.\n]{0,60}?\bon\s+`+date)...),
		Installment: compile(baseInstallment...),
		Total:       compile(baseTotal...),
		FinalPayment: compile(with(baseFinal,
			`(?i)\byour\s+purchase\s+is\s+(?:now\s+)?paid\s+in\s+full\b`)...),
		LateFee:         compile(baseLateFee...),
		DefaultCurrency: "USD",
		DefaultTotal:    4,
	}

	affirmProfile = &Profile{
		ID:          Affirm,
		Name:        "Affirm",
		Domains:     []string{"affirm.com"},
		BrandTokens: []string{"affirm"},
		Keywords:    compile(`(?i)\baffirm\b`),
		Amount: compile(with(baseAmount,
			`(?i)affirm\s+payment\s+of\s+`+symbolMoney)...),
		DueDate:         compile(baseDueDate...),
		Installment:     compile(baseInstallment...),
		Total:           compile(with(baseTotal, `(?i)\b(?P<m>\d{1,2})\s+monthly\s+payments\b`)...),
		FinalPayment:    compile(baseFinal...),
		LateFee:         compile(baseLateFee...),
		DefaultCurrency: "USD",
		DefaultTotal:    4,
	}

	afterpayProfile = &Profile{
		ID:              Afterpay,
		Name:            "Afterpay",
		Domains:         []string{"afterpay.com", "clearpay.co.uk"},
		BrandTokens:     []string{"afterpay", "clearpay"},
		Keywords:        compile(`(?i)\bafter\s?pay\b`, `(?i)\bclearpay\b`),
		Amount:          compile(baseAmount...),
		DueDate:         compile(baseDueDate...),
		Installment:     compile(baseInstallment...),
		Total:           compile(baseTotal...),
		FinalPayment:    compile(with(baseFinal, `(?i)\blast\s+instalment\b`)...),
		LateFee:         compile(baseLateFee...),
		DefaultCurrency: "USD",
		DefaultTotal:    4,
	}

	paypalProfile = &Profile{
		ID:          PayPal,
		Name:        "PayPal",
		Domains:     []string{"paypal.com"},
		BrandTokens: []string{"paypal"},
		Keywords:    compile(`(?i)\bpay\s?pal\b`),
		Qualifiers:  compile(`(?i)\bpay\s+in\s+4\b`, `(?i)\bpay\s+later\b`),
		Amount:      compile(baseAmount...),
		DueDate:     compile(baseDueDate...),
		Installment: compile(baseInstallment...),
		Total:       compile(baseTotal...),
		FinalPayment: compile(with(baseFinal,
			`(?i)\bpay\s+in\s+4\s+plan\s+is\s+(?:now\s+)?complete\b`)...),
		LateFee:         compile(baseLateFee...),
		DefaultCurrency: "USD",
		DefaultTotal:    4,
	}

	zipProfile = &Profile{
		ID:          Zip,
		Name:        "Zip",
		Domains:     []string{"zip.co", "quadpay.com"},
		BrandTokens: []string{"zip", "zipco", "quadpay"},
		Keywords: compile(
			`(?i)\bquad\s?pay\b`,
			`(?i)\bzip(?:\.co|\s+pay)\b`,
			`\bZip\s+(?:payments?|installments?|instalments?|plan|order|account|reminder)\b`,
			`(?i)\b(?:paid|pay|purchase)\s+with\s+zip\b`,
		),
		Amount:          compile(baseAmount...),
		DueDate:         compile(baseDueDate...),
		Installment:     compile(baseInstallment...),
		Total:           compile(baseTotal...),
		FinalPayment:    compile(baseFinal...),
		LateFee:         compile(baseLateFee...),
		DefaultCurrency: "USD",
		DefaultTotal:    4,
	}

	sezzleProfile = &Profile{
		ID:              Sezzle,
		Name:            "Sezzle",
		Domains:         []string{"sezzle.com"},
		BrandTokens:     []string{"sezzle"},
		Keywords:        compile(`(?i)\bsezzle\b`),
		Amount:          compile(baseAmount...),
		DueDate:         compile(baseDueDate...),
		Installment:     compile(baseInstallment...),
		Total:           compile(baseTotal...),
		FinalPayment:    compile(with(baseFinal, `(?i)\bfinal\s+sezzle\s+payment\b`)...),
		LateFee:         compile(baseLateFee...),
		DefaultCurrency: "USD",
		DefaultTotal:    4,
	}
)

// ProfileFor returns the profile of id. Unknown and out-of-range ids report false.
func ProfileFor(id ID) (*Profile, bool) {
	switch id {
	case Klarna:
		return klarnaProfile, true
	case Affirm:
		return affirmProfile, true
	case Afterpay:
		return afterpayProfile, true
	case PayPal:
		return paypalProfile, true
	case Zip:
		return zipProfile, true
	case Sezzle:
		return sezzleProfile, true
	case Unknown:
		return nil, false
	}
	return nil, false
}
