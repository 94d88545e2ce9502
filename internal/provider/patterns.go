package provider

import "regexp"

// Capture group names shared by all pattern tables.
const (
	GroupAmount   = "amount"
	GroupCurrency = "cur"
	GroupCode     = "code"
	GroupDate     = "date"
	GroupNumber   = "n"
	GroupTotal    = "m"
	GroupOrdinal  = "word"
)

const (
	currencyCodes = `USD|EUR|GBP|AUD|CAD|NZD`

	// number captures every decimal digit; more than two is rejected when
	// converting to cents.
	number = `(?P<amount>\d{1,3}(?:,\d{3})+(?:\.\d+)?|\d+(?:\.\d+)?)`

	// money accepts an optional leading symbol or code and an optional trailing code.
	money = `(?P<cur>[$€£]|(?:` + currencyCodes + `)\s?)?\s?` + number + `(?:\s?(?P<code>` + currencyCodes + `)\b)?`

	// symbolMoney requires a leading symbol or code.
	symbolMoney = `(?P<cur>[$€£]|(?:` + currencyCodes + `)\s?)\s?` + number + `(?:\s?(?P<code>` + currencyCodes + `)\b)?`

	weekday   = `(?:[A-Za-z]+day,?\s+)?`
	monthWord = `[A-Za-z]{3,9}\.?`
	ordinal   = `(?:st|nd|rd|th)?`

	date = `(?P<date>\d{4}-\d{1,2}-\d{1,2}` +
		`|\d{1,2}/\d{1,2}/\d{4}` +
		`|` + weekday + monthWord + `\s+\d{1,2}` + ordinal + `,?\s+\d{4}` +
		`|` + weekday + `\d{1,2}` + ordinal + `\s+` + monthWord + `,?\s+\d{4})`

	installmentNoun = `(?:payment|installment|instalment)`
)

func compile(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile(e)
	}
	return out
}

var (
	baseAmount = []string{
		`(?i)(?:amount(?:\s+due)?|` + installmentNoun + `\s+amount)\s*:\s*` + money,
		`(?i)` + installmentNoun + `\s+(?:\d{1,2}\s+of\s+\d{1,2}\s+)?(?:of|for)\s+` + symbolMoney,
		`(?i)` + symbolMoney + `\s+(?:is\s+)?(?:due|will be (?:charged|collected|debited))`,
	}

	baseDueDate = []string{
		`(?i)due(?:\s+date)?(?:\s+on)?\s*:?\s*` + date,
		`(?i)(?:scheduled|charged|collected|debited|taken)\s+(?:for|on)\s+` + date,
		`(?i)` + installmentNoun + `\s+date\s*:?\s*` + date,
	}

	baseInstallment = []string{
		`(?i)` + installmentNoun + `\s*(?:#|no\.?)?\s*(?P<n>\d{1,2})\s*(?:of|/)\s*(?P<m>\d{1,2})`,
		`(?i)(?P<n>\d{1,2})` + ordinal + `\s+(?:of|out of)\s+(?P<m>\d{1,2})\s+` + installmentNoun + `s?`,
		`(?i)\b(?P<n>\d{1,2})(?:st|nd|rd|th)\s+` + installmentNoun,
		`(?i)\b(?P<word>first|second|third|fourth|fifth|sixth)\s+` + installmentNoun,
	}

	baseTotal = []string{
		`(?i)pay\s+in\s+(?P<m>\d{1,2})\b`,
		`(?i)\b(?P<m>\d{1,2})\s+(?:interest-free\s+)?` + installmentNoun + `s\b`,
	}

	baseFinal = []string{
		`(?i)\b(?:final|last)\s+` + installmentNoun + `\b`,
	}

	baseLateFee = []string{
		`(?i)late\s+(?:payment\s+)?fees?\s*(?::|of|up to)?\s*` + money,
	}
)

// Fallback patterns match a field anywhere in the text without the wording of
// a provider template. A field found only this way is extracted but does not
// count as a confidence signal.
var (
	FallbackAmount  = compile(symbolMoney)
	FallbackDueDate = compile(`(?i)\bon\s+`+date, date)
)

func with(base []string, extra ...string) []string {
	out := make([]string, 0, len(base)+len(extra))
	out = append(out, extra...)
	return append(out, base...)
}
