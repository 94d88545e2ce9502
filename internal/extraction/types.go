package extraction

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fyrsmithlabs/payplan/internal/dates"
	"github.com/fyrsmithlabs/payplan/internal/provider"
)

// idSpace namespaces the deterministic Item and Issue ids.
var idSpace = uuid.MustParse("8d0f7a52-6b0c-4c1e-9a57-2f1e4c3b9d60")

// Item is one extracted installment. Items are values; use WithDueDate to
// derive a corrected copy.
type Item struct {
	ID            string      `json:"id"`
	Provider      provider.ID `json:"provider"`
	InstallmentNo int         `json:"installment_no"`
	DueDate       string      `json:"due_date"`
	RawDueDate    string      `json:"raw_due_date,omitempty"`
	Amount        int64       `json:"amount"`
	Currency      string      `json:"currency"`
	Autopay       bool        `json:"autopay"`
	LateFee       int64       `json:"late_fee"`
	Confidence    float64     `json:"confidence"`
}

// WithDueDate returns a copy of the item carrying d as its due date.
func (it Item) WithDueDate(d dates.Result) Item {
	out := it
	out.DueDate = d.ISODate
	if d.RawText != "" {
		out.RawDueDate = d.RawText
	}
	out.ID = itemID(out)
	return out
}

// DedupKey identifies an installment regardless of which block produced it.
func (it Item) DedupKey() string {
	return fmt.Sprintf("%d|%d|%s", it.Provider, it.InstallmentNo, it.DueDate)
}

func itemID(it Item) string {
	key := fmt.Sprintf("%s|%d|%s|%d|%s", it.Provider.Key(), it.InstallmentNo, it.DueDate, it.Amount, it.Currency)
	return uuid.NewSHA1(idSpace, []byte(key)).String()
}

// Issue reports a block that did not yield a trusted Item.
type Issue struct {
	ID      string `json:"id"`
	Snippet string `json:"snippet"`
	Reason  string `json:"reason"`
}

func newIssue(index int, snippet, reason string) Issue {
	key := fmt.Sprintf("%d|%s|%s", index, reason, snippet)
	return Issue{
		ID:      uuid.NewSHA1(idSpace, []byte(key)).String(),
		Snippet: snippet,
		Reason:  reason,
	}
}

// Result is the outcome of one Extract call.
type Result struct {
	Items             []Item       `json:"items"`
	Issues            []Issue      `json:"issues"`
	DuplicatesRemoved int          `json:"duplicatesRemoved"`
	DateLocale        dates.Locale `json:"dateLocale"`
}

// EmptyResult returns a result with no items or issues.
func EmptyResult(locale dates.Locale) Result {
	return Result{
		Items:      []Item{},
		Issues:     []Issue{},
		DateLocale: locale.OrDefault(),
	}
}

// Clone returns a deep copy of r.
func (r Result) Clone() Result {
	out := r
	out.Items = append(make([]Item, 0, len(r.Items)), r.Items...)
	out.Issues = append(make([]Issue, 0, len(r.Issues)), r.Issues...)
	return out
}

// Options are the per-call extraction options.
type Options struct {
	// DateLocale reads numeric slash dates. Empty means dates.LocaleUS.
	DateLocale dates.Locale
}

// Config holds pipeline settings.
type Config struct {
	// MaxInputChars is the hard input ceiling in characters.
	MaxInputChars int

	// LowConfidenceThreshold is the score below which an Item also gets a
	// companion Issue.
	LowConfidenceThreshold float64

	// StripHTML removes markup from pasted HTML mail before extraction.
	StripHTML bool

	// PastWindow and FutureWindow bound accepted due dates.
	PastWindow   time.Duration
	FutureWindow time.Duration

	// Now is the clock used for date windows. Nil means time.Now.
	Now func() time.Time
}

const (
	DefaultMaxInputChars          = 16000
	DefaultLowConfidenceThreshold = 0.6
)

// DefaultConfig returns the default pipeline settings.
func DefaultConfig() Config {
	return Config{
		MaxInputChars:          DefaultMaxInputChars,
		LowConfidenceThreshold: DefaultLowConfidenceThreshold,
		StripHTML:              true,
		PastWindow:             dates.DefaultPastWindow,
		FutureWindow:           dates.DefaultFutureWindow,
	}
}

func (c Config) withDefaults() Config {
	if c.MaxInputChars <= 0 {
		c.MaxInputChars = DefaultMaxInputChars
	}
	if c.LowConfidenceThreshold <= 0 {
		c.LowConfidenceThreshold = DefaultLowConfidenceThreshold
	}
	return c
}

func joinFields(fields []string) string {
	return strings.Join(fields, ", ")
}

// Validate checks the Result invariants: positive amounts, non-negative late
// fees, confidence in [0,1], real calendar due dates and three-letter
// currency codes.
func (r Result) Validate() error {
	if r.Items == nil || r.Issues == nil {
		return errors.New("result slices must be non-nil")
	}
	if !r.DateLocale.Valid() {
		return fmt.Errorf("invalid date locale %q", r.DateLocale)
	}
	for i, it := range r.Items {
		if err := it.Validate(); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
	}
	return nil
}

// Validate checks the Item invariants.
func (it Item) Validate() error {
	switch {
	case !it.Provider.Valid():
		return errors.New("unknown provider")
	case it.InstallmentNo <= 0:
		return errors.New("installment number must be positive")
	case it.Amount <= 0:
		return errors.New("amount must be positive")
	case it.LateFee < 0:
		return errors.New("late fee must not be negative")
	case it.Confidence < 0 || it.Confidence > 1:
		return errors.New("confidence out of range")
	case !currencyPattern.MatchString(it.Currency):
		return errors.New("currency must be three uppercase letters")
	}
	d, err := time.Parse("2006-01-02", it.DueDate)
	if err != nil || !dates.IsValidDate(d.Year(), int(d.Month()), d.Day()) {
		return errors.New("due date is not a calendar date")
	}
	return nil
}
