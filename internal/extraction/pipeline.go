package extraction

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/fyrsmithlabs/payplan/internal/dates"
	"github.com/fyrsmithlabs/payplan/internal/provider"
	"github.com/fyrsmithlabs/payplan/internal/redact"
)

// Pipeline runs extraction over pasted text. A Pipeline holds no per-call
// state and may be shared.
type Pipeline struct {
	cfg      Config
	detector *provider.Detector
	scanner  *redact.CredentialScanner
	patterns []redact.Pattern
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithCredentialScanner also scrubs credentials from Issue snippets.
func WithCredentialScanner(s *redact.CredentialScanner) PipelineOption {
	return func(p *Pipeline) {
		p.scanner = s
	}
}

// WithRedactionPatterns replaces the PII patterns applied to snippets.
func WithRedactionPatterns(patterns []redact.Pattern) PipelineOption {
	return func(p *Pipeline) {
		p.patterns = patterns
	}
}

// NewPipeline creates a Pipeline. A nil detector uses the built-in provider
// domains.
func NewPipeline(cfg Config, detector *provider.Detector, opts ...PipelineOption) *Pipeline {
	if detector == nil {
		detector = provider.NewDetector()
	}
	p := &Pipeline{
		cfg:      cfg.withDefaults(),
		detector: detector,
		patterns: redact.DefaultPatterns(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Config returns the effective settings.
func (p *Pipeline) Config() Config {
	return p.cfg
}

// Extract extracts installments from text read in zone tz.
//
// Oversized input and an unknown zone are returned as errors. Every other
// failure is reported as an Issue in the result.
func (p *Pipeline) Extract(text, tz string, opts Options) (Result, error) {
	res, _, err := p.ExtractReport(text, tz, opts)
	return res, err
}

// ExtractReport is Extract that also returns the per-block failures behind
// the result's Issues.
func (p *Pipeline) ExtractReport(text, tz string, opts Options) (Result, []*BlockError, error) {
	if n := utf8.RuneCountInString(text); n > p.cfg.MaxInputChars {
		return Result{}, nil, fmt.Errorf("%w: %d characters, limit %d", ErrInputTooLarge, n, p.cfg.MaxInputChars)
	}
	if _, err := dates.LoadLocation(tz); err != nil {
		return Result{}, nil, err
	}

	locale := opts.DateLocale.OrDefault()
	res := EmptyResult(locale)
	if text == "" {
		return res, nil, nil
	}
	if strings.TrimSpace(text) == "" {
		res.Issues = append(res.Issues, newIssue(0, "", ReasonFor(ErrUnprocessable)))
		return res, []*BlockError{{Block: 0, Kind: KindInput, Err: ErrUnprocessable}}, nil
	}

	text = normalize(text)
	if p.cfg.StripHTML {
		text = StripHTML(text)
	}
	if !recognizable(text) {
		res.Issues = append(res.Issues, newIssue(0, p.snippet(text), ReasonFor(ErrUnprocessable)))
		return res, []*BlockError{{Block: 0, Kind: KindInput, Err: ErrUnprocessable}}, nil
	}

	dateOpts := dates.Options{
		Locale:       locale,
		Now:          p.cfg.Now,
		PastWindow:   p.cfg.PastWindow,
		FutureWindow: p.cfg.FutureWindow,
	}

	var (
		items    []Item
		failures []*BlockError
	)
	for i, block := range SplitBlocks(text) {
		item, signals, err := p.extractBlock(block, tz, dateOpts)
		if err != nil {
			failures = append(failures, blockError(i, err))
			res.Issues = append(res.Issues, newIssue(i, p.snippet(block), ReasonFor(err)))
			continue
		}

		items = append(items, item)
		if item.Confidence < p.cfg.LowConfidenceThreshold {
			reason := lowConfidenceReason(item.Confidence, signals.Missing())
			res.Issues = append(res.Issues, newIssue(i, p.snippet(block), reason))
		}
	}

	res.Items, res.DuplicatesRemoved = Dedupe(items)
	return res, failures, nil
}

// extractBlock runs detection, field extraction, sender validation and
// scoring over one block.
func (p *Pipeline) extractBlock(block, tz string, dateOpts dates.Options) (Item, Signals, error) {
	id, ok := p.detector.Detect(block)
	if !ok {
		return Item{}, Signals{}, ErrProviderNotFound
	}
	prof, _ := provider.ProfileFor(id)
	signals := Signals{Provider: true}

	amount, err := ExtractAmount(block, prof.Amount, prof.DefaultCurrency)
	if err == nil {
		signals.Amount = true
	} else if amount, err = ExtractAmount(block, provider.FallbackAmount, prof.DefaultCurrency); err != nil {
		return Item{}, signals, err
	}

	due, err := ExtractDueDate(block, prof.DueDate, tz, dateOpts)
	switch {
	case err == nil:
		signals.Date = true
	case errors.Is(err, ErrDueDateNotFound):
		if due, err = ExtractDueDate(block, provider.FallbackDueDate, tz, dateOpts); err != nil {
			return Item{}, signals, err
		}
	default:
		return Item{}, signals, err
	}

	n, err := ExtractInstallmentNumber(block, prof)
	if err != nil {
		return Item{}, signals, err
	}
	signals.Installment = true

	autopay, found := DetectAutopay(block)
	signals.Autopay = found

	if from, ok := provider.FromAddress(block); ok {
		if v := p.detector.ValidateSender(from, id); !v.Valid {
			return Item{}, signals, fmt.Errorf("%w: %s", ErrUntrustedSender, v.Reason)
		}
	}

	item := Item{
		Provider:      id,
		InstallmentNo: n,
		DueDate:       due.ISODate,
		RawDueDate:    due.RawText,
		Amount:        amount.Cents,
		Currency:      amount.Currency,
		Autopay:       autopay,
		LateFee:       ExtractLateFee(block, prof.LateFee),
		Confidence:    Score(signals),
	}
	item.ID = itemID(item)
	if err := item.Validate(); err != nil {
		return Item{}, signals, fmt.Errorf("%w: %v", ErrInvalidItem, err)
	}
	return item, signals, nil
}

// snippet is the redacted preview of text shown in an Issue.
func (p *Pipeline) snippet(text string) string {
	if p.scanner != nil {
		if scrubbed, err := p.scanner.Scrub(text); err == nil {
			text = scrubbed
		}
	}
	return redact.SafePreview(redact.Redact(redact.RedactPatterns(text, p.patterns)))
}

// Dedupe collapses items sharing provider, installment number and due date.
// The highest-confidence item is kept at the position of the first
// occurrence.
func Dedupe(items []Item) ([]Item, int) {
	out := make([]Item, 0, len(items))
	index := make(map[string]int, len(items))
	removed := 0
	for _, it := range items {
		key := it.DedupKey()
		if i, ok := index[key]; ok {
			removed++
			if it.Confidence > out[i].Confidence {
				out[i] = it
			}
			continue
		}
		index[key] = len(out)
		out = append(out, it)
	}
	return out, removed
}
