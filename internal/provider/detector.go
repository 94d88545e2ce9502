package provider

import (
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/fyrsmithlabs/payplan/internal/sender"
)

var fromHeader = regexp.MustCompile(`(?im)^[ \t]*from:[ \t]*(.+?)[ \t]*$`)

// FromAddress returns the value of the first "From:" header line in text.
func FromAddress(text string) (string, bool) {
	m := fromHeader.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Detector identifies providers and validates their senders. Built-in
// domains can be extended at runtime, for example from an allowlist file.
type Detector struct {
	mu        sync.RWMutex
	extra     map[ID][]string
	tlds      []string
	validator *sender.Validator
}

// Option configures a Detector.
type Option func(*Detector)

// WithExtraDomains adds sender domains per provider on top of the built-ins.
func WithExtraDomains(extra map[ID][]string) Option {
	return func(d *Detector) {
		d.extra = cloneDomains(extra)
	}
}

// WithSuspiciousTLDs replaces the default low-reputation TLD list.
func WithSuspiciousTLDs(tlds []string) Option {
	return func(d *Detector) {
		d.tlds = append([]string(nil), tlds...)
	}
}

// NewDetector creates a Detector.
func NewDetector(opts ...Option) *Detector {
	d := &Detector{}
	for _, opt := range opts {
		opt(d)
	}
	d.validator = sender.NewValidator(sender.NewChecker(d.tlds, d.brandsLocked()))
	return d
}

// SetExtraDomains replaces the runtime domain additions.
func (d *Detector) SetExtraDomains(extra map[ID][]string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.extra = cloneDomains(extra)
	d.validator = sender.NewValidator(sender.NewChecker(d.tlds, d.brandsLocked()))
}

// Domains returns the built-in and extra sender domains of id, sorted.
func (d *Detector) Domains(id ID) []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.domainsLocked(id)
}

func (d *Detector) domainsLocked(id ID) []string {
	p, ok := ProfileFor(id)
	if !ok {
		return nil
	}
	seen := make(map[string]bool, len(p.Domains)+len(d.extra[id]))
	out := make([]string, 0, len(p.Domains)+len(d.extra[id]))
	for _, list := range [][]string{p.Domains, d.extra[id]} {
		for _, dom := range list {
			dom = strings.ToLower(strings.TrimSpace(dom))
			if dom == "" || seen[dom] {
				continue
			}
			seen[dom] = true
			out = append(out, dom)
		}
	}
	sort.Strings(out)
	return out
}

func (d *Detector) brandsLocked() []sender.Brand {
	brands := make([]sender.Brand, 0, len(priority))
	for _, id := range priority {
		p, _ := ProfileFor(id)
		brands = append(brands, sender.Brand{
			Tokens:  p.BrandTokens,
			Domains: d.domainsLocked(id),
		})
	}
	return brands
}

// Detect returns the provider of text. A "From:" header domain wins over
// body keywords; ties resolve in All() order.
func (d *Detector) Detect(text string) (ID, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if from, ok := FromAddress(text); ok {
		if domain, ok := sender.ExtractDomain(from); ok {
			for _, id := range priority {
				p, _ := ProfileFor(id)
				if sender.IsAllowed(domain, d.domainsLocked(id)) && qualifies(p, text) {
					return id, true
				}
			}
		}
	}

	for _, id := range priority {
		p, _ := ProfileFor(id)
		if matchesAny(p.Keywords, text) && qualifies(p, text) {
			return id, true
		}
	}
	return Unknown, false
}

// ValidateSender checks the "From:" address of a block against the domains of id.
func (d *Detector) ValidateSender(from string, id ID) sender.Result {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.validator.Validate(from, d.domainsLocked(id))
}

func qualifies(p *Profile, text string) bool {
	return len(p.Qualifiers) == 0 || matchesAny(p.Qualifiers, text)
}

func matchesAny(patterns []*regexp.Regexp, text string) bool {
	for _, re := range patterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

func cloneDomains(in map[ID][]string) map[ID][]string {
	out := make(map[ID][]string, len(in))
	for id, list := range in {
		out[id] = append([]string(nil), list...)
	}
	return out
}
