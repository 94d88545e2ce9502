package redact

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/zricethezav/gitleaks/v8/detect"
)

// CredentialScanner scrubs API keys, tokens and similar credentials using the
// gitleaks default rule set. Pasted BNPL mail sometimes carries signed payment
// links or bearer tokens that the PII patterns do not cover.
//
// The detector is built on first use; building it compiles several hundred
// rules, so share one scanner per process.
type CredentialScanner struct {
	once     sync.Once
	detector *detect.Detector
	err      error
	mu       sync.Mutex
}

// NewCredentialScanner returns a scanner whose detector is built lazily.
func NewCredentialScanner() *CredentialScanner {
	return &CredentialScanner{}
}

func (s *CredentialScanner) init() error {
	s.once.Do(func() {
		d, err := detect.NewDetectorDefaultConfig()
		if err != nil {
			s.err = fmt.Errorf("creating gitleaks detector: %w", err)
			return
		}
		s.detector = d
	})
	return s.err
}

// Scrub replaces every detected credential in text with Replacement.
func (s *CredentialScanner) Scrub(text string) (string, error) {
	if err := s.init(); err != nil {
		return text, err
	}

	// Detector keeps per-scan state.
	s.mu.Lock()
	findings := s.detector.DetectString(text)
	s.mu.Unlock()

	secrets := make([]string, 0, len(findings))
	for _, f := range findings {
		if f.Secret != "" {
			secrets = append(secrets, f.Secret)
		}
	}
	// Longest first so a secret that contains another is replaced whole.
	sort.Slice(secrets, func(i, j int) bool {
		return len(secrets[i]) > len(secrets[j])
	})
	for _, secret := range secrets {
		text = strings.ReplaceAll(text, secret, Replacement)
	}
	return text, nil
}
