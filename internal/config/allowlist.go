package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/fyrsmithlabs/payplan/internal/provider"
)

var (
	// ErrInvalidTOML indicates the allowlist file could not be parsed.
	ErrInvalidTOML = errors.New("invalid allowlist TOML")

	// ErrUnknownProvider indicates an allowlist section for an unsupported provider.
	ErrUnknownProvider = errors.New("unknown provider in allowlist")

	// ErrInvalidDomain indicates a malformed domain entry.
	ErrInvalidDomain = errors.New("invalid allowlist domain")
)

// Allowlist holds extra sender domains per provider. Entries are merged with
// the built-in domains as a union.
//
//	[providers.klarna]
//	domains = ["klarna.de", "klarna.se"]
type Allowlist struct {
	Domains map[provider.ID][]string
}

// LoadAllowlist reads an allowlist TOML file. An empty path or missing file
// yields an empty allowlist.
func LoadAllowlist(path string) (*Allowlist, error) {
	empty := &Allowlist{Domains: map[provider.ID][]string{}}
	if path == "" {
		return empty, nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return empty, nil
		}
		return nil, err
	}

	var file struct {
		Providers map[string]struct {
			Domains []string `toml:"domains"`
		} `toml:"providers"`
	}
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidTOML, path, err)
	}

	out := &Allowlist{Domains: make(map[provider.ID][]string, len(file.Providers))}
	for name, section := range file.Providers {
		id, ok := provider.Parse(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q in %s", ErrUnknownProvider, name, path)
		}
		for _, d := range section.Domains {
			d = strings.ToLower(strings.TrimSpace(d))
			if !validDomain(d) {
				return nil, fmt.Errorf("%w: %q for %s in %s", ErrInvalidDomain, d, name, path)
			}
			out.Domains[id] = append(out.Domains[id], d)
		}
	}
	return out, nil
}

func validDomain(d string) bool {
	if d == "" || len(d) > 253 || !strings.Contains(d, ".") {
		return false
	}
	if strings.HasPrefix(d, ".") || strings.HasSuffix(d, ".") || strings.Contains(d, "..") {
		return false
	}
	return !strings.ContainsAny(d, " \t@/:*")
}
