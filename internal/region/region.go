// Package region resolves the tenant region for a request and answers
// region-access questions for authenticated admins.
package region

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Region describes one tenant of the marketing site.
type Region struct {
	// Code is the 2-letter upper-case region identifier, e.g. "IN".
	Code string `yaml:"code"`

	// PathPrefix is the locale prefix that selects this region, e.g. "/en-in".
	PathPrefix string `yaml:"path_prefix"`

	// Domains are the site domains served for this region, matched against
	// the request Origin and Referer.
	Domains []string `yaml:"domains"`
}

// Config is the full region map plus the fallback code.
type Config struct {
	Default string   `yaml:"default"`
	Regions []Region `yaml:"regions"`
}

// DefaultConfig returns the built-in region set used when no regions file is
// configured.
func DefaultConfig() Config {
	return Config{
		Default: "IN",
		Regions: []Region{
			{Code: "IN", PathPrefix: "/en-in", Domains: []string{"example.in", "www.example.in"}},
			{Code: "AE", PathPrefix: "/en-ae", Domains: []string{"example.ae", "www.example.ae"}},
		},
	}
}

// LoadConfig reads a region config from a YAML file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read regions file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse regions file: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if len(c.Regions) == 0 {
		return fmt.Errorf("regions file defines no regions")
	}
	codes := make(map[string]bool, len(c.Regions))
	for _, r := range c.Regions {
		code := strings.ToUpper(r.Code)
		if len(code) != 2 {
			return fmt.Errorf("region code %q is not a 2-letter code", r.Code)
		}
		if codes[code] {
			return fmt.Errorf("duplicate region code %q", code)
		}
		codes[code] = true
	}
	if c.Default != "" && !codes[strings.ToUpper(c.Default)] {
		return fmt.Errorf("default region %q is not defined", c.Default)
	}
	return nil
}

// Resolver maps requests to region codes. Resolution never fails: a request
// that matches no prefix and no known domain gets the default region.
type Resolver struct {
	byPrefix map[string]string
	byDomain map[string]string
	codes    map[string]bool
	def      string
}

// NewResolver builds a Resolver from cfg. Codes are normalized to upper case
// and domain matching is case-insensitive.
func NewResolver(cfg Config) *Resolver {
	r := &Resolver{
		byPrefix: make(map[string]string, len(cfg.Regions)),
		byDomain: make(map[string]string),
		codes:    make(map[string]bool, len(cfg.Regions)),
		def:      strings.ToUpper(cfg.Default),
	}

	for _, reg := range cfg.Regions {
		code := strings.ToUpper(reg.Code)
		r.codes[code] = true
		if reg.PathPrefix != "" {
			r.byPrefix[strings.ToLower(reg.PathPrefix)] = code
		}
		for _, d := range reg.Domains {
			r.byDomain[strings.ToLower(d)] = code
		}
	}

	if r.def == "" && len(cfg.Regions) > 0 {
		r.def = strings.ToUpper(cfg.Regions[0].Code)
	}
	return r
}

// Default returns the fallback region code.
func (r *Resolver) Default() string {
	return r.def
}

// Known reports whether code names a configured region.
func (r *Resolver) Known(code string) bool {
	return r.codes[strings.ToUpper(code)]
}

// Resolve determines the region for a request: path prefix first, then the
// Origin header's host, then Referer, then the default.
func (r *Resolver) Resolve(req *http.Request) string {
	path := strings.ToLower(req.URL.Path)
	for prefix, code := range r.byPrefix {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return code
		}
	}

	if code := r.fromURL(req.Header.Get("Origin")); code != "" {
		return code
	}
	if code := r.fromURL(req.Header.Get("Referer")); code != "" {
		return code
	}

	return r.def
}

func (r *Resolver) fromURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return r.byDomain[strings.ToLower(u.Hostname())]
}

// HasAccess reports whether a caller may operate on code. Super-admins pass
// unconditionally; everyone else needs code in their assigned set. The inputs
// come from token claims only — assignments are never re-read from storage,
// so a revoked assignment takes effect when the token expires.
func HasAccess(superAdmin bool, assigned []string, code string) bool {
	if superAdmin {
		return true
	}
	code = strings.ToUpper(code)
	for _, a := range assigned {
		if strings.ToUpper(a) == code {
			return true
		}
	}
	return false
}
