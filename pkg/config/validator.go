package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/getmockd/mimic/pkg/plugin"
)

// ValidationError describes one invalid field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on %s: %s", e.Field, e.Message)
}

// Validate checks c and returns every problem found, joined.
func (c *ServerConfiguration) Validate() error {
	var errs []error
	add := func(field, format string, args ...any) {
		errs = append(errs, &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if c.Listen == "" {
		add("listen", "is required")
	}
	if c.BaseURL != "" {
		if u, err := url.Parse(c.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			add("base_url", "must be an absolute URL, got %q", c.BaseURL)
		}
	}
	if len(c.Regions) == 0 {
		add("regions", "at least one region is required")
	}
	validateRegions("regions", c.Regions, add)
	if c.TokenLifetime < 0 {
		add("token_lifetime", "must not be negative")
	}

	names := make(map[string]string)
	claim := func(field, name string) {
		if name == "" {
			add(field+".name", "is required")
			return
		}
		if prev, ok := names[name]; ok {
			add(field+".name", "%q is already used by %s", name, prev)
			return
		}
		names[name] = field
	}

	for i, p := range c.Plugins {
		field := fmt.Sprintf("plugins[%d]", i)
		claim(field, p.Name)
		validateRegions(field+".regions", p.Regions, add)
	}
	for i, e := range c.External {
		field := fmt.Sprintf("external[%d]", i)
		claim(field, e.Name)
		if e.Type == "" {
			add(field+".type", "is required")
		}
		if len(e.Endpoints) == 0 {
			add(field+".endpoints", "at least one endpoint is required")
		}
		for j, ep := range e.Endpoints {
			epField := fmt.Sprintf("%s.endpoints[%d]", field, j)
			if ep.Region == "" {
				add(epField+".region", "is required")
			}
			if u, err := url.Parse(ep.URL); err != nil || !u.IsAbs() || u.Host == "" {
				add(epField+".url", "must be an absolute URL, got %q", ep.URL)
			}
		}
	}

	domains := make(map[string]bool)
	for i, d := range c.Domains {
		field := fmt.Sprintf("domains[%d].domain", i)
		domain := strings.ToLower(strings.TrimSpace(d.Domain))
		switch {
		case domain == "":
			add(field, "is required")
		case !plugin.ValidDomain(domain):
			add(field, "%q must not contain slashes, whitespace or braces", d.Domain)
		case domains[domain]:
			add(field, "%q is configured twice", d.Domain)
		default:
			domains[domain] = true
		}
	}

	return errors.Join(errs...)
}

// validateRegions rejects blank, duplicate and unroutable region names.
// Region names become URL path segments.
func validateRegions(field string, regions []string, add func(field, format string, args ...any)) {
	seen := make(map[string]bool, len(regions))
	for i, r := range regions {
		f := fmt.Sprintf("%s[%d]", field, i)
		switch {
		case strings.TrimSpace(r) == "":
			add(f, "is empty")
		case strings.ContainsAny(r, "/ \t{}"):
			add(f, "%q must not contain slashes, spaces or braces", r)
		case seen[r]:
			add(f, "%q is listed twice", r)
		default:
			seen[r] = true
		}
	}
}
