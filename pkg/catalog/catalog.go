package catalog

import (
	"slices"
	"strings"
)

// Endpoint is one region-scoped URL entry of a service for a tenant.
type Endpoint struct {
	TenantID   string `json:"tenant_id" yaml:"tenant_id"`
	Region     string `json:"region" yaml:"region"`
	EndpointID string `json:"endpoint_id" yaml:"endpoint_id"`
	// Prefix is the API version segment placed before the tenant ID in the
	// public URL, e.g. "v2".
	Prefix string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
}

// NewEndpoint creates an Endpoint.
func NewEndpoint(tenantID, region, endpointID, prefix string) Endpoint {
	return Endpoint{
		TenantID:   tenantID,
		Region:     region,
		EndpointID: endpointID,
		Prefix:     prefix,
	}
}

// URLWithPrefix joins uriPrefix, the version prefix and the tenant ID into
// the endpoint's public URL. uriPrefix is expected to end with a slash.
func (e Endpoint) URLWithPrefix(uriPrefix string) string {
	if !strings.HasSuffix(uriPrefix, "/") {
		uriPrefix += "/"
	}
	if e.Prefix == "" {
		return uriPrefix + e.TenantID
	}
	return uriPrefix + strings.Trim(e.Prefix, "/") + "/" + e.TenantID
}

// Entry is one advertised service of a tenant.
type Entry struct {
	TenantID  string     `json:"tenant_id" yaml:"tenant_id"`
	Type      string     `json:"type" yaml:"type"`
	Name      string     `json:"name" yaml:"name"`
	Endpoints []Endpoint `json:"endpoints" yaml:"endpoints"`
}

// NewEntry creates an Entry. The endpoints slice is copied.
func NewEntry(tenantID, serviceType, name string, endpoints []Endpoint) Entry {
	return Entry{
		TenantID:  tenantID,
		Type:      serviceType,
		Name:      name,
		Endpoints: slices.Clone(endpoints),
	}
}

// Equal reports whether e and o are structurally equal.
func (e Entry) Equal(o Entry) bool {
	return e.TenantID == o.TenantID &&
		e.Type == o.Type &&
		e.Name == o.Name &&
		slices.Equal(e.Endpoints, o.Endpoints)
}

// Regions returns the region of every endpoint, in order.
func (e Entry) Regions() []string {
	regions := make([]string, len(e.Endpoints))
	for i, ep := range e.Endpoints {
		regions[i] = ep.Region
	}
	return regions
}

// Service is an Entry together with the plugin that produced it.
type Service struct {
	Plugin string `json:"plugin" yaml:"plugin"`
	// External marks entries that point at URLs outside the mock server.
	External bool `json:"external,omitempty" yaml:"external,omitempty"`
	Entry    `yaml:",inline"`
}

// DomainBinding pairs a domain-scoped plugin with the domain it owns.
type DomainBinding struct {
	Plugin string `json:"plugin" yaml:"plugin"`
	Domain string `json:"domain" yaml:"domain"`
}

// Document is the catalog composed for one tenant.
type Document struct {
	TenantID string          `json:"tenant_id" yaml:"tenant_id"`
	Services []Service       `json:"services" yaml:"services"`
	Domains  []DomainBinding `json:"domains,omitempty" yaml:"domains,omitempty"`
}

// Entries returns the entries of d in catalog order.
func (d *Document) Entries() []Entry {
	if d == nil {
		return nil
	}
	entries := make([]Entry, len(d.Services))
	for i, s := range d.Services {
		entries[i] = s.Entry
	}
	return entries
}
