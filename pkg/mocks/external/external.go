// Package external advertises services hosted outside the mimic server.
//
// An external service appears in every tenant's catalog, but its endpoints
// point at fixed URLs and nothing is mounted locally.
package external

import (
	"strings"

	"github.com/getmockd/mimic/internal/id"
	"github.com/getmockd/mimic/pkg/catalog"
	"github.com/getmockd/mimic/pkg/plugin"
)

var _ plugin.ExternalMock = (*Service)(nil)

// Endpoint is one region of an external service.
type Endpoint struct {
	Region  string
	Version string
	URL     string
}

// Service is an external service mock.
type Service struct {
	serviceType string
	name        string
	endpoints   []Endpoint
}

// New creates a Service advertised as serviceType/name.
func New(serviceType, name string, endpoints ...Endpoint) *Service {
	eps := make([]Endpoint, len(endpoints))
	for i, ep := range endpoints {
		ep.URL = strings.TrimRight(ep.URL, "/")
		eps[i] = ep
	}
	return &Service{serviceType: serviceType, name: name, endpoints: eps}
}

// CatalogEntries lists the service with one endpoint per configured region.
// Endpoint IDs are fresh on every call.
func (s *Service) CatalogEntries(tenantID string) ([]catalog.Entry, error) {
	endpoints := make([]catalog.Endpoint, len(s.endpoints))
	for i, ep := range s.endpoints {
		endpoints[i] = catalog.NewEndpoint(tenantID, ep.Region, id.UUID(), ep.Version)
	}
	return []catalog.Entry{catalog.NewEntry(tenantID, s.serviceType, s.name, endpoints)}, nil
}

// URIForService returns the base URL of region, or "" when the service is
// not available there.
func (s *Service) URIForService(region, _ string) string {
	for _, ep := range s.endpoints {
		if ep.Region == region {
			return ep.URL + "/"
		}
	}
	return ""
}
