// Package example provides minimal mocks of each kind, for wiring tests and
// for trying out a server without any real service mock.
package example

import (
	"net/http"
	"sync"

	"github.com/getmockd/mimic/pkg/catalog"
	"github.com/getmockd/mimic/pkg/plugin"
	"github.com/getmockd/mimic/pkg/session"
)

var (
	_ plugin.APIMock      = (*API)(nil)
	_ plugin.DomainMock   = (*DomainAPI)(nil)
	_ plugin.ExternalMock = (*ExternalAPI)(nil)
)

// RegionVersion pairs a region with an API version.
type RegionVersion struct {
	Region  string
	Version string
}

// Resource answers every GET with a fixed body.
type Resource struct {
	Body []byte
}

func (r *Resource) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	_, _ = w.Write(r.Body)
}

// API is a region-scoped mock with a static response. It records the URI
// prefixes it was bound to.
type API struct {
	Message  string
	Versions []RegionVersion

	mu       sync.Mutex
	prefixes map[string]string
}

// NewAPI creates an API answering message in the ORD region, version v1.
func NewAPI(message string) *API {
	if message == "" {
		message = "default message"
	}
	return &API{
		Message:  message,
		Versions: []RegionVersion{{Region: "ORD", Version: "v1"}},
		prefixes: make(map[string]string),
	}
}

// Regions returns the regions of the configured versions.
func (a *API) Regions() []string {
	regions := make([]string, len(a.Versions))
	for i, rv := range a.Versions {
		regions[i] = rv.Region
	}
	return regions
}

// CatalogEntries lists one entry with an endpoint per region and version.
func (a *API) CatalogEntries(tenantID string) ([]catalog.Entry, error) {
	endpoints := make([]catalog.Endpoint, 0, len(a.Versions))
	for _, rv := range a.Versions {
		endpoints = append(endpoints, catalog.NewEndpoint(tenantID, rv.Region, "uuid", rv.Version))
	}
	return []catalog.Entry{catalog.NewEntry(tenantID, "serviceType", "serviceName", endpoints)}, nil
}

// ResourceForRegion returns the static resource and records uriPrefix.
func (a *API) ResourceForRegion(region, uriPrefix string, _ *session.Store) (http.Handler, error) {
	a.mu.Lock()
	if a.prefixes == nil {
		a.prefixes = make(map[string]string)
	}
	a.prefixes[region] = uriPrefix
	a.mu.Unlock()
	return &Resource{Body: []byte(a.Message)}, nil
}

// URIPrefix returns the prefix the API was last bound to in region.
func (a *API) URIPrefix(region string) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.prefixes[region]
}

// DomainAPI serves a fixed body for a fixed domain.
type DomainAPI struct {
	domain string
	body   []byte
}

// NewDomainAPI creates a DomainAPI. Empty arguments take the defaults
// "api.example.com" and `"test-value"`.
func NewDomainAPI(domain string, body []byte) *DomainAPI {
	if domain == "" {
		domain = "api.example.com"
	}
	if body == nil {
		body = []byte(`"test-value"`)
	}
	return &DomainAPI{domain: domain, body: body}
}

// Domain returns the domain of the API.
func (d *DomainAPI) Domain() string { return d.domain }

// Resource returns the static resource of the domain.
func (d *DomainAPI) Resource() http.Handler { return &Resource{Body: d.body} }

// ExternalEndpoint is one region of an ExternalAPI.
type ExternalEndpoint struct {
	Region  string
	Version string
	URL     string
}

// ExternalAPI advertises endpoints hosted elsewhere.
type ExternalAPI struct {
	Type      string
	Name      string
	Endpoints []ExternalEndpoint
}

// NewExternalAPI creates an ExternalAPI with a single EXTERNAL region.
func NewExternalAPI() *ExternalAPI {
	return &ExternalAPI{
		Type: "externalServiceType",
		Name: "externalServiceName",
		Endpoints: []ExternalEndpoint{
			{Region: "EXTERNAL", Version: "v1", URL: "https://api.external.example.com:8080"},
		},
	}
}

// CatalogEntries lists one entry with an endpoint per configured region.
func (e *ExternalAPI) CatalogEntries(tenantID string) ([]catalog.Entry, error) {
	endpoints := make([]catalog.Endpoint, 0, len(e.Endpoints))
	for _, ep := range e.Endpoints {
		endpoints = append(endpoints, catalog.NewEndpoint(tenantID, ep.Region, "uuid", ep.Version))
	}
	return []catalog.Entry{catalog.NewEntry(tenantID, e.Type, e.Name, endpoints)}, nil
}

// URIForService returns the URL configured for region, or "".
func (e *ExternalAPI) URIForService(region, _ string) string {
	for _, ep := range e.Endpoints {
		if ep.Region == region {
			return ep.URL
		}
	}
	return ""
}
