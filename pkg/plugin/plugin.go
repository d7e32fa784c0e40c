package plugin

import (
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/getmockd/mimic/pkg/catalog"
	"github.com/getmockd/mimic/pkg/session"
)

// APIMock is a region-scoped mock service.
type APIMock interface {
	// CatalogEntries lists the entries advertised to tenantID. It must not
	// touch stored state and may fabricate fresh identifiers on every call.
	// Returning no entries is valid.
	CatalogEntries(tenantID string) ([]catalog.Entry, error)

	// ResourceForRegion returns the handler for every request rooted at
	// uriPrefix in region. It is called once per region at server setup;
	// per-tenant state must be fetched from store while serving.
	ResourceForRegion(region, uriPrefix string, store *session.Store) (http.Handler, error)
}

// DomainMock is a mock that owns a fixed domain.
type DomainMock interface {
	// Domain returns the host name the mock serves.
	Domain() string

	// Resource returns the handler for every request to the domain.
	Resource() http.Handler
}

// ExternalMock advertises services hosted outside the mock server.
type ExternalMock interface {
	// CatalogEntries lists the entries advertised to tenantID.
	CatalogEntries(tenantID string) ([]catalog.Entry, error)

	// URIForService returns the base URL of the service in region, or an
	// empty string when the region is not served.
	URIForService(region, serviceID string) string
}

// Kind tags which capability a Plugin carries.
type Kind int

// Plugin kinds.
const (
	KindRegion Kind = iota + 1
	KindDomain
	KindExternal
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindRegion:
		return "region"
	case KindDomain:
		return "domain"
	case KindExternal:
		return "external"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Plugin is a named mock of exactly one Kind.
// Construct it with Region, Domain or External.
type Plugin struct {
	name     string
	kind     Kind
	region   APIMock
	domain   DomainMock
	external ExternalMock
}

// Region wraps a region-scoped mock.
func Region(name string, m APIMock) Plugin {
	return Plugin{name: name, kind: KindRegion, region: m}
}

// Domain wraps a domain-scoped mock.
func Domain(name string, m DomainMock) Plugin {
	return Plugin{name: name, kind: KindDomain, domain: m}
}

// External wraps an external-URL mock.
func External(name string, m ExternalMock) Plugin {
	return Plugin{name: name, kind: KindExternal, external: m}
}

// Name returns the registration name.
func (p Plugin) Name() string { return p.name }

// Kind returns the capability the plugin carries.
func (p Plugin) Kind() Kind { return p.kind }

// APIMock returns the region-scoped mock, if that is the plugin's kind.
func (p Plugin) APIMock() (APIMock, bool) { return p.region, p.kind == KindRegion }

// DomainMock returns the domain-scoped mock, if that is the plugin's kind.
func (p Plugin) DomainMock() (DomainMock, bool) { return p.domain, p.kind == KindDomain }

// ExternalMock returns the external-URL mock, if that is the plugin's kind.
func (p Plugin) ExternalMock() (ExternalMock, bool) { return p.external, p.kind == KindExternal }

// Validate checks that the plugin satisfies its capability contract.
func (p Plugin) Validate() error {
	if p.name == "" {
		return ErrEmptyName
	}
	switch p.kind {
	case KindRegion:
		if isNil(p.region) {
			return fmt.Errorf("%w: %s", ErrNilMock, p.name)
		}
	case KindExternal:
		if isNil(p.external) {
			return fmt.Errorf("%w: %s", ErrNilMock, p.name)
		}
	case KindDomain:
		if isNil(p.domain) {
			return fmt.Errorf("%w: %s", ErrNilMock, p.name)
		}
		domain := p.domain.Domain()
		if domain == "" {
			return fmt.Errorf("%w: %s", ErrEmptyDomain, p.name)
		}
		if !ValidDomain(domain) {
			return fmt.Errorf("%w: %s: %q", ErrInvalidDomain, p.name, domain)
		}
		if isNil(p.domain.Resource()) {
			return fmt.Errorf("%w: %s", ErrNilResource, p.name)
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKind, p.name)
	}
	return nil
}

// ValidDomain reports whether domain can be served: it is mounted as a URL
// path segment and matched against Host headers, so it must not contain
// slashes, whitespace or pattern braces.
func ValidDomain(domain string) bool {
	return domain != "" && !strings.ContainsAny(domain, "/{} \t\r\n")
}

// isNil reports whether v is nil or an interface holding a nil pointer.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}
