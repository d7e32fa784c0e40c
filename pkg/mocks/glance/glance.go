// Package glance provides a region-scoped mock of an image service.
//
// Each tenant sees its own image list per region. Images created through the
// API are kept in the session store, so they are visible to later requests of
// the same tenant and region only.
package glance

import (
	"net/http"
	"slices"
	"strings"

	"github.com/getmockd/mimic/internal/id"
	"github.com/getmockd/mimic/pkg/catalog"
	"github.com/getmockd/mimic/pkg/plugin"
	"github.com/getmockd/mimic/pkg/session"
)

// Catalog identity of the service.
const (
	ServiceType = "image"
	ServiceName = "cloudImages"
	Version     = "v2"
)

// DefaultRegions are the regions served when none are given.
var DefaultRegions = []string{"ORD", "DFW", "IAD"}

var _ plugin.APIMock = (*API)(nil)

// API is the region-scoped image service mock.
type API struct {
	regions []string
}

// New creates an API serving regions, or DefaultRegions when none are given.
func New(regions ...string) *API {
	if len(regions) == 0 {
		regions = DefaultRegions
	}
	return &API{regions: slices.Clone(regions)}
}

// Regions returns the regions the mock serves.
func (a *API) Regions() []string { return slices.Clone(a.regions) }

// CatalogEntries lists one image entry with an endpoint per region. Endpoint
// IDs are fresh on every call.
func (a *API) CatalogEntries(tenantID string) ([]catalog.Entry, error) {
	endpoints := make([]catalog.Endpoint, 0, len(a.regions))
	for _, region := range a.regions {
		endpoints = append(endpoints, catalog.NewEndpoint(tenantID, region, id.UUID(), Version))
	}
	return []catalog.Entry{
		catalog.NewEntry(tenantID, ServiceType, ServiceName, endpoints),
	}, nil
}

// ResourceForRegion returns the image API of region.
func (a *API) ResourceForRegion(region, uriPrefix string, store *session.Store) (http.Handler, error) {
	return newRegion(a, uriPrefix, store, region).routes(), nil
}

// region serves one region. It holds no tenant state itself.
type region struct {
	api       *API
	uriPrefix string
	store     *session.Store
	name      string
}

func newRegion(api *API, uriPrefix string, store *session.Store, name string) *region {
	return &region{api: api, uriPrefix: uriPrefix, store: store, name: name}
}

// url builds an absolute URL below the region's prefix.
func (r *region) url(suffix string) string {
	return strings.TrimRight(r.uriPrefix, "/") + "/" + strings.TrimLeft(suffix, "/")
}

// imagesFor returns the image store of tenantID in this region.
func (r *region) imagesFor(tenantID string) (*imageStore, error) {
	rc := r.store.SessionForTenant(tenantID).CollectionForRegion(r.name)
	return session.Resource(rc, r.api, func() (*imageStore, error) {
		return newImageStore(r.name), nil
	})
}
