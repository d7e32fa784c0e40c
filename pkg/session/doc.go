// Package session provides the per-tenant state of a mock test run.
//
// A [Store] maps tenant identities to [Session] values. Each Session holds one
// [RegionCollection] per region, and each RegionCollection holds the resource
// objects that serve one API mock for that tenant and region:
//
//	store := session.NewStore()
//	rc := store.SessionForTenant("123456").CollectionForRegion("ORD")
//	images, err := session.Resource(rc, api, func() (*imageRegion, error) {
//	    return newImageRegion(), nil
//	})
//
// Every level is fetch-or-create: looking up an unknown tenant or region never
// fails. At most one resource is successfully constructed per (tenant, region,
// key) for the life of the store, no matter how many goroutines race on the
// first request. A build function that returns an error leaves nothing behind
// and the next call runs it again.
//
// Locking is per level. The store lock only covers its indexes, a session lock
// only covers its region map, and each resource key has its own lock held for
// the duration of construction, so a slow build never stalls other tenants,
// regions or mocks.
//
// Mocks must route every stateful lookup through the store rather than caching
// resources themselves.
package session
