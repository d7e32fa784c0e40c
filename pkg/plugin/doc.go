// Package plugin defines the capability contracts of pluggable mock services
// and the registry they are installed into.
//
// A mock is exactly one of three kinds:
//
//   - [APIMock]: region-scoped. Advertises catalog entries per tenant and
//     serves one resource tree per region, keeping per-tenant state in a
//     session.Store.
//   - [DomainMock]: owns a fixed domain name and serves a single resource tree
//     for it, with no tenant or region branching.
//   - [ExternalMock]: advertises entries that point at externally hosted URLs
//     and serves nothing locally.
//
// The kinds are a closed set. A mock is wrapped in a [Plugin] by [Region],
// [Domain] or [External], and the wrapper's [Kind] is what the catalog
// composer and the resolver switch on:
//
//	reg := plugin.NewRegistry()
//	if err := reg.Register(plugin.Region("glance", glance.New())); err != nil {
//	    return err // misregistration is fatal at startup
//	}
//
// Registration order is preserved and determines catalog order.
package plugin
