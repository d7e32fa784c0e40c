// Package resolver binds installed plugins to concrete URI prefixes and
// serves them.
//
// At server setup every region-scoped plugin gets a stable service ID and,
// for each of its regions, the prefix
//
//	<baseURL>/mimicking/<serviceID>/<region>/
//
// ResourceForRegion is called once per (plugin, region) with that prefix and
// the returned handler is mounted under it with the prefix stripped, so the
// mock only sees its own sub-path. Binding is eager; the per-tenant state
// behind each handler is created lazily through the session store.
//
// Domain-scoped plugins are mounted at /domain/<domain>/ and are also reached
// directly when a request's Host matches their domain. External plugins are
// never mounted; their URLs come from URIForService.
package resolver
