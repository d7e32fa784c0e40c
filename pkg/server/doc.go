// Package server runs a mimic server: the identity endpoint, every mounted
// plugin, and a small admin surface for inspecting and resetting sessions.
//
// Routes:
//
//	POST   /identity/v2.0/tokens
//	GET    /identity/v2.0/tokens/{token}/endpoints
//	GET    /healthz
//	GET    /metrics
//	GET    /_mimic/v1/sessions
//	DELETE /_mimic/v1/sessions
//	DELETE /_mimic/v1/sessions/{tenant}
//	GET    /_mimic/v1/plugins
//	       /mimicking/<service-id>/<region>/...
//	       /domain/<domain>/...
//
// Requests whose Host is owned by a domain-scoped plugin go to that plugin
// regardless of path.
package server
