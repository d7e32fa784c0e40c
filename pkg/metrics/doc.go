// Package metrics provides Prometheus-compatible metrics for the mimic server.
//
// It writes the Prometheus text exposition format (text/plain; version=0.0.4)
// directly, with counters, gauges and histograms that are safe for concurrent
// use.
//
// # Server Metrics
//
// NewServerMetrics registers the metrics the server reports:
//
//   - mimic_sessions_total: Counter of sessions created
//   - mimic_sessions_active: Gauge of live sessions
//   - mimic_resources_constructed_total: Counter of per-region mock resources built (labels: region)
//   - mimic_resource_errors_total: Counter of failed resource builds (labels: region)
//   - mimic_resource_build_seconds: Histogram of resource build time (labels: region)
//   - mimic_catalog_requests_total: Counter of catalog compositions (labels: status)
//   - mimic_requests_total: Counter of HTTP requests (labels: method, status)
//   - mimic_request_duration_seconds: Histogram of HTTP request latency (labels: method)
//
// # Usage
//
//	m := metrics.NewServerMetrics()
//	store := session.NewStore(session.WithObserver(m.StoreObserver()))
//	mux.Handle("GET /metrics", m.Registry.Handler())
package metrics
