package metrics

import (
	"strconv"
	"time"

	"github.com/getmockd/mimic/pkg/session"
)

// ServerMetrics are the metrics reported by a mimic server.
type ServerMetrics struct {
	Registry *Registry

	SessionsTotal        *Counter
	SessionsActive       *Gauge
	ResourcesConstructed *Counter
	ResourceErrors       *Counter
	ResourceBuildSeconds *Histogram
	CatalogRequests      *Counter
	RequestsTotal        *Counter
	RequestDuration      *Histogram
}

// NewServerMetrics registers the server metrics in a new registry.
func NewServerMetrics() *ServerMetrics {
	r := NewRegistry()
	return &ServerMetrics{
		Registry: r,
		SessionsTotal: r.NewCounter(
			"mimic_sessions_total",
			"Total number of sessions created",
		),
		SessionsActive: r.NewGauge(
			"mimic_sessions_active",
			"Number of live sessions",
		),
		ResourcesConstructed: r.NewCounter(
			"mimic_resources_constructed_total",
			"Total number of per-region mock resources constructed",
			"region",
		),
		ResourceErrors: r.NewCounter(
			"mimic_resource_errors_total",
			"Total number of failed mock resource constructions",
			"region",
		),
		ResourceBuildSeconds: r.NewHistogram(
			"mimic_resource_build_seconds",
			"Time spent constructing mock resources in seconds",
			DefaultBuckets,
			"region",
		),
		CatalogRequests: r.NewCounter(
			"mimic_catalog_requests_total",
			"Total number of catalog compositions",
			"status",
		),
		RequestsTotal: r.NewCounter(
			"mimic_requests_total",
			"Total number of HTTP requests",
			"method", "status",
		),
		RequestDuration: r.NewHistogram(
			"mimic_request_duration_seconds",
			"Duration of HTTP requests in seconds",
			DefaultBuckets,
			"method",
		),
	}
}

// ObserveRequest records one served HTTP request.
func (m *ServerMetrics) ObserveRequest(method string, status int, d time.Duration) {
	if vec, err := m.RequestsTotal.WithLabels(method, strconv.Itoa(status)); err == nil {
		_ = vec.Inc()
	}
	if vec, err := m.RequestDuration.WithLabels(method); err == nil {
		vec.Observe(d.Seconds())
	}
}

// ObserveCatalog records one catalog composition; ok is false when it failed.
func (m *ServerMetrics) ObserveCatalog(ok bool) {
	status := "ok"
	if !ok {
		status = "error"
	}
	if vec, err := m.CatalogRequests.WithLabels(status); err == nil {
		_ = vec.Inc()
	}
}

// StoreObserver returns a session.Observer feeding m.
func (m *ServerMetrics) StoreObserver() session.Observer {
	return &storeObserver{m: m}
}

type storeObserver struct {
	m *ServerMetrics
}

var _ session.Observer = (*storeObserver)(nil)

func (o *storeObserver) OnSessionCreated(string) {
	_ = o.m.SessionsTotal.Inc()
	_ = o.m.SessionsActive.Add(1)
}

func (o *storeObserver) OnSessionsRemoved(count int) {
	_ = o.m.SessionsActive.Add(-float64(count))
}

func (o *storeObserver) OnResourceCreated(_, region string, d time.Duration) {
	if vec, err := o.m.ResourcesConstructed.WithLabels(region); err == nil {
		_ = vec.Inc()
	}
	if vec, err := o.m.ResourceBuildSeconds.WithLabels(region); err == nil {
		vec.Observe(d.Seconds())
	}
}

func (o *storeObserver) OnResourceError(_, region string, _ error) {
	if vec, err := o.m.ResourceErrors.WithLabels(region); err == nil {
		_ = vec.Inc()
	}
}
