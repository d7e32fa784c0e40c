package metrics

import (
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"slices"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
)

var (
	// ErrLabelCountMismatch is returned when the number of label values doesn't match the defined labels.
	ErrLabelCountMismatch = errors.New("label count mismatch")
	// ErrNegativeCounterValue is returned when attempting to add a negative value to a counter.
	ErrNegativeCounterValue = errors.New("counter cannot be decreased")
	// ErrDuplicateMetric is returned when registering a metric with a name that is already registered.
	ErrDuplicateMetric = errors.New("duplicate metric name")
)

// atomicFloat64 stores the bits of a float64 for atomic access.
type atomicFloat64 struct {
	bits atomic.Uint64
}

func (a *atomicFloat64) Load() float64 { return math.Float64frombits(a.bits.Load()) }

func (a *atomicFloat64) Store(v float64) { a.bits.Store(math.Float64bits(v)) }

func (a *atomicFloat64) Add(delta float64) {
	for {
		old := a.bits.Load()
		next := math.Float64bits(math.Float64frombits(old) + delta)
		if a.bits.CompareAndSwap(old, next) {
			return
		}
	}
}

// MetricType represents the type of a metric.
type MetricType string

const (
	MetricTypeCounter   MetricType = "counter"
	MetricTypeGauge     MetricType = "gauge"
	MetricTypeHistogram MetricType = "histogram"
)

// Metric is the interface implemented by all metric types.
type Metric interface {
	Name() string
	Help() string
	Type() MetricType
	// Collect returns all samples for exposition.
	Collect() []Sample
}

// Sample is a single metric value with its labels.
type Sample struct {
	Name   string
	Labels map[string]string
	Value  float64
}

// family holds the label-keyed children of one metric.
type family[V any] struct {
	name       string
	help       string
	labelNames []string

	mu       sync.RWMutex
	children map[string]*child[V]
	newValue func() *V
}

type child[V any] struct {
	labels map[string]string
	value  *V
}

func (f *family[V]) init(name, help string, labelNames []string, newValue func() *V) {
	f.name = name
	f.help = help
	f.labelNames = slices.Clone(labelNames)
	f.children = make(map[string]*child[V])
	f.newValue = newValue
}

func (f *family[V]) Name() string { return f.name }

func (f *family[V]) Help() string { return f.help }

// get returns the child for values, creating it on first use.
func (f *family[V]) get(values []string) (*child[V], error) {
	if len(values) != len(f.labelNames) {
		return nil, fmt.Errorf("%w: %s expected %d labels, got %d", ErrLabelCountMismatch, f.name, len(f.labelNames), len(values))
	}

	key := strings.Join(values, "\x00")
	f.mu.RLock()
	c, ok := f.children[key]
	f.mu.RUnlock()
	if ok {
		return c, nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok = f.children[key]; ok {
		return c, nil
	}
	labels := make(map[string]string, len(values))
	for i, name := range f.labelNames {
		labels[name] = values[i]
	}
	c = &child[V]{labels: labels, value: f.newValue()}
	f.children[key] = c
	return c, nil
}

// snapshot returns the children ordered by label values.
func (f *family[V]) snapshot() []*child[V] {
	f.mu.RLock()
	defer f.mu.RUnlock()
	keys := make([]string, 0, len(f.children))
	for k := range f.children {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]*child[V], len(keys))
	for i, k := range keys {
		out[i] = f.children[k]
	}
	return out
}

func newFloat() *atomicFloat64 { return new(atomicFloat64) }

// Counter is a monotonically increasing metric.
type Counter struct {
	family[atomicFloat64]
}

func newCounter(name, help string, labelNames []string) *Counter {
	c := &Counter{}
	c.init(name, help, labelNames, newFloat)
	return c
}

// Type returns MetricTypeCounter.
func (c *Counter) Type() MetricType { return MetricTypeCounter }

// WithLabels returns the counter for the given label values.
func (c *Counter) WithLabels(values ...string) (*CounterVec, error) {
	ch, err := c.get(values)
	if err != nil {
		return nil, err
	}
	return &CounterVec{v: ch.value}, nil
}

// Inc increments an unlabelled counter by 1.
func (c *Counter) Inc() error { return c.Add(1) }

// Add adds delta to an unlabelled counter.
func (c *Counter) Add(delta float64) error {
	vec, err := c.WithLabels()
	if err != nil {
		return err
	}
	return vec.Add(delta)
}

// Collect returns all samples.
func (c *Counter) Collect() []Sample {
	children := c.snapshot()
	samples := make([]Sample, 0, len(children))
	for _, ch := range children {
		samples = append(samples, Sample{Name: c.name, Labels: ch.labels, Value: ch.value.Load()})
	}
	return samples
}

// CounterVec is a counter for one label combination.
type CounterVec struct {
	v *atomicFloat64
}

// Inc increments the counter by 1.
func (v *CounterVec) Inc() error { return v.Add(1) }

// Add adds delta to the counter. Negative deltas are rejected.
func (v *CounterVec) Add(delta float64) error {
	if delta < 0 {
		return ErrNegativeCounterValue
	}
	v.v.Add(delta)
	return nil
}

// Gauge is a metric that can go up and down.
type Gauge struct {
	family[atomicFloat64]
}

func newGauge(name, help string, labelNames []string) *Gauge {
	g := &Gauge{}
	g.init(name, help, labelNames, newFloat)
	return g
}

// Type returns MetricTypeGauge.
func (g *Gauge) Type() MetricType { return MetricTypeGauge }

// WithLabels returns the gauge for the given label values.
func (g *Gauge) WithLabels(values ...string) (*GaugeVec, error) {
	ch, err := g.get(values)
	if err != nil {
		return nil, err
	}
	return &GaugeVec{v: ch.value}, nil
}

// Set sets an unlabelled gauge.
func (g *Gauge) Set(value float64) error {
	vec, err := g.WithLabels()
	if err != nil {
		return err
	}
	vec.Set(value)
	return nil
}

// Add adds delta to an unlabelled gauge.
func (g *Gauge) Add(delta float64) error {
	vec, err := g.WithLabels()
	if err != nil {
		return err
	}
	vec.Add(delta)
	return nil
}

// Collect returns all samples.
func (g *Gauge) Collect() []Sample {
	children := g.snapshot()
	samples := make([]Sample, 0, len(children))
	for _, ch := range children {
		samples = append(samples, Sample{Name: g.name, Labels: ch.labels, Value: ch.value.Load()})
	}
	return samples
}

// GaugeVec is a gauge for one label combination.
type GaugeVec struct {
	v *atomicFloat64
}

// Set sets the gauge.
func (v *GaugeVec) Set(value float64) { v.v.Store(value) }

// Inc increments the gauge by 1.
func (v *GaugeVec) Inc() { v.v.Add(1) }

// Dec decrements the gauge by 1.
func (v *GaugeVec) Dec() { v.v.Add(-1) }

// Add adds delta to the gauge.
func (v *GaugeVec) Add(delta float64) { v.v.Add(delta) }

// DefaultBuckets are histogram buckets for durations in seconds.
var DefaultBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

type histogramValue struct {
	counts []atomic.Uint64
	sum    atomicFloat64
	count  atomic.Uint64
}

// Histogram tracks the distribution of observed values.
type Histogram struct {
	family[histogramValue]
	buckets []float64 // sorted, ending in +Inf
}

func newHistogram(name, help string, buckets []float64, labelNames []string) *Histogram {
	sorted := slices.Clone(buckets)
	sort.Float64s(sorted)
	if len(sorted) == 0 || !math.IsInf(sorted[len(sorted)-1], 1) {
		sorted = append(sorted, math.Inf(1))
	}
	h := &Histogram{buckets: sorted}
	h.init(name, help, labelNames, func() *histogramValue {
		return &histogramValue{counts: make([]atomic.Uint64, len(sorted))}
	})
	return h
}

// Type returns MetricTypeHistogram.
func (h *Histogram) Type() MetricType { return MetricTypeHistogram }

// WithLabels returns the histogram for the given label values.
func (h *Histogram) WithLabels(values ...string) (*HistogramVec, error) {
	ch, err := h.get(values)
	if err != nil {
		return nil, err
	}
	return &HistogramVec{h: h, v: ch.value}, nil
}

// Collect returns cumulative bucket, sum and count samples.
func (h *Histogram) Collect() []Sample {
	children := h.snapshot()
	samples := make([]Sample, 0, len(children)*(len(h.buckets)+2))
	for _, ch := range children {
		var cumulative uint64
		for i, le := range h.buckets {
			cumulative += ch.value.counts[i].Load()
			labels := make(map[string]string, len(ch.labels)+1)
			for k, v := range ch.labels {
				labels[k] = v
			}
			labels["le"] = formatFloat(le)
			samples = append(samples, Sample{Name: h.name + "_bucket", Labels: labels, Value: float64(cumulative)})
		}
		samples = append(samples,
			Sample{Name: h.name + "_sum", Labels: ch.labels, Value: ch.value.sum.Load()},
			Sample{Name: h.name + "_count", Labels: ch.labels, Value: float64(ch.value.count.Load())},
		)
	}
	return samples
}

// HistogramVec is a histogram for one label combination.
type HistogramVec struct {
	h *Histogram
	v *histogramValue
}

// Observe records value.
func (v *HistogramVec) Observe(value float64) {
	i := sort.SearchFloat64s(v.h.buckets, value)
	if i == len(v.h.buckets) {
		i-- // NaN
	}
	v.v.counts[i].Add(1)
	v.v.sum.Add(value)
	v.v.count.Add(1)
}

// Registry holds registered metrics in registration order.
type Registry struct {
	mu      sync.RWMutex
	metrics []Metric
	names   map[string]struct{}
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{names: make(map[string]struct{})}
}

// NewCounter creates and registers a counter.
func (r *Registry) NewCounter(name, help string, labels ...string) *Counter {
	c := newCounter(name, help, labels)
	r.register(c)
	return c
}

// NewGauge creates and registers a gauge.
func (r *Registry) NewGauge(name, help string, labels ...string) *Gauge {
	g := newGauge(name, help, labels)
	r.register(g)
	return g
}

// NewHistogram creates and registers a histogram with the given buckets.
func (r *Registry) NewHistogram(name, help string, buckets []float64, labels ...string) *Histogram {
	h := newHistogram(name, help, buckets, labels)
	r.register(h)
	return h
}

// register panics on duplicate names, which would produce invalid output.
func (r *Registry) register(m Metric) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.names[m.Name()]; exists {
		panic(fmt.Sprintf("%s: %s", ErrDuplicateMetric, m.Name()))
	}
	r.names[m.Name()] = struct{}{}
	r.metrics = append(r.metrics, m)
}

// WriteTo writes all metrics in Prometheus text format.
func (r *Registry) WriteTo(w io.Writer) (int64, error) {
	r.mu.RLock()
	metrics := slices.Clone(r.metrics)
	r.mu.RUnlock()

	var b strings.Builder
	for _, m := range metrics {
		writeMetric(&b, m)
	}
	n, err := io.WriteString(w, b.String())
	return int64(n), err
}

// Handler returns an http.Handler serving the exposition.
func (r *Registry) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
		_, _ = r.WriteTo(w)
	})
}

func writeMetric(b *strings.Builder, m Metric) {
	samples := m.Collect()
	if len(samples) == 0 {
		return
	}
	fmt.Fprintf(b, "# HELP %s %s\n", m.Name(), escapeHelp(m.Help()))
	fmt.Fprintf(b, "# TYPE %s %s\n", m.Name(), m.Type())
	for _, s := range samples {
		if len(s.Labels) == 0 {
			fmt.Fprintf(b, "%s %s\n", s.Name, formatFloat(s.Value))
		} else {
			fmt.Fprintf(b, "%s{%s} %s\n", s.Name, formatLabels(s.Labels), formatFloat(s.Value))
		}
	}
}

// formatLabels formats labels as key="value",key="value" sorted by key.
func formatLabels(labels map[string]string) string {
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + `="` + escapeLabelValue(labels[k]) + `"`
	}
	return strings.Join(parts, ",")
}

func formatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "+Inf"
	case math.IsInf(v, -1):
		return "-Inf"
	case v == math.Trunc(v) && math.Abs(v) < 1e15:
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprintf("%g", v)
	}
}

func escapeHelp(s string) string {
	return strings.NewReplacer(`\`, `\\`, "\n", `\n`).Replace(s)
}

func escapeLabelValue(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`).Replace(s)
}
