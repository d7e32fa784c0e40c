package resolver

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"slices"
	"strings"
	"sync"

	"github.com/getmockd/mimic/internal/id"
	"github.com/getmockd/mimic/pkg/catalog"
	"github.com/getmockd/mimic/pkg/logging"
	"github.com/getmockd/mimic/pkg/plugin"
	"github.com/getmockd/mimic/pkg/session"
)

// DefaultRegions are used for region-scoped plugins that do not list their own.
var DefaultRegions = []string{"ORD", "DFW", "IAD"}

// Path roots of mounted plugins.
const (
	MimickingRoot = "/mimicking/"
	DomainRoot    = "/domain/"
)

var (
	// ErrAlreadyBound is returned when Bind is called twice.
	ErrAlreadyBound = errors.New("resolver: plugins already bound")
	// ErrNilHandler is returned when a mock returns no handler for a region.
	ErrNilHandler = errors.New("resolver: mock returned a nil handler")
	// ErrInvalidRegion is returned for a region name that cannot be a path segment.
	ErrInvalidRegion = errors.New("resolver: invalid region name")
)

// RegionLister is implemented by region-scoped mocks that know which regions
// they serve. Other mocks are bound in the resolver's default regions.
type RegionLister interface {
	Regions() []string
}

// Binding describes where a plugin is reachable.
type Binding struct {
	Plugin    string            `json:"plugin"`
	Kind      plugin.Kind       `json:"kind"`
	ServiceID string            `json:"serviceId,omitempty"`
	Prefixes  map[string]string `json:"prefixes,omitempty"` // region -> URI prefix
	Domain    string            `json:"domain,omitempty"`

	external plugin.ExternalMock
}

// Resolver mounts plugins and maps catalog endpoints to public URLs.
type Resolver struct {
	baseURL string
	store   *session.Store
	regions []string
	log     *slog.Logger

	mu       sync.RWMutex
	bound    bool
	bindings []*Binding
	byPlugin map[string]*Binding
	domains  map[string]http.Handler
	mux      *http.ServeMux
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithRegions sets the default regions.
func WithRegions(regions ...string) Option {
	return func(r *Resolver) {
		if len(regions) > 0 {
			r.regions = slices.Clone(regions)
		}
	}
}

// WithLogger sets the operational logger.
func WithLogger(log *slog.Logger) Option {
	return func(r *Resolver) {
		if log != nil {
			r.log = log
		}
	}
}

// New creates a Resolver that builds prefixes under baseURL and hands store
// to every region-scoped mock.
func New(baseURL string, store *session.Store, opts ...Option) *Resolver {
	r := &Resolver{
		baseURL:  strings.TrimRight(baseURL, "/"),
		store:    store,
		regions:  slices.Clone(DefaultRegions),
		log:      logging.Nop(),
		byPlugin: make(map[string]*Binding),
		domains:  make(map[string]http.Handler),
		mux:      http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Bind mounts every plugin of reg. Any error from a mock is fatal and
// returned wrapped with the plugin and region it came from.
func (r *Resolver) Bind(reg *plugin.Registry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.bound {
		return ErrAlreadyBound
	}

	for _, p := range reg.Plugins() {
		var err error
		switch p.Kind() {
		case plugin.KindRegion:
			err = r.bindRegionLocked(p)
		case plugin.KindDomain:
			r.bindDomainLocked(p)
		case plugin.KindExternal:
			m, _ := p.ExternalMock()
			r.addLocked(&Binding{
				Plugin:    p.Name(),
				Kind:      plugin.KindExternal,
				ServiceID: id.ServiceID(p.Name()),
				external:  m,
			})
		}
		if err != nil {
			return err
		}
	}

	r.bound = true
	return nil
}

func (r *Resolver) bindRegionLocked(p plugin.Plugin) error {
	m, _ := p.APIMock()
	regions := r.regions
	if lister, ok := m.(RegionLister); ok && len(lister.Regions()) > 0 {
		regions = lister.Regions()
	}

	b := &Binding{
		Plugin:    p.Name(),
		Kind:      plugin.KindRegion,
		ServiceID: id.ServiceID(p.Name()),
		Prefixes:  make(map[string]string, len(regions)),
	}

	for _, region := range regions {
		if _, dup := b.Prefixes[region]; dup {
			continue
		}
		if region == "" || strings.ContainsAny(region, "/{} \t\r\n") {
			return fmt.Errorf("%w: plugin %s region %q", ErrInvalidRegion, p.Name(), region)
		}
		path := MimickingRoot + b.ServiceID + "/" + region + "/"
		prefix := r.baseURL + path

		h, err := m.ResourceForRegion(region, prefix, r.store)
		if err != nil {
			return fmt.Errorf("bind plugin %s in region %s: %w", p.Name(), region, err)
		}
		if h == nil {
			return fmt.Errorf("%w: plugin %s region %s", ErrNilHandler, p.Name(), region)
		}

		r.mux.Handle(path, http.StripPrefix(strings.TrimSuffix(path, "/"), h))
		b.Prefixes[region] = prefix
		r.log.Debug("plugin bound", "plugin", p.Name(), "region", region, "prefix", prefix)
	}

	r.addLocked(b)
	return nil
}

func (r *Resolver) bindDomainLocked(p plugin.Plugin) {
	m, _ := p.DomainMock()
	domain := strings.ToLower(m.Domain())
	h := m.Resource()

	path := DomainRoot + domain + "/"
	r.mux.Handle(path, http.StripPrefix(strings.TrimSuffix(path, "/"), h))
	r.domains[domain] = h

	r.addLocked(&Binding{Plugin: p.Name(), Kind: plugin.KindDomain, Domain: domain})
	r.log.Debug("domain bound", "plugin", p.Name(), "domain", domain)
}

func (r *Resolver) addLocked(b *Binding) {
	r.bindings = append(r.bindings, b)
	r.byPlugin[b.Plugin] = b
}

// Bindings returns a copy of all bindings in registration order.
func (r *Resolver) Bindings() []Binding {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Binding, 0, len(r.bindings))
	for _, b := range r.bindings {
		cp := *b
		if b.Prefixes != nil {
			cp.Prefixes = make(map[string]string, len(b.Prefixes))
			for k, v := range b.Prefixes {
				cp.Prefixes[k] = v
			}
		}
		out = append(out, cp)
	}
	return out
}

// URIPrefix returns the prefix bound for a region-scoped plugin in region.
func (r *Resolver) URIPrefix(pluginName, region string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.byPlugin[pluginName]
	if !ok || b.Kind != plugin.KindRegion {
		return "", false
	}
	prefix, ok := b.Prefixes[region]
	return prefix, ok
}

// EndpointURL returns the public URL of ep as advertised by svc.
// It reports false when the plugin is unknown or does not serve the region.
func (r *Resolver) EndpointURL(svc catalog.Service, ep catalog.Endpoint) (string, bool) {
	r.mu.RLock()
	b, ok := r.byPlugin[svc.Plugin]
	r.mu.RUnlock()
	if !ok {
		return "", false
	}

	switch b.Kind {
	case plugin.KindExternal:
		base := b.external.URIForService(ep.Region, b.ServiceID)
		if base == "" {
			return "", false
		}
		return ep.URLWithPrefix(base), true
	case plugin.KindRegion:
		prefix, ok := b.Prefixes[ep.Region]
		if !ok {
			return "", false
		}
		return ep.URLWithPrefix(prefix), true
	default:
		return "", false
	}
}

// HasDomain reports whether a domain-scoped plugin owns the host of hostport.
func (r *Resolver) HasDomain(hostport string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.domains[hostname(hostport)]
	return ok
}

// ServeHTTP dispatches to the domain mock owning the request's host, or to
// the mounted prefixes.
func (r *Resolver) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mu.RLock()
	h, ok := r.domains[hostname(req.Host)]
	r.mu.RUnlock()
	if ok {
		h.ServeHTTP(w, req)
		return
	}
	r.mux.ServeHTTP(w, req)
}

func hostname(hostport string) string {
	host, _, err := net.SplitHostPort(hostport)
	if err != nil {
		host = hostport
	}
	return strings.ToLower(host)
}
