// Package composer builds the catalog document a tenant receives when it
// authenticates.
//
// Plugins are visited in registration order. Region-scoped and external mocks
// contribute entries in that order, which clients may treat as a priority
// hint; domain-scoped mocks contribute their domain binding. Composition fails
// closed: if any mock fails, the caller gets that mock's error and no
// document.
package composer

import (
	"log/slog"

	"github.com/getmockd/mimic/pkg/catalog"
	"github.com/getmockd/mimic/pkg/logging"
	"github.com/getmockd/mimic/pkg/plugin"
)

// Source lists installed plugins in registration order.
// *plugin.Registry implements it.
type Source interface {
	Plugins() []plugin.Plugin
}

// Composer aggregates catalog entries from a plugin source.
type Composer struct {
	source Source
	log    *slog.Logger
}

// Option configures a Composer.
type Option func(*Composer)

// WithLogger sets the operational logger.
func WithLogger(log *slog.Logger) Option {
	return func(c *Composer) {
		if log != nil {
			c.log = log
		}
	}
}

// New creates a Composer over source.
func New(source Source, opts ...Option) *Composer {
	c := &Composer{
		source: source,
		log:    logging.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compose builds the catalog of tenantID. An error from any mock is returned
// unmodified and no partial document is produced.
func (c *Composer) Compose(tenantID string) (*catalog.Document, error) {
	doc := &catalog.Document{
		TenantID: tenantID,
		Services: []catalog.Service{},
	}

	for _, p := range c.source.Plugins() {
		switch p.Kind() {
		case plugin.KindRegion:
			m, _ := p.APIMock()
			entries, err := m.CatalogEntries(tenantID)
			if err != nil {
				c.log.Error("catalog entries failed", "plugin", p.Name(), "tenant", tenantID, "error", err)
				return nil, err
			}
			doc.Services = appendServices(doc.Services, p.Name(), false, entries)

		case plugin.KindExternal:
			m, _ := p.ExternalMock()
			entries, err := m.CatalogEntries(tenantID)
			if err != nil {
				c.log.Error("catalog entries failed", "plugin", p.Name(), "tenant", tenantID, "error", err)
				return nil, err
			}
			doc.Services = appendServices(doc.Services, p.Name(), true, entries)

		case plugin.KindDomain:
			m, _ := p.DomainMock()
			doc.Domains = append(doc.Domains, catalog.DomainBinding{
				Plugin: p.Name(),
				Domain: m.Domain(),
			})
		}
	}

	c.log.Debug("catalog composed", "tenant", tenantID, "services", len(doc.Services), "domains", len(doc.Domains))
	return doc, nil
}

func appendServices(dst []catalog.Service, name string, external bool, entries []catalog.Entry) []catalog.Service {
	for _, e := range entries {
		dst = append(dst, catalog.Service{Plugin: name, External: external, Entry: e})
	}
	return dst
}
