package server

import (
	"errors"
	"fmt"

	"github.com/getmockd/mimic/pkg/config"
	"github.com/getmockd/mimic/pkg/mocks/domain"
	"github.com/getmockd/mimic/pkg/mocks/example"
	"github.com/getmockd/mimic/pkg/mocks/external"
	"github.com/getmockd/mimic/pkg/mocks/glance"
	"github.com/getmockd/mimic/pkg/plugin"
)

// ErrUnknownPlugin is returned for a configured plugin name with no built-in.
var ErrUnknownPlugin = errors.New("unknown built-in plugin")

// Builtins are the names of the region-scoped plugins that can be enabled in
// the configuration.
var Builtins = []string{"glance", "example"}

// RegistryFromConfig builds the plugin registry of cfg: enabled built-ins
// first, then external services, then domains, each in configuration order.
func RegistryFromConfig(cfg *config.ServerConfiguration) (*plugin.Registry, error) {
	reg := plugin.NewRegistry()

	for _, p := range cfg.EnabledPlugins() {
		mock, err := builtin(p, cfg.Regions)
		if err != nil {
			return nil, err
		}
		if err := reg.Register(plugin.Region(p.Name, mock)); err != nil {
			return nil, err
		}
	}

	for _, e := range cfg.External {
		endpoints := make([]external.Endpoint, len(e.Endpoints))
		for i, ep := range e.Endpoints {
			endpoints[i] = external.Endpoint{Region: ep.Region, Version: ep.Version, URL: ep.URL}
		}
		name := e.ServiceName
		if name == "" {
			name = e.Name
		}
		if err := reg.Register(plugin.External(e.Name, external.New(e.Type, name, endpoints...))); err != nil {
			return nil, err
		}
	}

	for _, d := range cfg.Domains {
		mock := domain.New(d.Domain, []byte(d.Body), d.ContentType)
		if err := reg.Register(plugin.Domain("domain:"+mock.Domain(), mock)); err != nil {
			return nil, err
		}
	}

	return reg, nil
}

// builtin constructs the named built-in. Glance falls back to the server's
// regions; the example API keeps its single canned region unless told otherwise.
func builtin(p config.PluginConfig, regions []string) (plugin.APIMock, error) {
	switch p.Name {
	case "glance":
		if len(p.Regions) > 0 {
			regions = p.Regions
		}
		return glance.New(regions...), nil
	case "example":
		api := example.NewAPI("")
		if len(p.Regions) > 0 {
			api.Versions = api.Versions[:0]
			for _, r := range p.Regions {
				api.Versions = append(api.Versions, example.RegionVersion{Region: r, Version: "v1"})
			}
		}
		return api, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPlugin, p.Name)
	}
}
