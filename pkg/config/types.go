package config

import (
	"fmt"
	"time"

	"github.com/getmockd/mimic/pkg/logging"
)

// Defaults.
const (
	DefaultListen        = ":8900"
	DefaultTokenLifetime = 24 * time.Hour
)

// DefaultRegions are the regions region-scoped plugins are bound in unless
// they or the configuration say otherwise.
var DefaultRegions = []string{"ORD", "DFW", "IAD"}

// ServerConfiguration is the complete configuration of a mimic server.
type ServerConfiguration struct {
	// Listen is the address the server listens on, e.g. ":8900".
	Listen string `json:"listen" yaml:"listen" toml:"listen"`
	// BaseURL is the public URL of the server used in catalog endpoints.
	// It defaults to http://localhost<Listen> when Listen has no host.
	BaseURL       string    `json:"base_url,omitempty" yaml:"base_url,omitempty" toml:"base_url,omitempty"`
	Regions       []string  `json:"regions,omitempty" yaml:"regions,omitempty" toml:"regions,omitempty"`
	TokenLifetime Duration  `json:"token_lifetime,omitempty" yaml:"token_lifetime,omitempty" toml:"token_lifetime,omitempty"`
	Log           LogConfig `json:"log" yaml:"log" toml:"log"`

	Plugins  []PluginConfig   `json:"plugins,omitempty" yaml:"plugins,omitempty" toml:"plugins,omitempty"`
	External []ExternalConfig `json:"external,omitempty" yaml:"external,omitempty" toml:"external,omitempty"`
	Domains  []DomainConfig   `json:"domains,omitempty" yaml:"domains,omitempty" toml:"domains,omitempty"`
}

// LogConfig configures the operational logger.
type LogConfig struct {
	Level  string `json:"level,omitempty" yaml:"level,omitempty" toml:"level,omitempty"`
	Format string `json:"format,omitempty" yaml:"format,omitempty" toml:"format,omitempty"`
}

// Logging returns the logging configuration described by l.
func (l LogConfig) Logging() logging.Config {
	cfg := logging.DefaultConfig()
	if l.Level != "" {
		cfg.Level = logging.ParseLevel(l.Level)
	}
	if l.Format != "" {
		cfg.Format = logging.ParseFormat(l.Format)
	}
	return cfg
}

// PluginConfig enables a built-in region-scoped plugin.
type PluginConfig struct {
	Name    string `json:"name" yaml:"name" toml:"name"`
	Enabled bool   `json:"enabled" yaml:"enabled" toml:"enabled"`
	// Regions overrides the regions the plugin is served in.
	Regions []string `json:"regions,omitempty" yaml:"regions,omitempty" toml:"regions,omitempty"`
}

// ExternalConfig describes a service hosted outside the server that is
// advertised in the catalog.
type ExternalConfig struct {
	Name        string                   `json:"name" yaml:"name" toml:"name"`
	Type        string                   `json:"type" yaml:"type" toml:"type"`
	ServiceName string                   `json:"service_name" yaml:"service_name" toml:"service_name"`
	Endpoints   []ExternalEndpointConfig `json:"endpoints" yaml:"endpoints" toml:"endpoints"`
}

// ExternalEndpointConfig is one region of an external service.
type ExternalEndpointConfig struct {
	Region  string `json:"region" yaml:"region" toml:"region"`
	Version string `json:"version,omitempty" yaml:"version,omitempty" toml:"version,omitempty"`
	URL     string `json:"url" yaml:"url" toml:"url"`
}

// DomainConfig serves a fixed body for a domain.
type DomainConfig struct {
	Domain      string `json:"domain" yaml:"domain" toml:"domain"`
	Body        string `json:"body" yaml:"body" toml:"body"`
	ContentType string `json:"content_type,omitempty" yaml:"content_type,omitempty" toml:"content_type,omitempty"`
}

// Duration is a time.Duration written as a Go duration string ("24h").
type Duration time.Duration

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	*d = Duration(v)
	return nil
}

// DefaultServerConfiguration returns the configuration used when no file is
// given: glance in the default regions on DefaultListen.
func DefaultServerConfiguration() *ServerConfiguration {
	cfg := &ServerConfiguration{
		Plugins: []PluginConfig{{Name: "glance", Enabled: true}},
	}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills unset scalar fields.
func (c *ServerConfiguration) applyDefaults() {
	if c.Listen == "" {
		c.Listen = DefaultListen
	}
	if c.BaseURL == "" {
		c.BaseURL = baseURLFor(c.Listen)
	}
	if len(c.Regions) == 0 {
		c.Regions = append([]string(nil), DefaultRegions...)
	}
	if c.TokenLifetime == 0 {
		c.TokenLifetime = Duration(DefaultTokenLifetime)
	}
}

// merge folds o into c: scalars set in o win, lists are appended.
func (c *ServerConfiguration) merge(o *ServerConfiguration) {
	if o.Listen != "" {
		c.Listen = o.Listen
	}
	if o.BaseURL != "" {
		c.BaseURL = o.BaseURL
	}
	if len(o.Regions) > 0 {
		c.Regions = o.Regions
	}
	if o.TokenLifetime != 0 {
		c.TokenLifetime = o.TokenLifetime
	}
	if o.Log.Level != "" {
		c.Log.Level = o.Log.Level
	}
	if o.Log.Format != "" {
		c.Log.Format = o.Log.Format
	}
	c.Plugins = append(c.Plugins, o.Plugins...)
	c.External = append(c.External, o.External...)
	c.Domains = append(c.Domains, o.Domains...)
}

// EnabledPlugins returns the enabled plugin entries in order.
func (c *ServerConfiguration) EnabledPlugins() []PluginConfig {
	var out []PluginConfig
	for _, p := range c.Plugins {
		if p.Enabled {
			out = append(out, p)
		}
	}
	return out
}

func baseURLFor(listen string) string {
	if len(listen) > 0 && listen[0] == ':' {
		return "http://localhost" + listen
	}
	return "http://" + listen
}
