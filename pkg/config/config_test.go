package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const yamlConfig = `
listen: ":9000"
regions: [ORD, SYD]
token_lifetime: 1h
log:
  level: debug
plugins:
  - name: glance
    enabled: true
    regions: [ORD]
  - name: example
    enabled: false
external:
  - name: objects
    type: object-store
    service_name: cloudFiles
    endpoints:
      - region: ORD
        version: v1
        url: https://storage.example.com
domains:
  - domain: api.example.com
    body: '"test-value"'
`

const tomlConfig = `
listen = ":9000"
regions = ["ORD", "SYD"]
token_lifetime = "1h"

[log]
level = "debug"

[[plugins]]
name = "glance"
enabled = true
regions = ["ORD"]

[[plugins]]
name = "example"
enabled = false

[[external]]
name = "objects"
type = "object-store"
service_name = "cloudFiles"

[[external.endpoints]]
region = "ORD"
version = "v1"
url = "https://storage.example.com"

[[domains]]
domain = "api.example.com"
body = '"test-value"'
`

const jsonConfig = `{
  "listen": ":9000",
  "regions": ["ORD", "SYD"],
  "token_lifetime": "1h",
  "log": {"level": "debug"},
  "plugins": [
    {"name": "glance", "enabled": true, "regions": ["ORD"]},
    {"name": "example", "enabled": false}
  ],
  "external": [{
    "name": "objects", "type": "object-store", "service_name": "cloudFiles",
    "endpoints": [{"region": "ORD", "version": "v1", "url": "https://storage.example.com"}]
  }],
  "domains": [{"domain": "api.example.com", "body": "\"test-value\""}]
}`

func TestLoadFromFile_Formats(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"yaml", "mimic.yaml", yamlConfig},
		{"yml", "mimic.yml", yamlConfig},
		{"toml", "mimic.toml", tomlConfig},
		{"json", "mimic.json", jsonConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			path := writeFile(t, t.TempDir(), tt.file, tt.content)

			cfg, err := LoadFromFile(path)
			require.NoError(t, err)
			require.NoError(t, cfg.Validate())

			assert.Equal(t, ":9000", cfg.Listen)
			assert.Equal(t, "http://localhost:9000", cfg.BaseURL)
			assert.Equal(t, []string{"ORD", "SYD"}, cfg.Regions)
			assert.Equal(t, Duration(time.Hour), cfg.TokenLifetime)
			assert.Equal(t, "debug", cfg.Log.Level)

			require.Len(t, cfg.Plugins, 2)
			assert.Equal(t, []PluginConfig{{Name: "glance", Enabled: true, Regions: []string{"ORD"}}}, cfg.EnabledPlugins())

			require.Len(t, cfg.External, 1)
			assert.Equal(t, "cloudFiles", cfg.External[0].ServiceName)
			assert.Equal(t, "https://storage.example.com", cfg.External[0].Endpoints[0].URL)

			require.Len(t, cfg.Domains, 1)
			assert.Equal(t, `"test-value"`, cfg.Domains[0].Body)
		})
	}
}

func TestLoadFromFile_Errors(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	_, err := LoadFromFile(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, ErrFileNotFound)

	_, err = LoadFromFile(writeFile(t, dir, "empty.yaml", "  \n"))
	assert.ErrorIs(t, err, ErrEmptyFile)

	_, err = LoadFromFile(writeFile(t, dir, "bad.json", "{nope"))
	assert.ErrorIs(t, err, ErrInvalidJSON)

	_, err = LoadFromFile(writeFile(t, dir, "bad.yaml", "listen: [unclosed"))
	assert.ErrorIs(t, err, ErrInvalidYAML)

	_, err = LoadFromFile(writeFile(t, dir, "bad.toml", "listen = "))
	assert.ErrorIs(t, err, ErrInvalidTOML)

	_, err = LoadFromFile(writeFile(t, dir, "duration.yaml", "token_lifetime: forever"))
	assert.Error(t, err)

	_, err = LoadFromFile(dir)
	assert.Error(t, err)
}

func TestLoadDir_Merges(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, dir, "00-base.yaml", "listen: \":9100\"\nplugins:\n  - name: glance\n    enabled: true\n")
	writeFile(t, dir, "external/objects.toml", `
[[external]]
name = "objects"
type = "object-store"
service_name = "cloudFiles"

[[external.endpoints]]
region = "ORD"
url = "https://storage.example.com"
`)
	writeFile(t, dir, "external/nested/dns.json", `{"external": [{"name": "dns", "type": "rax:dns", "service_name": "cloudDNS",
  "endpoints": [{"region": "GLOBAL", "url": "https://dns.example.com"}]}]}`)
	writeFile(t, dir, "notes.txt", "ignored")

	cfg, err := LoadDir(dir)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, ":9100", cfg.Listen)
	assert.Equal(t, DefaultRegions, cfg.Regions)
	require.Len(t, cfg.External, 2)
	// "external/nested/dns.json" sorts before "external/objects.toml".
	assert.Equal(t, "dns", cfg.External[0].Name)
	assert.Equal(t, "objects", cfg.External[1].Name)

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadDir_Errors(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	_, err := LoadDir(filepath.Join(dir, "missing"))
	assert.ErrorIs(t, err, ErrFileNotFound)

	file := writeFile(t, dir, "file.yaml", "listen: \":1\"")
	_, err = LoadDir(file)
	assert.ErrorIs(t, err, ErrNotADirectory)

	writeFile(t, dir, "broken/a.yaml", "listen: [")
	_, err = LoadDir(filepath.Join(dir, "broken"))
	assert.ErrorIs(t, err, ErrInvalidYAML)
}

func TestDefaultServerConfiguration(t *testing.T) {
	t.Parallel()
	cfg := DefaultServerConfiguration()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultListen, cfg.Listen)
	assert.Equal(t, "http://localhost:8900", cfg.BaseURL)
	assert.Equal(t, Duration(DefaultTokenLifetime), cfg.TokenLifetime)
	assert.Equal(t, "glance", cfg.EnabledPlugins()[0].Name)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		modify func(*ServerConfiguration)
		field  string
	}{
		{"empty listen", func(c *ServerConfiguration) { c.Listen = "" }, "listen"},
		{"relative base url", func(c *ServerConfiguration) { c.BaseURL = "/mimic" }, "base_url"},
		{"no regions", func(c *ServerConfiguration) { c.Regions = nil }, "regions"},
		{"blank region", func(c *ServerConfiguration) { c.Regions = []string{" "} }, "regions[0]"},
		{"duplicate region", func(c *ServerConfiguration) { c.Regions = []string{"ORD", "ORD"} }, "regions[1]"},
		{"region with slash", func(c *ServerConfiguration) { c.Regions = []string{"us/east"} }, "regions[0]"},
		{"duplicate plugin region", func(c *ServerConfiguration) {
			c.Plugins = []PluginConfig{{Name: "glance", Enabled: true, Regions: []string{"DFW", "DFW"}}}
		}, "plugins[0].regions[1]"},
		{"negative lifetime", func(c *ServerConfiguration) { c.TokenLifetime = -1 }, "token_lifetime"},
		{"duplicate name", func(c *ServerConfiguration) {
			c.External = []ExternalConfig{{Name: "glance", Type: "t", Endpoints: []ExternalEndpointConfig{{Region: "ORD", URL: "https://x"}}}}
		}, "external[0].name"},
		{"relative external url", func(c *ServerConfiguration) {
			c.External = []ExternalConfig{{Name: "x", Type: "t", Endpoints: []ExternalEndpointConfig{{Region: "ORD", URL: "x.example.com"}}}}
		}, "external[0].endpoints[0].url"},
		{"no external endpoints", func(c *ServerConfiguration) {
			c.External = []ExternalConfig{{Name: "x", Type: "t"}}
		}, "external[0].endpoints"},
		{"empty domain", func(c *ServerConfiguration) { c.Domains = []DomainConfig{{}} }, "domains[0].domain"},
		{"domain with brace", func(c *ServerConfiguration) { c.Domains = []DomainConfig{{Domain: "bad{host"}} }, "domains[0].domain"},
		{"domain with space", func(c *ServerConfiguration) { c.Domains = []DomainConfig{{Domain: "api example.com"}} }, "domains[0].domain"},
		{"duplicate domain", func(c *ServerConfiguration) {
			c.Domains = []DomainConfig{{Domain: "a.example.com"}, {Domain: "A.example.com"}}
		}, "domains[1].domain"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultServerConfiguration()
			tt.modify(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "validation error on "+tt.field+":")
		})
	}
}

func TestApplyEnv(t *testing.T) {
	t.Parallel()

	env := func(vars map[string]string) func(string) (string, bool) {
		return func(k string) (string, bool) {
			v, ok := vars[k]
			return v, ok
		}
	}

	cfg := DefaultServerConfiguration()
	cfg.applyEnv(env(map[string]string{EnvListen: ":9999", EnvLogLevel: "warn"}))
	assert.Equal(t, ":9999", cfg.Listen)
	assert.Equal(t, "http://localhost:9999", cfg.BaseURL)
	assert.Equal(t, "warn", cfg.Log.Level)

	cfg = DefaultServerConfiguration()
	cfg.applyEnv(env(map[string]string{EnvListen: ":9999", EnvBaseURL: "https://mimic.example.com"}))
	assert.Equal(t, "https://mimic.example.com", cfg.BaseURL)

	cfg = DefaultServerConfiguration()
	cfg.applyEnv(env(nil))
	assert.Equal(t, DefaultServerConfiguration(), cfg)
}

func TestMarshal_RoundTripsThroughFormats(t *testing.T) {
	t.Parallel()
	cfg := DefaultServerConfiguration()

	for _, format := range []Format{FormatYAML, FormatTOML, FormatJSON} {
		data, err := Marshal(cfg, format)
		require.NoError(t, err, format)
		got, err := Parse(data, format)
		require.NoError(t, err, format)
		assert.Equal(t, cfg.TokenLifetime, got.TokenLifetime, format)
		assert.Equal(t, cfg.Plugins, got.Plugins, format)
	}
}

func TestLogConfig_Logging(t *testing.T) {
	t.Parallel()
	lc := LogConfig{Level: "debug", Format: "json"}.Logging()
	assert.Equal(t, "json", string(lc.Format))
}
