package config

import "os"

// Environment variables read by ApplyEnv.
const (
	EnvListen   = "MIMIC_LISTEN"
	EnvBaseURL  = "MIMIC_BASE_URL"
	EnvLogLevel = "MIMIC_LOG_LEVEL"
)

// ApplyEnv overrides c with the MIMIC_* environment variables that are set.
// A new listen address without an explicit base URL also moves the base URL.
func (c *ServerConfiguration) ApplyEnv() {
	c.applyEnv(os.LookupEnv)
}

func (c *ServerConfiguration) applyEnv(lookup func(string) (string, bool)) {
	listen, listenSet := lookup(EnvListen)
	baseURL, baseSet := lookup(EnvBaseURL)

	if listenSet && listen != "" {
		if !baseSet && c.BaseURL == baseURLFor(c.Listen) {
			c.BaseURL = baseURLFor(listen)
		}
		c.Listen = listen
	}
	if baseSet && baseURL != "" {
		c.BaseURL = baseURL
	}
	if level, ok := lookup(EnvLogLevel); ok && level != "" {
		c.Log.Level = level
	}
}
