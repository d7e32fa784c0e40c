// Package domain serves fixed responses for whole domains.
package domain

import (
	"net/http"
	"strings"

	"github.com/getmockd/mimic/pkg/plugin"
)

var _ plugin.DomainMock = (*Mock)(nil)

// DefaultContentType is used when none is configured.
const DefaultContentType = "application/json"

// Mock answers every GET or HEAD request on its domain with the same body.
type Mock struct {
	domain      string
	body        []byte
	contentType string
}

// New creates a Mock for domain.
func New(domain string, body []byte, contentType string) *Mock {
	if contentType == "" {
		contentType = DefaultContentType
	}
	return &Mock{
		domain:      strings.ToLower(strings.TrimSpace(domain)),
		body:        body,
		contentType: contentType,
	}
}

// Domain returns the domain the mock owns.
func (m *Mock) Domain() string { return m.domain }

// Resource returns the handler serving the domain.
func (m *Mock) Resource() http.Handler {
	return http.HandlerFunc(m.serve)
}

func (m *Mock) serve(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
	default:
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", m.contentType)
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodGet {
		_, _ = w.Write(m.body)
	}
}
