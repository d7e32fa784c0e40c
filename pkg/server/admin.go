package server

import (
	"net/http"

	"github.com/getmockd/mimic/pkg/httputil"
	"github.com/getmockd/mimic/pkg/resolver"
	"github.com/getmockd/mimic/pkg/session"
)

// Admin route patterns.
const (
	HealthPath   = "/healthz"
	MetricsPath  = "/metrics"
	SessionsPath = "/_mimic/v1/sessions"
	PluginsPath  = "/_mimic/v1/plugins"
)

type sessionList struct {
	Sessions []session.Info `json:"sessions"`
	Count    int            `json:"count"`
}

type pluginList struct {
	Plugins []resolver.Binding `json:"plugins"`
}

func (s *Server) registerAdmin(mux *http.ServeMux) {
	mux.HandleFunc("GET "+HealthPath, s.handleHealth)
	mux.Handle("GET "+MetricsPath, s.metrics.Registry.Handler())
	mux.HandleFunc("GET "+SessionsPath, s.handleListSessions)
	mux.HandleFunc("DELETE "+SessionsPath, s.handleResetSessions)
	mux.HandleFunc("DELETE "+SessionsPath+"/{tenant}", s.handleDeleteSession)
	mux.HandleFunc("GET "+PluginsPath, s.handleListPlugins)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteOK(w, map[string]string{"status": "ok"})
}

func (s *Server) handleListSessions(w http.ResponseWriter, _ *http.Request) {
	infos := s.store.Sessions()
	httputil.WriteOK(w, sessionList{Sessions: infos, Count: len(infos)})
}

func (s *Server) handleResetSessions(w http.ResponseWriter, _ *http.Request) {
	n := s.store.Reset()
	s.log.Info("sessions reset", "removed", n)
	httputil.WriteOK(w, map[string]int{"removed": n})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	tenant := r.PathValue("tenant")
	if !s.store.Delete(tenant) {
		httputil.WriteNotFound(w, "session_not_found", "no session for tenant "+tenant)
		return
	}
	s.log.Info("session deleted", "tenant", tenant)
	httputil.WriteNoContent(w)
}

func (s *Server) handleListPlugins(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteOK(w, pluginList{Plugins: s.resolver.Bindings()})
}
