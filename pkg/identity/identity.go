package identity

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/getmockd/mimic/pkg/catalog"
	"github.com/getmockd/mimic/pkg/httputil"
	"github.com/getmockd/mimic/pkg/logging"
	"github.com/getmockd/mimic/pkg/session"
)

// Route patterns served by Handler.
const (
	TokensPath    = "/identity/v2.0/tokens"
	EndpointsPath = "/identity/v2.0/tokens/{token}/endpoints"
)

// Composer builds a tenant's catalog. *composer.Composer implements it.
type Composer interface {
	Compose(tenantID string) (*catalog.Document, error)
}

// URLResolver maps catalog endpoints to public URLs. *resolver.Resolver
// implements it.
type URLResolver interface {
	EndpointURL(svc catalog.Service, ep catalog.Endpoint) (string, bool)
}

// Handler serves the identity routes.
type Handler struct {
	store    *session.Store
	composer Composer
	urls     URLResolver
	log      *slog.Logger
	observe  func(ok bool)
}

// Option configures a Handler.
type Option func(*Handler)

// WithLogger sets the operational logger.
func WithLogger(log *slog.Logger) Option {
	return func(h *Handler) {
		if log != nil {
			h.log = log
		}
	}
}

// WithCatalogObserver sets a function called after every composition.
func WithCatalogObserver(fn func(ok bool)) Option {
	return func(h *Handler) {
		if fn != nil {
			h.observe = fn
		}
	}
}

// NewHandler creates a Handler.
func NewHandler(store *session.Store, c Composer, urls URLResolver, opts ...Option) *Handler {
	h := &Handler{
		store:    store,
		composer: c,
		urls:     urls,
		log:      logging.Nop(),
		observe:  func(bool) {},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register adds the identity routes to mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST "+TokensPath, h.handleAuthenticate)
	mux.HandleFunc("GET "+EndpointsPath, h.handleListEndpoints)
}

func (h *Handler) handleAuthenticate(w http.ResponseWriter, r *http.Request) {
	var req AuthRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteBadRequest(w, "invalid_body", err.Error())
		return
	}

	sess, username := h.sessionFor(req.Auth)

	doc, err := h.composer.Compose(sess.TenantID())
	h.observe(err == nil)
	if err != nil {
		h.log.Error("catalog composition failed", "tenant", sess.TenantID(), "error", err)
		httputil.WriteInternalError(w, "catalog_error", "failed to build the service catalog")
		return
	}

	if username == "" {
		username = sess.Username()
	}
	httputil.WriteOK(w, AccessResponse{Access: Access{
		Token: Token{
			ID:      sess.Token(),
			Expires: sess.ExpiresAt().UTC().Format(time.RFC3339),
			Tenant:  Tenant{ID: sess.TenantID(), Name: sess.TenantID()},
		},
		User:           User{ID: sess.TenantID(), Name: username},
		ServiceCatalog: h.serviceCatalog(doc),
	}})
}

// sessionFor maps the credentials of auth to a session.
func (h *Handler) sessionFor(auth Auth) (*session.Session, string) {
	tenantID := auth.TenantID
	if tenantID == "" {
		tenantID = auth.TenantName
	}

	switch {
	case auth.Token != nil && auth.Token.ID != "":
		return h.store.SessionForToken(auth.Token.ID), ""
	case auth.PasswordCredentials != nil && auth.PasswordCredentials.Username != "":
		name := auth.PasswordCredentials.Username
		return h.store.SessionForUsername(name, tenantID), name
	case auth.apiKey() != nil:
		name := auth.apiKey().Username
		return h.store.SessionForUsername(name, tenantID), name
	default:
		return h.store.SessionForTenant(tenantID), ""
	}
}

func (h *Handler) serviceCatalog(doc *catalog.Document) []CatalogService {
	services := make([]CatalogService, 0, len(doc.Services))
	for _, svc := range doc.Services {
		cs := CatalogService{Name: svc.Name, Type: svc.Type, Endpoints: []CatalogEndpoint{}}
		for _, ep := range svc.Endpoints {
			url, ok := h.urls.EndpointURL(svc, ep)
			if !ok {
				h.log.Warn("endpoint has no public URL", "plugin", svc.Plugin, "region", ep.Region)
				continue
			}
			cs.Endpoints = append(cs.Endpoints, CatalogEndpoint{
				ID:        ep.EndpointID,
				Region:    ep.Region,
				TenantID:  ep.TenantID,
				PublicURL: url,
				VersionID: ep.Prefix,
			})
		}
		services = append(services, cs)
	}
	return services
}

func (h *Handler) handleListEndpoints(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.store.LookupToken(r.PathValue("token"))
	if !ok {
		httputil.WriteNotFound(w, "token_not_found", "no session for token")
		return
	}

	doc, err := h.composer.Compose(sess.TenantID())
	h.observe(err == nil)
	if err != nil {
		h.log.Error("catalog composition failed", "tenant", sess.TenantID(), "error", err)
		httputil.WriteInternalError(w, "catalog_error", "failed to build the service catalog")
		return
	}

	list := EndpointList{Endpoints: []ListedEndpoint{}}
	for _, svc := range doc.Services {
		for _, ep := range svc.Endpoints {
			url, ok := h.urls.EndpointURL(svc, ep)
			if !ok {
				continue
			}
			list.Endpoints = append(list.Endpoints, ListedEndpoint{
				ID:        ep.EndpointID,
				Name:      svc.Name,
				Type:      svc.Type,
				Region:    ep.Region,
				TenantID:  ep.TenantID,
				PublicURL: url,
				VersionID: ep.Prefix,
			})
		}
	}
	httputil.WriteOK(w, list)
}
