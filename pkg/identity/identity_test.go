package identity

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/mimic/pkg/catalog"
	"github.com/getmockd/mimic/pkg/composer"
	"github.com/getmockd/mimic/pkg/mocks/example"
	"github.com/getmockd/mimic/pkg/mocks/glance"
	"github.com/getmockd/mimic/pkg/plugin"
	"github.com/getmockd/mimic/pkg/resolver"
	"github.com/getmockd/mimic/pkg/session"
)

type fixture struct {
	store    *session.Store
	resolver *resolver.Resolver
	mux      *http.ServeMux
	observed []bool
}

func newFixture(t *testing.T, plugins ...plugin.Plugin) *fixture {
	t.Helper()
	reg := plugin.NewRegistry()
	reg.MustRegister(plugins...)

	f := &fixture{store: session.NewStore(), mux: http.NewServeMux()}
	f.resolver = resolver.New("http://mimic.test", f.store)
	require.NoError(t, f.resolver.Bind(reg))

	h := NewHandler(f.store, composer.New(reg), f.resolver,
		WithCatalogObserver(func(ok bool) { f.observed = append(f.observed, ok) }))
	h.Register(f.mux)
	return f
}

func (f *fixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func TestAuthenticate_Password(t *testing.T) {
	t.Parallel()
	f := newFixture(t,
		plugin.Region("images", glance.New("ORD", "DFW")),
		plugin.External("external", example.NewExternalAPI()),
		plugin.Domain("domain", example.NewDomainAPI("", nil)),
	)

	rec := f.do(t, http.MethodPost, TokensPath,
		`{"auth":{"passwordCredentials":{"username":"alice","password":"x"},"tenantId":"123456"}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decode[AccessResponse](t, rec)
	access := resp.Access
	assert.Equal(t, "123456", access.Token.Tenant.ID)
	assert.Equal(t, "alice", access.User.Name)
	assert.NotEmpty(t, access.Token.ID)
	assert.NotEmpty(t, access.Token.Expires)

	require.Len(t, access.ServiceCatalog, 2)
	images := access.ServiceCatalog[0]
	assert.Equal(t, glance.ServiceName, images.Name)
	require.Len(t, images.Endpoints, 2)

	prefix, ok := f.resolver.URIPrefix("images", "ORD")
	require.True(t, ok)
	assert.Equal(t, prefix+"v2/123456", images.Endpoints[0].PublicURL)
	assert.Equal(t, "v2", images.Endpoints[0].VersionID)
	assert.NotEmpty(t, images.Endpoints[0].ID)
	assert.NotEqual(t, images.Endpoints[0].ID, images.Endpoints[1].ID)

	ext := access.ServiceCatalog[1]
	assert.Equal(t, "externalServiceName", ext.Name)
	assert.Equal(t, "https://api.external.example.com:8080/v1/123456", ext.Endpoints[0].PublicURL)
	assert.Equal(t, "uuid", ext.Endpoints[0].ID)

	sess, ok := f.store.LookupToken(access.Token.ID)
	require.True(t, ok)
	assert.Equal(t, "alice", sess.Username())
	assert.Equal(t, []bool{true}, f.observed)
}

func TestAuthenticate_SessionMapping(t *testing.T) {
	t.Parallel()
	f := newFixture(t, plugin.Region("example", example.NewAPI("hi")))

	auth := func(body string) Access {
		rec := f.do(t, http.MethodPost, TokensPath, body)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		return decode[AccessResponse](t, rec).Access
	}

	first := auth(`{"auth":{"RAX-KSKEY:apiKeyCredentials":{"username":"bob","apiKey":"k"}}}`)
	again := auth(`{"auth":{"apiKeyCredentials":{"username":"bob","apiKey":"other"}}}`)
	assert.Equal(t, first.Token.ID, again.Token.ID)
	assert.Equal(t, first.Token.Tenant.ID, again.Token.Tenant.ID)

	byToken := auth(`{"auth":{"token":{"id":"` + first.Token.ID + `"}}}`)
	assert.Equal(t, first.Token.Tenant.ID, byToken.Token.Tenant.ID)
	assert.Equal(t, "bob", byToken.User.Name)

	byTenant := auth(`{"auth":{"tenantName":"654321"}}`)
	assert.Equal(t, "654321", byTenant.Token.Tenant.ID)

	anonymous := auth(`{"auth":{}}`)
	assert.NotEmpty(t, anonymous.Token.Tenant.ID)
	assert.NotEqual(t, first.Token.Tenant.ID, anonymous.Token.Tenant.ID)
}

func TestAuthenticate_BadBody(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	for _, body := range []string{"", "{not json"} {
		rec := f.do(t, http.MethodPost, TokensPath, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
	assert.Zero(t, f.store.Len())
}

type failingAPI struct{ err error }

func (f failingAPI) CatalogEntries(string) ([]catalog.Entry, error) { return nil, f.err }

func (failingAPI) ResourceForRegion(string, string, *session.Store) (http.Handler, error) {
	return http.NotFoundHandler(), nil
}

func TestAuthenticate_CompositionFailure(t *testing.T) {
	t.Parallel()
	f := newFixture(t,
		plugin.Region("example", example.NewAPI("hi")),
		plugin.Region("broken", failingAPI{err: errors.New("catalog down")}),
	)

	rec := f.do(t, http.MethodPost, TokensPath, `{"auth":{"tenantId":"123456"}}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "serviceCatalog")
	assert.Equal(t, []bool{false}, f.observed)
}

func TestListEndpoints(t *testing.T) {
	t.Parallel()
	f := newFixture(t, plugin.Region("images", glance.New("ORD")))

	rec := f.do(t, http.MethodPost, TokensPath, `{"auth":{"tenantId":"123456"}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	token := decode[AccessResponse](t, rec).Access.Token.ID

	rec = f.do(t, http.MethodGet, "/identity/v2.0/tokens/"+token+"/endpoints", "")
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[EndpointList](t, rec)
	require.Len(t, list.Endpoints, 1)
	ep := list.Endpoints[0]
	assert.Equal(t, "ORD", ep.Region)
	assert.Equal(t, glance.ServiceType, ep.Type)
	assert.NotEmpty(t, ep.ID)
	assert.True(t, strings.HasSuffix(ep.PublicURL, "/v2/123456"))

	rec = f.do(t, http.MethodGet, "/identity/v2.0/tokens/unknown/endpoints", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
