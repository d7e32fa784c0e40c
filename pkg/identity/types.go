package identity

// AuthRequest is the body of POST /identity/v2.0/tokens.
type AuthRequest struct {
	Auth Auth `json:"auth"`
}

// Auth holds the credentials of an AuthRequest. At most one credential kind
// is expected; a token takes precedence over a username.
type Auth struct {
	PasswordCredentials  *PasswordCredentials `json:"passwordCredentials,omitempty"`
	APIKeyCredentials    *APIKeyCredentials   `json:"apiKeyCredentials,omitempty"`
	RAXAPIKeyCredentials *APIKeyCredentials   `json:"RAX-KSKEY:apiKeyCredentials,omitempty"`
	Token                *TokenCredentials    `json:"token,omitempty"`
	TenantID             string               `json:"tenantId,omitempty"`
	TenantName           string               `json:"tenantName,omitempty"`
}

// apiKey returns the API key credentials under either key, or nil.
func (a Auth) apiKey() *APIKeyCredentials {
	for _, c := range []*APIKeyCredentials{a.APIKeyCredentials, a.RAXAPIKeyCredentials} {
		if c != nil && c.Username != "" {
			return c
		}
	}
	return nil
}

// PasswordCredentials authenticate a username with a password.
type PasswordCredentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// APIKeyCredentials authenticate a username with an API key.
type APIKeyCredentials struct {
	Username string `json:"username"`
	APIKey   string `json:"apiKey"`
}

// TokenCredentials re-authenticate with an issued token.
type TokenCredentials struct {
	ID string `json:"id"`
}

// AccessResponse is the body of a successful authentication.
type AccessResponse struct {
	Access Access `json:"access"`
}

// Access describes the issued token and the tenant's catalog.
type Access struct {
	Token          Token            `json:"token"`
	User           User             `json:"user"`
	ServiceCatalog []CatalogService `json:"serviceCatalog"`
}

// Token is an issued token.
type Token struct {
	ID      string `json:"id"`
	Expires string `json:"expires"`
	Tenant  Tenant `json:"tenant"`
}

// Tenant identifies the token's tenant.
type Tenant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// User identifies the authenticated user.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CatalogService is one service of the catalog.
type CatalogService struct {
	Name      string            `json:"name"`
	Type      string            `json:"type"`
	Endpoints []CatalogEndpoint `json:"endpoints"`
}

// CatalogEndpoint is one public endpoint of a service.
type CatalogEndpoint struct {
	ID        string `json:"id"`
	Region    string `json:"region"`
	TenantID  string `json:"tenantId"`
	PublicURL string `json:"publicURL"`
	VersionID string `json:"versionId,omitempty"`
}

// EndpointList is the body of GET /identity/v2.0/tokens/{token}/endpoints.
type EndpointList struct {
	Endpoints []ListedEndpoint `json:"endpoints"`
}

// ListedEndpoint is a catalog endpoint with the service it belongs to.
type ListedEndpoint struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	Region    string `json:"region"`
	TenantID  string `json:"tenantId"`
	PublicURL string `json:"publicURL"`
	VersionID string `json:"versionId,omitempty"`
}
