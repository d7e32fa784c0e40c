// Package identity serves the token endpoint clients authenticate against.
//
// Authenticating never fails on credentials: any username, API key or token
// is accepted and mapped to a session in the store. The response carries the
// tenant's service catalog with public URLs resolved for the running server.
package identity
