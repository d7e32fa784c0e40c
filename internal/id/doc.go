// Package id provides identifier generation for sessions, catalog endpoints,
// and bound services.
//
// This is the canonical source for ID generation across the mimic codebase:
//
//   - UUID: random UUID v4 strings, used for catalog endpoint IDs and mock
//     resource IDs
//   - Token: 32-character hex strings used as identity tokens
//   - TenantID: numeric tenant identifiers in the style of cloud accounts
//   - Short: 8-character hex suffixes for service IDs
//
// All random material comes from crypto/rand.
package id
