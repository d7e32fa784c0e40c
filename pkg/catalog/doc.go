// Package catalog defines the values that make up a service catalog.
//
// An [Endpoint] is one region/version scoped URL entry for a tenant and
// service; an [Entry] groups endpoints under a (tenant, type, name) triple; a
// [Document] is what a tenant receives when it authenticates. All three are
// plain immutable values built fresh for every catalog request. Endpoint IDs
// are chosen by the mock that builds them and may differ between requests.
package catalog
