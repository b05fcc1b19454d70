// Package server exposes identity resolution, search and content
// transformation over HTTP.
//
// The router is a chi mux with a small middleware chain: panic recovery,
// per-request UUIDs and structured request logging. Handlers depend on
// narrow interfaces rather than concrete collaborators so that tests can
// exercise the boundary without a database or network.
//
// Resolution failures of every kind surface as 404 responses. A URL with a
// bad scheme, a domain that does not look like a domain and a page that
// cannot be fetched all mean the same thing to a caller: no identity there.
package server
