// Package model defines the core data structures for the pseudonym resolver.
//
// This package contains the following main types:
//   - Platform: The fixed set of social platforms a pseudonym can target
//   - Pseudonym: A classified (platform, username) pair from a rel="me" link
//   - Identity: A web identity with its canonical URL and pseudonym mapping
//   - ProfileURL: Value object enforcing the canonical URL form
//   - Record / DomainRecord: Persisted and wire representations
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (classify, resolver, database, server) need
// these types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for API responses and
// database storage.
package model
