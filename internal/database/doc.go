// Package database provides SQLite-based storage for resolved identities.
//
// This package implements the IdentityDB, which stores:
//   - Identity records keyed by canonical URL
//   - Legacy domain-keyed records for the old per-domain lookup path
//   - FTS5 shadow tables powering full-text search
//
// Design decision: We use SQLite (via modernc.org/sqlite) instead of other
// databases because:
//  1. No external dependencies - the database is a single file
//  2. CGO-free implementation allows easy cross-compilation
//  3. Sufficient performance for our use case
//  4. WAL mode provides good concurrent read performance
//
// Full-text search matches over url/domain, name, nicknames, and pseudonym
// usernames. Result ranking is delegated entirely to FTS5's bm25 ordering.
package database
