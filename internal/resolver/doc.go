// Package resolver implements the identity fetch pipeline and the TTL
// cache-aside resolution strategy on top of it.
//
// # Architecture
//
//   - Resolver: canonicalizes a URL, consults the store for a fresh record,
//     and falls back to the fetch pipeline on miss, staleness, or force
//   - Fetch pipeline: parse markup, pick the representative h-card, classify
//     rel="me" links, stamp the fetch time, persist
//   - Batch: errgroup fan-out for resolving many URLs with bounded
//     concurrency
//
// # Caching
//
// This is classic cache-aside: the caller-facing Resolve checks the store
// first and performs the expensive fetch itself when the record is missing
// or older than the TTL, writing the result back. There is no background
// refresh and no eviction; stale records are overwritten on the next access
// past the TTL. Two concurrent resolutions of the same URL may both fetch
// and both upsert with last-writer-wins semantics - write contention per
// distinct URL is low and the records are idempotent, so no cross-request
// locking is performed.
//
// A fetch failure on the Resolve path is fatal for that resolution: nothing
// is persisted and the caller sees ErrNotFound. The content transformer
// (internal/mention) uses the Fetch entry point directly and bypasses the
// cache, so transform-time mentions always reflect the live page.
package resolver
