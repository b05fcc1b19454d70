// Package mf2 fetches web pages and parses the microformats2 markup the
// resolver cares about: h-card blocks and rel="me" links.
//
// # Architecture
//
//   - Client: an option-configured HTTP fetcher that retrieves a page and
//     hands the body to the parser
//   - Parser: an HTML walker that extracts h-* cards and rel="me" links
//   - Document: the parse result, with representative h-card selection
//
// Design decision: We parse with golang.org/x/net/html rather than regex
// because:
//  1. It correctly handles malformed HTML common on the web
//  2. Provides a proper DOM-like structure
//  3. More maintainable than complex regex patterns
//  4. Standard library extension, well-maintained
//
// The parser implements the subset of the microformats2 vocabulary the
// resolver needs (h-card types, p-/u- properties, implied name and url,
// rel="me" collection) rather than the full parsing specification. Cards of
// other h-* types are still collected so callers can inspect them.
package mf2
