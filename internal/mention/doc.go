// Package mention rewrites @{token} markers in user content into
// platform-specific mentions.
//
// A marker such as @{alice.example.com} names a web identity. The
// transformer resolves each marker to its identity and produces one content
// variant per platform the identity is known on, alongside an untouched
// "original" variant. A twitter variant carries @alice style mentions, an
// HTML variant carries anchor elements, and so on for every platform found.
//
// Markers always trigger a live fetch rather than a cache read. Content is
// typically transformed once at publish time, and publishing against a stale
// set of pseudonyms is worse than the extra round trip.
package mention
