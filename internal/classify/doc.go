// Package classify implements the pseudonym classification registry.
//
// The classifier holds a fixed, ordered table of platform matchers built
// once at construction time. Each matcher pairs a platform with a URL
// pattern that captures the username-bearing path segment.
//
// Design decision: We use an explicit, statically enumerated table rather
// than letting platform definitions register themselves into a shared
// registry as a side effect of declaration. The registry contents are
// visible in one place, there is no runtime mutation, and the matcher
// order (which decides first-match-wins ties) is stated rather than an
// accident of declaration sequence.
package classify
