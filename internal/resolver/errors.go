package resolver

import "errors"

// Resolution errors.
var (
	// ErrNotFound is returned when a URL cannot be resolved to an
	// identity: the fetch failed and no fresh record was available. The
	// boundary layer maps this to a user-visible not-found outcome.
	ErrNotFound = errors.New("identity not found")
)
