package mf2

import "errors"

// Fetch and parse errors.
//
// Design decision: We use package-level sentinel errors so callers can
// distinguish failure modes with errors.Is while individual failures still
// carry wrapped detail. The resolver treats both as fatal for a resolution;
// the content transformer treats them as per-token failures.
var (
	// ErrFetch is returned when the page could not be retrieved: network
	// failure, timeout, or a non-success HTTP status.
	ErrFetch = errors.New("failed to fetch page")

	// ErrParse is returned when the retrieved body could not be parsed as
	// HTML.
	ErrParse = errors.New("failed to parse markup")
)
