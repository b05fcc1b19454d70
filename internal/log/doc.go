// Package log provides logging functionality with automatic truncation of
// oversized values, built on top of the standard slog package.
//
// This package extends slog to provide:
//   - Truncation of oversized attribute values (page markup, raw content)
//   - Configurable log levels with verbose mode support
//   - Consistent log formatting across the application
//
// Identity resolution handles arbitrary third-party HTML. Logging a fetched
// page or a user's full content verbatim can dump megabytes into the log
// stream, so the TruncateHandler caps every string attribute at a fixed
// length before it reaches the underlying handler.
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, true) // verbose=true
//
//	logger.Debug("fetched page",
//	    "url", "https://example.com/",
//	    "body", body, // capped at MaxValueLength
//	)
//
//	slog.SetDefault(logger)
package log
