// Package config provides configuration structures and utilities for the
// pseudonym service. It defines options for identity fetching, cache
// freshness, the HTTP server, and report generation preferences.
package config
