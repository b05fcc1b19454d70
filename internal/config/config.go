package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// These values follow typical IndieWeb site characteristics: personal pages
// are small, served from modest hosts, and change rarely.
const (
	// DefaultTTL is how long a stored identity record is considered fresh.
	// 100 seconds is short enough that profile edits show up quickly while
	// still absorbing bursts of lookups for the same identity.
	DefaultTTL = 100 * time.Second

	// DefaultFetchTimeout bounds a single identity page fetch. Personal
	// sites are occasionally slow, but anything beyond 30 seconds is more
	// likely a dead host than a slow one.
	DefaultFetchTimeout = 30 * time.Second

	// DefaultListenAddress is where the HTTP server binds. The empty host
	// binds on all interfaces.
	DefaultListenAddress = ":8080"

	// DefaultConcurrency is the number of concurrent fetches when resolving
	// multiple URLs. Identity pages live on many different hosts, so modest
	// parallelism is safe.
	DefaultConcurrency = 10

	// AppName is the application name used for XDG directory paths.
	AppName = "pseudonym"

	// DefaultUserAgent identifies the service in HTTP requests. A
	// descriptive User-Agent lets site operators identify the traffic in
	// their logs.
	DefaultUserAgent = "pseudonym/1.0 (+https://github.com/cleverdevil/pseudonym)"

	// DefaultMaxBodySize limits the maximum response body size to read.
	// 5MB is sufficient for any sane HTML page while preventing memory
	// exhaustion from unexpectedly large responses.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB
)

// Config holds all configuration options for the pseudonym service.
// It is populated from CLI flags and an optional config file and passed
// through the application via dependency injection rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// for simplicity. The number of options is manageable, and nesting would
// add complexity without significant benefit.
type Config struct {
	// TTL is how long a stored identity record stays fresh. Lookups within
	// the TTL are served from the database without refetching.
	TTL time.Duration

	// FetchTimeout is the timeout for a single identity page fetch.
	FetchTimeout time.Duration

	// ListenAddress is the HTTP server bind address in "host:port" format.
	ListenAddress string

	// Concurrency is the number of concurrent fetches when resolving
	// multiple URLs in one invocation.
	Concurrency int

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only informational messages and errors are logged.
	Verbose bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .pseudonym in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// JSONReport enables JSON output for CLI resolution results.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown output for CLI resolution results.
	// Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for CLI reports.
	// When set, the report is written to this file instead of stdout.
	ReportFile string

	// DBDir is the directory path for the SQLite database holding identity
	// records. Defaults to the XDG data directory
	// (~/.local/share/pseudonym on Linux).
	DBDir string

	// UserAgent is the User-Agent header sent with identity page fetches.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to read.
	// Responses larger than this are truncated. Set to 0 to use the
	// default (5MB).
	MaxBodySize int64
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use
// cases. Users can override specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (e.g., TTL, timeouts).
// This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		TTL:           DefaultTTL,
		FetchTimeout:  DefaultFetchTimeout,
		ListenAddress: DefaultListenAddress,
		Concurrency:   DefaultConcurrency,
		DBDir:         XDGDataDir(),
		UserAgent:     DefaultUserAgent,
		MaxBodySize:   DefaultMaxBodySize,
	}
}

// XDGDataDir returns the XDG data directory for the service.
// On Linux: ~/.local/share/pseudonym
// On macOS: ~/Library/Application Support/pseudonym
// On Windows: %LOCALAPPDATA%\pseudonym
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for the service.
// On Linux: ~/.config/pseudonym
// On macOS: ~/Library/Application Support/pseudonym
// On Windows: %APPDATA%\pseudonym
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// The first error found is returned rather than collecting all errors,
// because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	if c.TTL <= 0 {
		return ErrInvalidTTL
	}
	if c.FetchTimeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.ListenAddress == "" {
		return ErrInvalidListenAddress
	}
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}
	return nil
}
