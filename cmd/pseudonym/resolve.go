package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cleverdevil/pseudonym/internal/config"
	"github.com/cleverdevil/pseudonym/internal/model"
	"github.com/cleverdevil/pseudonym/internal/report"
	"github.com/cleverdevil/pseudonym/internal/resolver"
)

// NewResolveCmd creates the resolve command.
func NewResolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve <url> [url...]",
		Short: "Resolve a web identity into its pseudonyms",
		Long: `Resolve fetches one or more identity pages and reports the pseudonyms
found in their microformats2 markup and rel="me" links.

Results are cached in a local SQLite database. A URL resolved within the
TTL is served from the cache; use --force to refetch unconditionally.

Examples:
  # Resolve a single identity
  pseudonym resolve https://alice.example.com

  # Resolve several identities concurrently
  pseudonym resolve https://alice.example.com https://bob.example.org

  # Treat arguments as bare domains (legacy lookup path)
  pseudonym resolve --domain alice.example.com

  # Force a refetch and output JSON
  pseudonym resolve --force --json https://alice.example.com

  # Write a Markdown report to a file
  pseudonym resolve --markdown -o report.md https://alice.example.com`,
		Args: cobra.MinimumNArgs(1),
		RunE: runResolveCmd,
	}

	// Resolution behavior flags
	cmd.Flags().BoolP("force", "f", false,
		"Refetch even if a fresh record is cached")
	cmd.Flags().Bool("domain", false,
		"Treat arguments as bare domains instead of URLs")
	cmd.Flags().Duration("ttl", config.DefaultTTL,
		"How long cached records stay fresh")
	cmd.Flags().DurationP("timeout", "t", config.DefaultFetchTimeout,
		"Timeout for each page fetch")
	cmd.Flags().IntP("batch", "b", config.DefaultConcurrency,
		"Number of concurrent fetches")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .pseudonym in current or home directory)")
	cmd.Flags().String("db-dir", "",
		"Database directory (default: XDG data directory)")

	// Output flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write output to specified file path (creates directories if needed)")

	return cmd
}

// runResolveCmd executes the resolve command.
func runResolveCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildResolveConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cfg.Verbose)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, db, err := newResolver(cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}
	domainMode, err := cmd.Flags().GetBool("domain")
	if err != nil {
		return err
	}

	var results []report.Result
	if domainMode {
		results = resolveDomains(ctx, res, args, force)
	} else {
		results = resolveURLs(ctx, res, args, force, cfg.Concurrency)
	}

	if err := writeResults(cfg, results); err != nil {
		return err
	}

	if failed := countFailures(results); failed == len(results) {
		return errors.New("no identities could be resolved")
	}
	return nil
}

// buildResolveConfig extends the common config with resolve-only flags.
func buildResolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return nil, err
	}

	if f := cmd.Flags().Lookup("batch"); f != nil && f.Changed {
		cfg.Concurrency, err = cmd.Flags().GetInt("batch")
		if err != nil {
			return nil, err
		}
	}
	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}
	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}
	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolveURLs resolves identity URLs concurrently.
func resolveURLs(ctx context.Context, res *resolver.Resolver, urls []string, force bool, concurrency int) []report.Result {
	batch := resolver.NewBatch(res, resolver.WithConcurrency(concurrency))
	batchResults := batch.ResolveAll(ctx, urls, force)

	results := make([]report.Result, 0, len(batchResults))
	for _, br := range batchResults {
		results = append(results, toResult(br.URL, br.Identity, br.Err))
	}
	return results
}

// resolveDomains resolves bare domains sequentially on the legacy path.
func resolveDomains(ctx context.Context, res *resolver.Resolver, domains []string, force bool) []report.Result {
	results := make([]report.Result, 0, len(domains))
	for _, domain := range domains {
		identity, err := res.ResolveDomain(ctx, domain, force)
		results = append(results, toResult(domain, identity, err))
	}
	return results
}

func toResult(url string, identity *model.Identity, err error) report.Result {
	if err != nil {
		return report.Result{URL: url, Error: err.Error()}
	}
	return report.Result{URL: url, Record: model.NewRecord(identity)}
}

func countFailures(results []report.Result) int {
	failed := 0
	for _, r := range results {
		if r.Record == nil {
			failed++
		}
	}
	return failed
}

// writeResults picks the output format and destination from the config.
func writeResults(cfg *config.Config, results []report.Result) error {
	var out io.Writer = os.Stdout
	if cfg.ReportFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.ReportFile), 0o750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		f, err := os.Create(cfg.ReportFile) //nolint:gosec // User-provided output path is intentional
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	var w report.Writer
	switch {
	case cfg.JSONReport:
		w = report.NewJSONWriter(out, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		w = report.NewMarkdownWriter(out)
	default:
		w = report.NewSimpleWriter(out, report.WithVerbose(cfg.Verbose))
	}

	if _, err := w.Write(results); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}
	return nil
}
