package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cleverdevil/pseudonym/internal/config"
	"github.com/cleverdevil/pseudonym/internal/mention"
	"github.com/cleverdevil/pseudonym/internal/server"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the pseudonym HTTP service",
		Long: `Serve runs the pseudonym HTTP service.

The service exposes identity resolution, full-text search and content
transformation:

  GET  /identity?url=U[&force=1]       resolve a URL to its identity record
  GET  /domains/{domain}               resolve a bare domain (legacy path)
  GET  /domains/{domain}/{platform}    one pseudonym of a domain's identity
  GET  /search/{term}                  full-text search over stored records
  POST /content                        expand @{token} mentions in content
  GET  /content/format?content=        query-string form of /content

Examples:
  # Serve on the default address
  pseudonym serve

  # Serve on a specific address with verbose logging
  pseudonym serve --listen 127.0.0.1:9000 -v`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}

	cmd.Flags().StringP("listen", "l", config.DefaultListenAddress,
		"HTTP listen address")
	cmd.Flags().Duration("ttl", config.DefaultTTL,
		"How long cached records stay fresh")
	cmd.Flags().DurationP("timeout", "t", config.DefaultFetchTimeout,
		"Timeout for each page fetch")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .pseudonym in current or home directory)")
	cmd.Flags().String("db-dir", "",
		"Database directory (default: XDG data directory)")

	return cmd
}

// runServeCmd executes the serve command.
func runServeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if f := cmd.Flags().Lookup("listen"); f != nil && f.Changed {
		cfg.ListenAddress, err = cmd.Flags().GetString("listen")
		if err != nil {
			return err
		}
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
	logger.Info("database opened", "dir", cfg.DBDir)

	transformer := mention.NewTransformer(res, mention.WithLogger(logger))
	srv := server.New(cfg.ListenAddress, res, transformer, db, logger)

	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("http server: %w", err)
	}
	logger.Info("http server stopped")
	return nil
}
