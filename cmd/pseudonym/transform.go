package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cleverdevil/pseudonym/internal/config"
	"github.com/cleverdevil/pseudonym/internal/mention"
)

// NewTransformCmd creates the transform command.
func NewTransformCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transform <content>",
		Short: "Expand @{token} mentions into per-platform content variants",
		Long: `Transform expands @{token} mention markers in a piece of content.

Each marker names a web identity, for example @{alice.example.com}. The
command resolves every marker and prints one content variant per platform
the mentioned identities are known on, plus the untouched original.

Markers always trigger a live fetch so the mentions reflect the current
state of each identity page.

Examples:
  pseudonym transform "great post by @{alice.example.com}!"`,
		Args: cobra.ExactArgs(1),
		RunE: runTransformCmd,
	}

	cmd.Flags().DurationP("timeout", "t", config.DefaultFetchTimeout,
		"Timeout for each page fetch")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .pseudonym in current or home directory)")
	cmd.Flags().String("db-dir", "",
		"Database directory (default: XDG data directory)")

	return cmd
}

// runTransformCmd executes the transform command.
func runTransformCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
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

	transformer := mention.NewTransformer(res, mention.WithLogger(logger))
	variants := transformer.Transform(ctx, args[0])

	data, err := json.MarshalIndent(variants, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
