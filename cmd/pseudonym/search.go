package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cleverdevil/pseudonym/internal/database"
)

// NewSearchCmd creates the search command.
func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <term>",
		Short: "Search stored identity records",
		Long: `Search runs a full-text search over the local identity database.

The search covers names, nicknames, usernames and URLs of previously
resolved identities. Only identities that have been resolved at least once
are searchable.

Examples:
  # Search identity records
  pseudonym search alice

  # Search legacy domain-keyed records instead
  pseudonym search --domains alice`,
		Args: cobra.ExactArgs(1),
		RunE: runSearchCmd,
	}

	cmd.Flags().Bool("domains", false,
		"Search legacy domain-keyed records instead of identity records")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .pseudonym in current or home directory)")
	cmd.Flags().String("db-dir", "",
		"Database directory (default: XDG data directory)")

	return cmd
}

// runSearchCmd executes the search command.
func runSearchCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	domains, err := cmd.Flags().GetBool("domains")
	if err != nil {
		return err
	}

	var results any
	if domains {
		results, err = db.SearchDomains(ctx, args[0])
	} else {
		results, err = db.Search(ctx, args[0])
	}
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
