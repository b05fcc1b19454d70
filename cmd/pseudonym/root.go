// Package main provides the entry point for the pseudonym CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for pseudonym.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pseudonym",
		Short: "Resolve web identities into cross-platform pseudonyms",
		Long: `Pseudonym resolves web identities into their cross-platform pseudonyms.

Given a personal URL, it fetches the page, reads its microformats2 markup
and rel="me" links, and reports the person's usernames on Twitter, GitHub,
Instagram, LinkedIn, Keybase and micro.blog.

Resolved identities are cached in a local SQLite database and refreshed
when they go stale.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewResolveCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewTransformCmd())
	cmd.AddCommand(NewSearchCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}
