package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/cleverdevil/pseudonym/internal/config"
	"github.com/cleverdevil/pseudonym/internal/database"
	"github.com/cleverdevil/pseudonym/internal/log"
	"github.com/cleverdevil/pseudonym/internal/mf2"
	"github.com/cleverdevil/pseudonym/internal/resolver"
)

// buildConfig creates a Config from the optional config file and common
// cobra flags. Flags set explicitly on the command line win over the file.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	configFlag, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	cfg.ConfigFilePath = configFlag

	// If the user explicitly specified a config file path, error if not
	// found. If no path was specified, silently run on defaults.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	if configPath != "" {
		cf, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		if err := cf.Apply(cfg); err != nil {
			return nil, err
		}
	} else if cfg.ConfigFilePath != "" {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	if f := cmd.Flags().Lookup("ttl"); f != nil && f.Changed {
		cfg.TTL, err = cmd.Flags().GetDuration("ttl")
		if err != nil {
			return nil, err
		}
	}
	if f := cmd.Flags().Lookup("timeout"); f != nil && f.Changed {
		cfg.FetchTimeout, err = cmd.Flags().GetDuration("timeout")
		if err != nil {
			return nil, err
		}
	}
	if f := cmd.Flags().Lookup("db-dir"); f != nil && f.Changed {
		cfg.DBDir, err = cmd.Flags().GetString("db-dir")
		if err != nil {
			return nil, err
		}
	}

	cfg.Verbose = getVerboseFlag(cmd)
	return cfg, nil
}

// setupLogger creates the application logger based on verbosity setting.
func setupLogger(verbose bool) *slog.Logger {
	return log.NewLogger(os.Stderr, verbose)
}

// newResolver opens the database and wires the fetch pipeline.
// The caller owns the returned database handle and must close it.
func newResolver(cfg *config.Config, logger *slog.Logger) (*resolver.Resolver, *database.IdentityDB, error) {
	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	client := mf2.NewClient(nil,
		mf2.WithUserAgent(cfg.UserAgent),
		mf2.WithTimeout(cfg.FetchTimeout),
		mf2.WithMaxBodySize(cfg.MaxBodySize),
	)

	res := resolver.New(db, client,
		resolver.WithTTL(cfg.TTL),
		resolver.WithLogger(logger),
	)
	return res, db, nil
}
