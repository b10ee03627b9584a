// Package main provides elysiumctl, the operator CLI: catalog seeding,
// offline build validation, dice, migrations, and account roles.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/cory-johannsen/elysium/internal/config"
	"github.com/cory-johannsen/elysium/internal/storage/postgres"
)

var (
	configPath string
	timeout    time.Duration
)

var rootCmd = &cobra.Command{
	Use:           "elysiumctl",
	Short:         "Elysium operator tools",
	Long:          `elysiumctl seeds the catalog, checks character builds offline, rolls dice, and manages the database.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "configs/dev.yaml", "path to configuration file")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "deadline for database commands")

	rootCmd.AddCommand(seedCmd, validateCmd, rollCmd, migrateCmd, setRoleCmd)
}

// withPool loads the configuration, opens the database, and runs fn under
// the command timeout.
func withPool(fn func(ctx context.Context, cfg config.Config, pool *postgres.Pool) error) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer pool.Close()
	return fn(ctx, cfg, pool)
}
