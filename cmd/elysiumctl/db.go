package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cory-johannsen/elysium/internal/config"
	"github.com/cory-johannsen/elysium/internal/game/catalog"
	"github.com/cory-johannsen/elysium/internal/storage/postgres"
)

var (
	seedPath     string
	migrateSteps int
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the catalog YAML into the database",
	Long:  `seed replaces the catalog tables with the contents of a catalog YAML document.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		start := time.Now()
		return withPool(func(ctx context.Context, cfg config.Config, pool *postgres.Pool) error {
			path := seedPath
			if path == "" {
				path = cfg.Content.CatalogPath
			}
			cat, err := catalog.LoadFile(path)
			if err != nil {
				return err
			}
			if err := postgres.NewCatalogRepository(pool.DB()).Seed(ctx, cat); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d clans, %d merits, %d flaws from %s [%s]\n",
				len(cat.Clans), len(cat.Merits), len(cat.Flaws), path, time.Since(start))
			return nil
		})
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the embedded schema migrations",
	Long:  `migrate applies every pending migration, or with --steps moves that many versions (negative rolls back).`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		start := time.Now()
		return withPool(func(_ context.Context, _ config.Config, pool *postgres.Pool) error {
			if err := pool.Migrate(migrateSteps); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema migrated [%s]\n", time.Since(start))
			return nil
		})
	},
}

var setRoleCmd = &cobra.Command{
	Use:   "setrole <username> <role>",
	Short: "Set an account's role (player, storyteller, admin)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		username, role := args[0], args[1]
		if !postgres.ValidRole(role) {
			return fmt.Errorf("invalid role %q: must be one of %s, %s, %s",
				role, postgres.RolePlayer, postgres.RoleStoryteller, postgres.RoleAdmin)
		}
		return withPool(func(ctx context.Context, _ config.Config, pool *postgres.Pool) error {
			if err := postgres.NewAccountRepository(pool.DB()).SetRole(ctx, username, role); err != nil {
				return fmt.Errorf("setting role for %s: %w", username, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", username, role)
			return nil
		})
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedPath, "catalog", "", "catalog YAML to load (defaults to content.catalog_path)")
	migrateCmd.Flags().IntVar(&migrateSteps, "steps", 0, "number of versions to move (0 = all the way up)")
}
