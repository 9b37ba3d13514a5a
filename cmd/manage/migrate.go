package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yigit/taxiservice/internal/app/migrations"
	"github.com/yigit/taxiservice/internal/bootstrap"
	"github.com/yigit/taxiservice/internal/config"
)

func newMigrateCmd(configPath *string) *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	withMigrator := func(fn func(cmd *cobra.Command, m *migrations.Migrator) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(*configPath)
			if err != nil {
				return err
			}
			if cfg.Database.Driver != config.DriverPostgres {
				return fmt.Errorf("migrations require the %q database driver, configured %q", config.DriverPostgres, cfg.Database.Driver)
			}

			m, err := migrations.NewMigrator(cfg.GetMigrationURL(), lgr)
			if err != nil {
				return err
			}
			defer func() { _ = m.Close() }()
			return fn(cmd, m)
		}
	}

	migrateCmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: withMigrator(func(_ *cobra.Command, m *migrations.Migrator) error {
				return m.Up()
			}),
		},
		&cobra.Command{
			Use:   "down",
			Short: "Revert all migrations",
			Args:  cobra.NoArgs,
			RunE: withMigrator(func(_ *cobra.Command, m *migrations.Migrator) error {
				return m.Down()
			}),
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the current schema version",
			Args:  cobra.NoArgs,
			RunE: withMigrator(func(cmd *cobra.Command, m *migrations.Migrator) error {
				version, dirty, err := m.Version()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %t)\n", version, dirty)
				return nil
			}),
		},
	)
	return migrateCmd
}
