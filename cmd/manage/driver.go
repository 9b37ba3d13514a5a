package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/yigit/taxiservice/internal/app/services"
	"github.com/yigit/taxiservice/internal/bootstrap"
	"github.com/yigit/taxiservice/internal/config"
	"github.com/yigit/taxiservice/internal/pkg/validation"
	"github.com/yigit/taxiservice/internal/seed"
)

// withServices connects to the configured storage and hands the services to fn
func withServices(configPath string, fn func(ctx context.Context, cfg *config.Config, svc *services.Services, lgr zerolog.Logger) error) error {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(configPath)
	if err != nil {
		return err
	}

	database, err := bootstrap.SetupDatabase(cfg, lgr)
	if err != nil {
		return err
	}
	if database != nil {
		defer database.Close()
	}

	svc := services.NewServices(bootstrap.NewRepositories(database), cfg.Pagination.PageSize)
	return fn(context.Background(), cfg, svc, lgr)
}

func newCreateDriverCmd(configPath *string) *cobra.Command {
	var username, password, firstName, lastName, license string

	cmd := &cobra.Command{
		Use:   "createdriver",
		Short: "Create a driver account that can log in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if username == "" || password == "" {
				return errors.New("--username and --password are required")
			}
			if license != "" {
				if err := validation.CheckLicenseNumber(license); err != nil {
					return fmt.Errorf("invalid --license: %w", err)
				}
			}

			return withServices(*configPath, func(ctx context.Context, _ *config.Config, svc *services.Services, lgr zerolog.Logger) error {
				driver, err := svc.Drivers.Register(ctx, username, password, firstName, lastName, license)
				if err != nil {
					return err
				}
				lgr.Info().Int64("driverID", driver.ID).Str("username", driver.Username).Msg("Driver created")
				fmt.Fprintf(cmd.OutOrStdout(), "Driver %q created with id %d\n", driver.Username, driver.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Login name of the new driver")
	cmd.Flags().StringVar(&password, "password", "", "Password of the new driver")
	cmd.Flags().StringVar(&firstName, "first-name", "", "First name")
	cmd.Flags().StringVar(&lastName, "last-name", "", "Last name")
	cmd.Flags().StringVar(&license, "license", "", "License number, e.g. ABC12345")
	return cmd
}

func newSeedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the default admin driver from the seed configuration",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return withServices(*configPath, func(ctx context.Context, cfg *config.Config, svc *services.Services, lgr zerolog.Logger) error {
				cfg.Seed.Enabled = true
				if cfg.Seed.AdminPassword == "" {
					return errors.New("seed.admin_password (SEED_ADMIN_PASSWORD) must be set")
				}
				return seed.CreateDefaultData(ctx, cfg, svc.Drivers, lgr)
			})
		},
	}
}
