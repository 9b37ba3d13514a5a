package seed

import (
	"context"
	"fmt"
	"slices"

	"github.com/rs/zerolog"
	"github.com/yigit/taxiservice/internal/app/forms"
	"github.com/yigit/taxiservice/internal/app/services"
	"github.com/yigit/taxiservice/internal/config"
	"github.com/yigit/taxiservice/internal/pkg/apperrors"
)

// CreateDefaultData registers the configured admin driver if it does not exist yet.
// Does nothing when seeding is disabled.
func CreateDefaultData(ctx context.Context, cfg *config.Config, drivers *services.DriverService, lgr zerolog.Logger) error {
	if !cfg.Seed.Enabled {
		lgr.Debug().Msg("Seeding disabled, skipping default data")
		return nil
	}

	lgr.Info().Str("username", cfg.Seed.AdminUsername).Msg("Checking/Creating default admin driver...")

	_, err := drivers.Register(ctx, cfg.Seed.AdminUsername, cfg.Seed.AdminPassword, "", "", "")
	if err == nil {
		lgr.Info().Str("username", cfg.Seed.AdminUsername).Msg("Default admin driver created")
		return nil
	}

	if verr, ok := apperrors.AsValidationError(err); ok && slices.Contains(verr.Get("username"), forms.MsgUsernameTaken) {
		lgr.Info().Str("username", cfg.Seed.AdminUsername).Msg("Default admin driver already exists")
		return nil
	}

	return fmt.Errorf("failed to create default admin driver: %w", err)
}
