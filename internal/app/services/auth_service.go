package services

import (
	"context"

	"github.com/yigit/taxiservice/internal/app/forms"
	"github.com/yigit/taxiservice/internal/app/models"
	"github.com/yigit/taxiservice/internal/app/models/dto"
	"github.com/yigit/taxiservice/internal/app/repositories"
	"github.com/yigit/taxiservice/internal/pkg/apperrors"
	"github.com/yigit/taxiservice/internal/pkg/auth"
	"github.com/yigit/taxiservice/internal/pkg/logger"
	"github.com/yigit/taxiservice/internal/pkg/metrics"
)

// AuthService verifies credentials and resolves session drivers
type AuthService struct {
	driverRepo repositories.DriverRepository
}

// NewAuthService creates a new auth service instance
func NewAuthService(driverRepo repositories.DriverRepository) *AuthService {
	return &AuthService{driverRepo: driverRepo}
}

// Authenticate validates the login form and checks the password.
// Unknown usernames and wrong passwords yield the same form error.
func (s *AuthService) Authenticate(ctx context.Context, req dto.LoginRequest) (*models.Driver, error) {
	cleaned, err := forms.ValidateLogin(req)
	if err != nil {
		return nil, err
	}

	driver, err := s.driverRepo.GetByUsername(ctx, cleaned.Username)
	if err != nil {
		if !apperrors.Is(err, apperrors.ErrDriverNotFound) {
			return nil, err
		}
		driver = nil
	}

	if driver == nil || !auth.CheckPassword(driver.Password, cleaned.Password) {
		metrics.RecordLogin(false)
		logger.Info().Str("username", cleaned.Username).Msg("Failed login attempt")
		return nil, apperrors.NewValidationError().Add(apperrors.NonFieldErrors, forms.MsgBadCredentials)
	}

	metrics.RecordLogin(true)
	return driver, nil
}

// SessionDriver loads the driver a session belongs to
func (s *AuthService) SessionDriver(ctx context.Context, driverID int64) (*models.Driver, error) {
	return s.driverRepo.GetByID(ctx, driverID)
}
