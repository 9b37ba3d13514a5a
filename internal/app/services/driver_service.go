package services

import (
	"context"
	"fmt"

	"github.com/yigit/taxiservice/internal/app/forms"
	"github.com/yigit/taxiservice/internal/app/models"
	"github.com/yigit/taxiservice/internal/app/models/dto"
	"github.com/yigit/taxiservice/internal/app/repositories"
	"github.com/yigit/taxiservice/internal/pkg/apperrors"
	"github.com/yigit/taxiservice/internal/pkg/auth"
)

// DriverService handles driver registration and maintenance
type DriverService struct {
	driverRepo repositories.DriverRepository
	carRepo    repositories.CarRepository
	pageSize   int
}

// NewDriverService creates a new driver service instance
func NewDriverService(driverRepo repositories.DriverRepository, carRepo repositories.CarRepository, pageSize int) *DriverService {
	return &DriverService{
		driverRepo: driverRepo,
		carRepo:    carRepo,
		pageSize:   pageSize,
	}
}

// List returns the requested page of drivers ordered by username
func (s *DriverService) List(ctx context.Context, page int) (*Page[models.Driver], error) {
	total, err := s.driverRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("error counting drivers: %w", err)
	}

	info, offset, limit := pageWindow(total, page, s.pageSize)
	items, err := s.driverRepo.List(ctx, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing drivers: %w", err)
	}

	return &Page[models.Driver]{Items: items, Pagination: info}, nil
}

// Get retrieves a driver with the cars they are assigned to
func (s *DriverService) Get(ctx context.Context, id int64) (*models.Driver, error) {
	driver, err := s.driverRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	cars, err := s.carRepo.ListByDriver(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error loading driver cars: %w", err)
	}
	driver.Cars = cars
	return driver, nil
}

// conflictError maps uniqueness conflicts to field errors
func conflictError(err error) error {
	switch {
	case apperrors.Is(err, apperrors.ErrUsernameTaken):
		return apperrors.NewValidationError().Add("username", forms.MsgUsernameTaken)
	case apperrors.Is(err, apperrors.ErrLicenseNumberTaken):
		return apperrors.NewValidationError().Add("license_number", forms.MsgLicenseTaken)
	default:
		return err
	}
}

// Create validates the registration form, hashes the password and stores the driver
func (s *DriverService) Create(ctx context.Context, req dto.DriverCreateRequest) (*models.Driver, error) {
	cleaned, err := forms.ValidateDriverCreate(req)
	if err != nil {
		return nil, err
	}

	return s.Register(ctx, cleaned.Username, cleaned.Password1, cleaned.FirstName, cleaned.LastName, cleaned.LicenseNumber)
}

// Register stores a driver without form validation. Used by seeding and the management CLI.
func (s *DriverService) Register(ctx context.Context, username, password, firstName, lastName, licenseNumber string) (*models.Driver, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	driver := &models.Driver{
		Username:      username,
		Password:      hash,
		FirstName:     firstName,
		LastName:      lastName,
		LicenseNumber: licenseNumber,
	}
	if _, err := s.driverRepo.Create(ctx, driver); err != nil {
		return nil, conflictError(err)
	}
	return driver, nil
}

// UpdateLicense validates and replaces the driver's license number
func (s *DriverService) UpdateLicense(ctx context.Context, id int64, req dto.DriverLicenseUpdateRequest) (*models.Driver, error) {
	driver, err := s.driverRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	cleaned, err := forms.ValidateDriverLicenseUpdate(req)
	if err != nil {
		return nil, err
	}

	if err := s.driverRepo.UpdateLicenseNumber(ctx, id, cleaned.LicenseNumber); err != nil {
		return nil, conflictError(err)
	}
	driver.LicenseNumber = cleaned.LicenseNumber
	return driver, nil
}

// Delete removes a driver and their assignments
func (s *DriverService) Delete(ctx context.Context, id int64) error {
	return s.driverRepo.Delete(ctx, id)
}
