package services

import (
	"context"
	"fmt"

	"github.com/yigit/taxiservice/internal/app/forms"
	"github.com/yigit/taxiservice/internal/app/models"
	"github.com/yigit/taxiservice/internal/app/models/dto"
	"github.com/yigit/taxiservice/internal/app/repositories"
	"github.com/yigit/taxiservice/internal/pkg/apperrors"
	"github.com/yigit/taxiservice/internal/pkg/logger"
	"github.com/yigit/taxiservice/internal/pkg/metrics"
)

// CarService handles car operations and driver assignment
type CarService struct {
	carRepo          repositories.CarRepository
	manufacturerRepo repositories.ManufacturerRepository
	driverRepo       repositories.DriverRepository
	publisher        AssignmentPublisher
	pageSize         int
}

// AssignmentPublisher is notified after a driver is assigned to or removed from a car
type AssignmentPublisher interface {
	PublishAssignment(carID, driverID int64, assigned bool, drivers []models.Driver)
}

// CarChoices are the options offered by the car form
type CarChoices struct {
	Manufacturers []models.Manufacturer
	Drivers       []models.Driver
}

// NewCarService creates a new car service instance
func NewCarService(carRepo repositories.CarRepository, manufacturerRepo repositories.ManufacturerRepository,
	driverRepo repositories.DriverRepository, pageSize int) *CarService {
	return &CarService{
		carRepo:          carRepo,
		manufacturerRepo: manufacturerRepo,
		driverRepo:       driverRepo,
		pageSize:         pageSize,
	}
}

// SetPublisher registers the receiver of assignment changes
func (s *CarService) SetPublisher(publisher AssignmentPublisher) {
	s.publisher = publisher
}

// List returns the requested page of cars whose model contains search (case-insensitive).
// An invalid search term is ignored and the listing is unfiltered.
func (s *CarService) List(ctx context.Context, page int, search dto.CarSearchRequest) (*Page[models.Car], error) {
	term, ok := forms.ValidateCarSearch(search)
	if !ok {
		logger.Debug().Int("length", len(search.Model)).Msg("Ignoring invalid car search")
	}
	filter := repositories.CarFilter{Model: term}

	total, err := s.carRepo.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error counting cars: %w", err)
	}

	info, offset, limit := pageWindow(total, page, s.pageSize)
	items, err := s.carRepo.List(ctx, filter, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing cars: %w", err)
	}

	return &Page[models.Car]{Items: items, Pagination: info}, nil
}

// Get retrieves a car with its manufacturer and drivers
func (s *CarService) Get(ctx context.Context, id int64) (*models.Car, error) {
	return s.carRepo.GetByID(ctx, id)
}

// Choices loads every manufacturer and driver for the car form
func (s *CarService) Choices(ctx context.Context) (*CarChoices, error) {
	manufacturers, err := s.manufacturerRepo.List(ctx, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("error loading manufacturer choices: %w", err)
	}
	drivers, err := s.driverRepo.List(ctx, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("error loading driver choices: %w", err)
	}
	return &CarChoices{Manufacturers: manufacturers, Drivers: drivers}, nil
}

func (s *CarService) validate(ctx context.Context, req dto.CarRequest) (forms.CarInput, error) {
	choices, err := s.Choices(ctx)
	if err != nil {
		return forms.CarInput{}, err
	}
	return forms.ValidateCar(req, choices.Manufacturers, choices.Drivers)
}

// referenceError turns a reference that vanished between validation and write into a form error
func referenceError(err error) error {
	switch {
	case apperrors.Is(err, apperrors.ErrInvalidReference):
		return apperrors.NewValidationError().Add("manufacturer", forms.MsgInvalidChoice)
	case apperrors.Is(err, apperrors.ErrDriverNotFound):
		return apperrors.NewValidationError().Add("drivers", forms.MsgInvalidChoice)
	default:
		return err
	}
}

// Create validates req and stores the car with its drivers
func (s *CarService) Create(ctx context.Context, req dto.CarRequest) (*models.Car, error) {
	input, err := s.validate(ctx, req)
	if err != nil {
		return nil, err
	}

	car := &models.Car{Model: input.Model, ManufacturerID: input.ManufacturerID}
	if _, err := s.carRepo.Create(ctx, car, input.DriverIDs); err != nil {
		return nil, referenceError(err)
	}
	return car, nil
}

// Update validates req and replaces model, manufacturer and driver set
func (s *CarService) Update(ctx context.Context, id int64, req dto.CarRequest) (*models.Car, error) {
	if _, err := s.carRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	input, err := s.validate(ctx, req)
	if err != nil {
		return nil, err
	}

	car := &models.Car{ID: id, Model: input.Model, ManufacturerID: input.ManufacturerID}
	if err := s.carRepo.Update(ctx, car, input.DriverIDs); err != nil {
		return nil, referenceError(err)
	}
	return car, nil
}

// Delete removes a car and its assignments
func (s *CarService) Delete(ctx context.Context, id int64) error {
	return s.carRepo.Delete(ctx, id)
}

// ToggleAssignment assigns the driver to the car, or unassigns if already assigned,
// and returns the car in its new state
func (s *CarService) ToggleAssignment(ctx context.Context, carID, driverID int64) (*models.Car, bool, error) {
	assigned, err := s.carRepo.ToggleDriver(ctx, carID, driverID)
	if err != nil {
		return nil, false, err
	}
	metrics.RecordToggle(assigned)

	logger.Info().Int64("carID", carID).Int64("driverID", driverID).Bool("assigned", assigned).Msg("Car assignment toggled")

	car, err := s.carRepo.GetByID(ctx, carID)
	if err != nil {
		return nil, false, err
	}
	if s.publisher != nil {
		s.publisher.PublishAssignment(car.ID, driverID, assigned, car.Drivers)
	}
	return car, assigned, nil
}
