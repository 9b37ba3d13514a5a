package services

import (
	"context"
	"fmt"

	"github.com/yigit/taxiservice/internal/app/forms"
	"github.com/yigit/taxiservice/internal/app/models"
	"github.com/yigit/taxiservice/internal/app/models/dto"
	"github.com/yigit/taxiservice/internal/app/repositories"
)

// ManufacturerService handles manufacturer operations
type ManufacturerService struct {
	manufacturerRepo repositories.ManufacturerRepository
	pageSize         int
}

// NewManufacturerService creates a new manufacturer service instance
func NewManufacturerService(manufacturerRepo repositories.ManufacturerRepository, pageSize int) *ManufacturerService {
	return &ManufacturerService{
		manufacturerRepo: manufacturerRepo,
		pageSize:         pageSize,
	}
}

// List returns the requested page of manufacturers ordered by name
func (s *ManufacturerService) List(ctx context.Context, page int) (*Page[models.Manufacturer], error) {
	total, err := s.manufacturerRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("error counting manufacturers: %w", err)
	}

	info, offset, limit := pageWindow(total, page, s.pageSize)
	items, err := s.manufacturerRepo.List(ctx, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing manufacturers: %w", err)
	}

	return &Page[models.Manufacturer]{Items: items, Pagination: info}, nil
}

// Get retrieves a manufacturer by ID
func (s *ManufacturerService) Get(ctx context.Context, id int64) (*models.Manufacturer, error) {
	return s.manufacturerRepo.GetByID(ctx, id)
}

// Create validates req and stores a new manufacturer
func (s *ManufacturerService) Create(ctx context.Context, req dto.ManufacturerRequest) (*models.Manufacturer, error) {
	cleaned, err := forms.ValidateManufacturer(req)
	if err != nil {
		return nil, err
	}

	manufacturer := &models.Manufacturer{Name: cleaned.Name, Country: cleaned.Country}
	if _, err := s.manufacturerRepo.Create(ctx, manufacturer); err != nil {
		return nil, fmt.Errorf("error creating manufacturer: %w", err)
	}
	return manufacturer, nil
}

// Update validates req and overwrites the manufacturer's fields
func (s *ManufacturerService) Update(ctx context.Context, id int64, req dto.ManufacturerRequest) (*models.Manufacturer, error) {
	if _, err := s.manufacturerRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	cleaned, err := forms.ValidateManufacturer(req)
	if err != nil {
		return nil, err
	}

	manufacturer := &models.Manufacturer{ID: id, Name: cleaned.Name, Country: cleaned.Country}
	if err := s.manufacturerRepo.Update(ctx, manufacturer); err != nil {
		return nil, err
	}
	return manufacturer, nil
}

// Delete removes the manufacturer and, by cascade, its cars
func (s *ManufacturerService) Delete(ctx context.Context, id int64) error {
	return s.manufacturerRepo.Delete(ctx, id)
}
