package services

import (
	"context"
	"fmt"

	"github.com/yigit/taxiservice/internal/app/models/dto"
	"github.com/yigit/taxiservice/internal/app/repositories"
)

// HomeService computes the dashboard counters
type HomeService struct {
	manufacturerRepo repositories.ManufacturerRepository
	carRepo          repositories.CarRepository
	driverRepo       repositories.DriverRepository
}

// NewHomeService creates a new home service instance
func NewHomeService(manufacturerRepo repositories.ManufacturerRepository, carRepo repositories.CarRepository,
	driverRepo repositories.DriverRepository) *HomeService {
	return &HomeService{
		manufacturerRepo: manufacturerRepo,
		carRepo:          carRepo,
		driverRepo:       driverRepo,
	}
}

// Stats counts drivers, cars and manufacturers
func (s *HomeService) Stats(ctx context.Context) (dto.HomeStats, error) {
	var stats dto.HomeStats
	var err error

	if stats.NumDrivers, err = s.driverRepo.Count(ctx); err != nil {
		return stats, fmt.Errorf("error counting drivers: %w", err)
	}
	if stats.NumCars, err = s.carRepo.Count(ctx, repositories.CarFilter{}); err != nil {
		return stats, fmt.Errorf("error counting cars: %w", err)
	}
	if stats.NumManufacturers, err = s.manufacturerRepo.Count(ctx); err != nil {
		return stats, fmt.Errorf("error counting manufacturers: %w", err)
	}

	return stats, nil
}
