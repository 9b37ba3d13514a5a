package memory

import (
	"context"

	"github.com/yigit/taxiservice/internal/app/models"
	"github.com/yigit/taxiservice/internal/app/repositories"
	"github.com/yigit/taxiservice/internal/pkg/apperrors"
)

// CarRepository is the in-memory repositories.CarRepository
type CarRepository struct {
	store *Store
}

// must be called with mu held for writing
func (s *Store) checkCarReferences(manufacturerID int64, driverIDs []int64) error {
	if _, ok := s.manufacturers[manufacturerID]; !ok {
		return apperrors.ErrInvalidReference
	}
	for _, id := range driverIDs {
		if _, ok := s.drivers[id]; !ok {
			return apperrors.ErrDriverNotFound
		}
	}
	return nil
}

// must be called with mu held for writing
func (s *Store) deleteCar(id int64) {
	delete(s.cars, id)
	for a := range s.assignments {
		if a.carID == id {
			delete(s.assignments, a)
		}
	}
}

// must be called with mu held for writing
func (s *Store) assign(carID int64, driverIDs []int64) {
	for _, driverID := range driverIDs {
		s.assignments[assignment{carID: carID, driverID: driverID}] = struct{}{}
	}
}

func (r *CarRepository) Create(_ context.Context, car *models.Car, driverIDs []int64) (int64, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkCarReferences(car.ManufacturerID, driverIDs); err != nil {
		return 0, err
	}

	car.ID = s.allocateID("cars")
	s.cars[car.ID] = models.Car{ID: car.ID, Model: car.Model, ManufacturerID: car.ManufacturerID}
	s.assign(car.ID, driverIDs)
	return car.ID, nil
}

func (r *CarRepository) GetByID(_ context.Context, id int64) (*models.Car, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.cars[id]
	if !ok {
		return nil, apperrors.ErrCarNotFound
	}
	car := s.carWithManufacturer(stored)
	car.Drivers = s.driversOf(id)
	return &car, nil
}

func (r *CarRepository) List(_ context.Context, filter repositories.CarFilter, offset, limit uint64) ([]models.Car, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	cars := s.sortedCars(func(c models.Car) bool { return matchesFilter(c, filter) })
	start, end := page(len(cars), offset, limit)
	return cars[start:end], nil
}

func (r *CarRepository) Count(_ context.Context, filter repositories.CarFilter) (int64, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, c := range s.cars {
		if matchesFilter(c, filter) {
			n++
		}
	}
	return n, nil
}

func (r *CarRepository) ListByDriver(_ context.Context, driverID int64) ([]models.Car, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.sortedCars(func(c models.Car) bool {
		_, ok := s.assignments[assignment{carID: c.ID, driverID: driverID}]
		return ok
	}), nil
}

func (r *CarRepository) Update(_ context.Context, car *models.Car, driverIDs []int64) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cars[car.ID]; !ok {
		return apperrors.ErrCarNotFound
	}
	if err := s.checkCarReferences(car.ManufacturerID, driverIDs); err != nil {
		return err
	}

	s.cars[car.ID] = models.Car{ID: car.ID, Model: car.Model, ManufacturerID: car.ManufacturerID}
	for a := range s.assignments {
		if a.carID == car.ID {
			delete(s.assignments, a)
		}
	}
	s.assign(car.ID, driverIDs)
	return nil
}

func (r *CarRepository) Delete(_ context.Context, id int64) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cars[id]; !ok {
		return apperrors.ErrCarNotFound
	}
	s.deleteCar(id)
	return nil
}

func (r *CarRepository) ToggleDriver(_ context.Context, carID, driverID int64) (bool, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cars[carID]; !ok {
		return false, apperrors.ErrCarNotFound
	}
	if _, ok := s.drivers[driverID]; !ok {
		return false, apperrors.ErrDriverNotFound
	}

	key := assignment{carID: carID, driverID: driverID}
	if _, ok := s.assignments[key]; ok {
		delete(s.assignments, key)
		return false, nil
	}
	s.assignments[key] = struct{}{}
	return true, nil
}
