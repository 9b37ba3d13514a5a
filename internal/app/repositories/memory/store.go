// Package memory provides mutex-guarded in-process repositories with the same
// ordering, uniqueness and cascade rules as the PostgreSQL schema.
package memory

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/yigit/taxiservice/internal/app/models"
	"github.com/yigit/taxiservice/internal/app/repositories"
)

type assignment struct {
	carID    int64
	driverID int64
}

// Store holds every table. All repositories built from one Store share it.
type Store struct {
	mu sync.RWMutex

	nextID        map[string]int64
	manufacturers map[int64]models.Manufacturer
	cars          map[int64]models.Car
	drivers       map[int64]models.Driver
	assignments   map[assignment]struct{}

	now func() time.Time
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		nextID:        make(map[string]int64),
		manufacturers: make(map[int64]models.Manufacturer),
		cars:          make(map[int64]models.Car),
		drivers:       make(map[int64]models.Driver),
		assignments:   make(map[assignment]struct{}),
		now:           time.Now,
	}
}

// NewRepositories returns repositories backed by a fresh store
func NewRepositories() *repositories.Repositories {
	return NewStore().Repositories()
}

// Repositories returns repositories backed by s
func (s *Store) Repositories() *repositories.Repositories {
	return &repositories.Repositories{
		ManufacturerRepository: &ManufacturerRepository{store: s},
		CarRepository:          &CarRepository{store: s},
		DriverRepository:       &DriverRepository{store: s},
	}
}

// must be called with mu held for writing
func (s *Store) allocateID(table string) int64 {
	s.nextID[table]++
	return s.nextID[table]
}

// page applies offset/limit to n ordered items; limit 0 means no limit
func page(n int, offset, limit uint64) (int, int) {
	start := int(offset)
	if start > n {
		start = n
	}
	end := n
	if limit > 0 && start+int(limit) < n {
		end = start + int(limit)
	}
	return start, end
}

// must be called with mu held
func (s *Store) carWithManufacturer(car models.Car) models.Car {
	if m, ok := s.manufacturers[car.ManufacturerID]; ok {
		mc := m
		car.Manufacturer = &mc
	}
	car.Drivers = []models.Driver{}
	return car
}

// must be called with mu held
func (s *Store) driversOf(carID int64) []models.Driver {
	drivers := []models.Driver{}
	for a := range s.assignments {
		if a.carID == carID {
			drivers = append(drivers, s.drivers[a.driverID])
		}
	}
	sortDrivers(drivers)
	return drivers
}

// must be called with mu held
func (s *Store) sortedCars(match func(models.Car) bool) []models.Car {
	cars := make([]models.Car, 0, len(s.cars))
	for _, c := range s.cars {
		if match(c) {
			cars = append(cars, s.carWithManufacturer(c))
		}
	}
	sort.Slice(cars, func(i, j int) bool { return cars[i].ID < cars[j].ID })
	return cars
}

func sortDrivers(drivers []models.Driver) {
	sort.Slice(drivers, func(i, j int) bool {
		if drivers[i].Username != drivers[j].Username {
			return drivers[i].Username < drivers[j].Username
		}
		return drivers[i].ID < drivers[j].ID
	})
}

func matchesFilter(car models.Car, filter repositories.CarFilter) bool {
	if filter.Model == "" {
		return true
	}
	return strings.Contains(strings.ToLower(car.Model), strings.ToLower(filter.Model))
}
