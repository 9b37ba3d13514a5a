package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/yigit/taxiservice/internal/app/models"
	"github.com/yigit/taxiservice/internal/app/repositories"
	"github.com/yigit/taxiservice/internal/pkg/apperrors"
)

type StoreTestSuite struct {
	suite.Suite
	ctx   context.Context
	repos *repositories.Repositories
}

func TestStoreTestSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}

func (s *StoreTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.repos = NewRepositories()
}

func (s *StoreTestSuite) createManufacturer(name string) int64 {
	id, err := s.repos.ManufacturerRepository.Create(s.ctx, &models.Manufacturer{Name: name, Country: "Country " + name})
	s.Require().NoError(err)
	return id
}

func (s *StoreTestSuite) createDriver(username, license string) int64 {
	id, err := s.repos.DriverRepository.Create(s.ctx, &models.Driver{Username: username, Password: "hash", LicenseNumber: license})
	s.Require().NoError(err)
	return id
}

func (s *StoreTestSuite) createCar(model string, manufacturerID int64, driverIDs ...int64) int64 {
	id, err := s.repos.CarRepository.Create(s.ctx, &models.Car{Model: model, ManufacturerID: manufacturerID}, driverIDs)
	s.Require().NoError(err)
	return id
}

func (s *StoreTestSuite) TestManufacturerOrderingAndPaging() {
	s.createManufacturer("Volvo")
	s.createManufacturer("Audi")
	s.createManufacturer("BMW")

	firstPage, err := s.repos.ManufacturerRepository.List(s.ctx, 0, 2)
	s.Require().NoError(err)
	s.Require().Len(firstPage, 2)
	s.Equal("Audi", firstPage[0].Name)
	s.Equal("BMW", firstPage[1].Name)

	secondPage, err := s.repos.ManufacturerRepository.List(s.ctx, 2, 2)
	s.Require().NoError(err)
	s.Require().Len(secondPage, 1)
	s.Equal("Volvo", secondPage[0].Name)

	beyond, err := s.repos.ManufacturerRepository.List(s.ctx, 10, 2)
	s.Require().NoError(err)
	s.Empty(beyond)

	total, err := s.repos.ManufacturerRepository.Count(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(3), total)
}

func (s *StoreTestSuite) TestManufacturerUpdateAndNotFound() {
	id := s.createManufacturer("Test")

	s.Require().NoError(s.repos.ManufacturerRepository.Update(s.ctx, &models.Manufacturer{ID: id, Name: "Renamed", Country: "Ukraine"}))
	m, err := s.repos.ManufacturerRepository.GetByID(s.ctx, id)
	s.Require().NoError(err)
	s.Equal("Renamed", m.Name)

	err = s.repos.ManufacturerRepository.Update(s.ctx, &models.Manufacturer{ID: 99, Name: "x", Country: "y"})
	s.ErrorIs(err, apperrors.ErrResourceNotFound)

	_, err = s.repos.ManufacturerRepository.GetByID(s.ctx, 99)
	s.ErrorIs(err, apperrors.ErrManufacturerNotFound)
}

func (s *StoreTestSuite) TestManufacturerDeleteCascadesToCars() {
	keep := s.createManufacturer("Keep")
	drop := s.createManufacturer("Drop")
	driver := s.createDriver("driver", "AAA12345")
	doomed := s.createCar("Doomed", drop, driver)
	kept := s.createCar("Kept", keep, driver)

	s.Require().NoError(s.repos.ManufacturerRepository.Delete(s.ctx, drop))

	_, err := s.repos.CarRepository.GetByID(s.ctx, doomed)
	s.ErrorIs(err, apperrors.ErrCarNotFound)

	cars, err := s.repos.CarRepository.ListByDriver(s.ctx, driver)
	s.Require().NoError(err)
	s.Require().Len(cars, 1)
	s.Equal(kept, cars[0].ID)

	s.ErrorIs(s.repos.ManufacturerRepository.Delete(s.ctx, drop), apperrors.ErrManufacturerNotFound)
}

func (s *StoreTestSuite) TestCarSearchIsCaseInsensitive() {
	m := s.createManufacturer("Tesla")
	s.createCar("Model X", m)
	s.createCar("Model S", m)
	s.createCar("Cybertruck", m)

	filter := repositories.CarFilter{Model: "model"}
	cars, err := s.repos.CarRepository.List(s.ctx, filter, 0, 0)
	s.Require().NoError(err)
	s.Require().Len(cars, 2)
	s.Equal("Model X", cars[0].Model)
	s.Equal("Tesla", cars[0].Manufacturer.Name)

	total, err := s.repos.CarRepository.Count(s.ctx, filter)
	s.Require().NoError(err)
	s.Equal(int64(2), total)

	all, err := s.repos.CarRepository.Count(s.ctx, repositories.CarFilter{})
	s.Require().NoError(err)
	s.Equal(int64(3), all)
}

func (s *StoreTestSuite) TestCarCreateRejectsMissingReferences() {
	m := s.createManufacturer("Test")

	_, err := s.repos.CarRepository.Create(s.ctx, &models.Car{Model: "X", ManufacturerID: 42}, nil)
	s.ErrorIs(err, apperrors.ErrInvalidReference)

	_, err = s.repos.CarRepository.Create(s.ctx, &models.Car{Model: "X", ManufacturerID: m}, []int64{42})
	s.ErrorIs(err, apperrors.ErrDriverNotFound)

	total, err := s.repos.CarRepository.Count(s.ctx, repositories.CarFilter{})
	s.Require().NoError(err)
	s.Zero(total)
}

func (s *StoreTestSuite) TestCarUpdateReplacesDrivers() {
	m := s.createManufacturer("Test")
	other := s.createManufacturer("Other")
	alice := s.createDriver("alice", "")
	bob := s.createDriver("bob", "")
	car := s.createCar("Model X", m, alice)

	s.Require().NoError(s.repos.CarRepository.Update(s.ctx, &models.Car{ID: car, Model: "Model Y", ManufacturerID: other}, []int64{bob}))

	loaded, err := s.repos.CarRepository.GetByID(s.ctx, car)
	s.Require().NoError(err)
	s.Equal("Model Y", loaded.Model)
	s.Equal(other, loaded.Manufacturer.ID)
	s.Equal([]int64{bob}, loaded.DriverIDs())

	err = s.repos.CarRepository.Update(s.ctx, &models.Car{ID: 99, Model: "x", ManufacturerID: m}, nil)
	s.ErrorIs(err, apperrors.ErrCarNotFound)
}

func (s *StoreTestSuite) TestToggleDriver() {
	m := s.createManufacturer("Test")
	driver := s.createDriver("driver", "")
	car := s.createCar("Model X", m)

	assigned, err := s.repos.CarRepository.ToggleDriver(s.ctx, car, driver)
	s.Require().NoError(err)
	s.True(assigned)

	loaded, err := s.repos.CarRepository.GetByID(s.ctx, car)
	s.Require().NoError(err)
	s.True(loaded.HasDriver(driver))

	assigned, err = s.repos.CarRepository.ToggleDriver(s.ctx, car, driver)
	s.Require().NoError(err)
	s.False(assigned)

	loaded, err = s.repos.CarRepository.GetByID(s.ctx, car)
	s.Require().NoError(err)
	s.False(loaded.HasDriver(driver))

	_, err = s.repos.CarRepository.ToggleDriver(s.ctx, 99, driver)
	s.ErrorIs(err, apperrors.ErrCarNotFound)
}

func (s *StoreTestSuite) TestConcurrentTogglesEndConsistent() {
	m := s.createManufacturer("Test")
	driver := s.createDriver("driver", "")
	car := s.createCar("Model X", m)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.repos.CarRepository.ToggleDriver(s.ctx, car, driver)
		}()
	}
	wg.Wait()

	loaded, err := s.repos.CarRepository.GetByID(s.ctx, car)
	s.Require().NoError(err)
	s.False(loaded.HasDriver(driver), "an even number of toggles leaves the driver unassigned")
}

func (s *StoreTestSuite) TestDriverUniqueness() {
	first := s.createDriver("driver", "AAA12345")
	second := s.createDriver("other", "BBB12345")

	_, err := s.repos.DriverRepository.Create(s.ctx, &models.Driver{Username: "driver", Password: "x"})
	s.ErrorIs(err, apperrors.ErrUsernameTaken)

	_, err = s.repos.DriverRepository.Create(s.ctx, &models.Driver{Username: "new", Password: "x", LicenseNumber: "AAA12345"})
	s.ErrorIs(err, apperrors.ErrLicenseNumberTaken)

	s.ErrorIs(s.repos.DriverRepository.UpdateLicenseNumber(s.ctx, second, "AAA12345"), apperrors.ErrLicenseNumberTaken)
	s.NoError(s.repos.DriverRepository.UpdateLicenseNumber(s.ctx, first, "AAA12345"))
	s.NoError(s.repos.DriverRepository.UpdateLicenseNumber(s.ctx, first, "CCC12345"))

	byName, err := s.repos.DriverRepository.GetByUsername(s.ctx, "driver")
	s.Require().NoError(err)
	s.Equal("CCC12345", byName.LicenseNumber)
	s.False(byName.CreatedAt.IsZero())

	// drivers without a license never collide
	s.createDriver("nolicense1", "")
	s.createDriver("nolicense2", "")
}

func (s *StoreTestSuite) TestDriverOrderingAndDeleteCascade() {
	m := s.createManufacturer("Test")
	for i := 6; i >= 1; i-- {
		s.createDriver(fmt.Sprintf("driver %d", i), "")
	}
	admin := s.createDriver("admin", "")
	car := s.createCar("Model X", m, admin)

	drivers, err := s.repos.DriverRepository.List(s.ctx, 0, 2)
	s.Require().NoError(err)
	s.Require().Len(drivers, 2)
	s.Equal("admin", drivers[0].Username)
	s.Equal("driver 1", drivers[1].Username)

	s.Require().NoError(s.repos.DriverRepository.Delete(s.ctx, admin))
	loaded, err := s.repos.CarRepository.GetByID(s.ctx, car)
	s.Require().NoError(err)
	s.Empty(loaded.Drivers)

	s.ErrorIs(s.repos.DriverRepository.Delete(s.ctx, admin), apperrors.ErrDriverNotFound)
}
