package repositories_test

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/suite"
	"github.com/yigit/taxiservice/internal/app/migrations"
	"github.com/yigit/taxiservice/internal/app/models"
	"github.com/yigit/taxiservice/internal/app/repositories"
	"github.com/yigit/taxiservice/internal/db"
	"github.com/yigit/taxiservice/internal/pkg/apperrors"
)

// PostgresTestSuite runs the repositories against a real database.
// Set TEST_DATABASE_URL (postgres://...) to a disposable database to enable it.
type PostgresTestSuite struct {
	suite.Suite
	ctx      context.Context
	database *db.PostgresDB
	repos    *repositories.Repositories
}

func TestPostgresTestSuite(t *testing.T) {
	if os.Getenv("TEST_DATABASE_URL") == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	suite.Run(t, new(PostgresTestSuite))
}

func migrationURL(databaseURL string) string {
	for _, scheme := range []string{"postgresql://", "postgres://"} {
		if strings.HasPrefix(databaseURL, scheme) {
			return "pgx5://" + strings.TrimPrefix(databaseURL, scheme)
		}
	}
	return databaseURL
}

func (s *PostgresTestSuite) SetupSuite() {
	s.ctx = context.Background()
	databaseURL := os.Getenv("TEST_DATABASE_URL")

	m, err := migrations.NewMigrator(migrationURL(databaseURL), zerolog.Nop())
	s.Require().NoError(err)
	s.Require().NoError(m.Up())
	s.Require().NoError(m.Close())

	pool, err := pgxpool.New(s.ctx, databaseURL)
	s.Require().NoError(err)
	s.database = &db.PostgresDB{Pool: pool}
	s.repos = repositories.NewRepositories(s.database)
}

func (s *PostgresTestSuite) TearDownSuite() {
	if s.database != nil {
		s.database.Close()
	}
}

func (s *PostgresTestSuite) SetupTest() {
	_, err := s.database.Pool.Exec(s.ctx,
		"TRUNCATE cars_drivers, cars, drivers, manufacturers RESTART IDENTITY CASCADE")
	s.Require().NoError(err)
}

func (s *PostgresTestSuite) createManufacturer(name string) int64 {
	id, err := s.repos.ManufacturerRepository.Create(s.ctx, &models.Manufacturer{Name: name, Country: "Ukraine"})
	s.Require().NoError(err)
	return id
}

func (s *PostgresTestSuite) createDriver(username, license string) int64 {
	id, err := s.repos.DriverRepository.Create(s.ctx, &models.Driver{Username: username, Password: "hash", LicenseNumber: license})
	s.Require().NoError(err)
	return id
}

func (s *PostgresTestSuite) createCar(model string, manufacturerID int64, driverIDs ...int64) int64 {
	id, err := s.repos.CarRepository.Create(s.ctx, &models.Car{Model: model, ManufacturerID: manufacturerID}, driverIDs)
	s.Require().NoError(err)
	return id
}

func (s *PostgresTestSuite) driverIDs(carID int64) []int64 {
	car, err := s.repos.CarRepository.GetByID(s.ctx, carID)
	s.Require().NoError(err)
	return car.DriverIDs()
}

func (s *PostgresTestSuite) TestToggleDriver() {
	carID := s.createCar("Model X", s.createManufacturer("Test"))
	driverID := s.createDriver("test", "AAA12345")

	assigned, err := s.repos.CarRepository.ToggleDriver(s.ctx, carID, driverID)
	s.Require().NoError(err)
	s.True(assigned)
	s.Equal([]int64{driverID}, s.driverIDs(carID))

	assigned, err = s.repos.CarRepository.ToggleDriver(s.ctx, carID, driverID)
	s.Require().NoError(err)
	s.False(assigned)
	s.Empty(s.driverIDs(carID))
}

func (s *PostgresTestSuite) TestToggleDriverMapsForeignKeys() {
	carID := s.createCar("Model X", s.createManufacturer("Test"))
	driverID := s.createDriver("test", "AAA12345")

	_, err := s.repos.CarRepository.ToggleDriver(s.ctx, carID, driverID+100)
	s.ErrorIs(err, apperrors.ErrDriverNotFound)

	_, err = s.repos.CarRepository.ToggleDriver(s.ctx, carID+100, driverID)
	s.ErrorIs(err, apperrors.ErrCarNotFound)

	s.Empty(s.driverIDs(carID))
}

func (s *PostgresTestSuite) TestUpdateReplacesDriverSet() {
	manufacturerID := s.createManufacturer("Test")
	first := s.createDriver("first", "AAA11111")
	second := s.createDriver("second", "AAA22222")
	third := s.createDriver("third", "AAA33333")
	carID := s.createCar("Model X", manufacturerID, first, second)

	err := s.repos.CarRepository.Update(s.ctx, &models.Car{ID: carID, Model: "Model Y", ManufacturerID: manufacturerID}, []int64{second, third})
	s.Require().NoError(err)

	car, err := s.repos.CarRepository.GetByID(s.ctx, carID)
	s.Require().NoError(err)
	s.Equal("Model Y", car.Model)
	s.ElementsMatch([]int64{second, third}, car.DriverIDs())

	err = s.repos.CarRepository.Update(s.ctx, &models.Car{ID: carID, Model: "Model Z", ManufacturerID: manufacturerID}, []int64{first, third + 100})
	s.ErrorIs(err, apperrors.ErrDriverNotFound)

	car, err = s.repos.CarRepository.GetByID(s.ctx, carID)
	s.Require().NoError(err)
	s.Equal("Model Y", car.Model)
	s.ElementsMatch([]int64{second, third}, car.DriverIDs())

	err = s.repos.CarRepository.Update(s.ctx, &models.Car{ID: carID + 100, Model: "Model Z", ManufacturerID: manufacturerID}, nil)
	s.ErrorIs(err, apperrors.ErrCarNotFound)
}

func (s *PostgresTestSuite) TestCreateRejectsUnknownManufacturer() {
	_, err := s.repos.CarRepository.Create(s.ctx, &models.Car{Model: "Model X", ManufacturerID: 42}, nil)
	s.ErrorIs(err, apperrors.ErrInvalidReference)
}

func (s *PostgresTestSuite) TestListSearchIsCaseInsensitive() {
	manufacturerID := s.createManufacturer("Test")
	s.createCar("Model X", manufacturerID)
	s.createCar("Model 50%", manufacturerID)
	s.createCar("Other", manufacturerID)

	cars, err := s.repos.CarRepository.List(s.ctx, repositories.CarFilter{Model: "model"}, 0, 0)
	s.Require().NoError(err)
	s.Len(cars, 2)

	cars, err = s.repos.CarRepository.List(s.ctx, repositories.CarFilter{Model: "50%"}, 0, 0)
	s.Require().NoError(err)
	s.Require().Len(cars, 1)
	s.Equal("Model 50%", cars[0].Model)

	count, err := s.repos.CarRepository.Count(s.ctx, repositories.CarFilter{Model: "%"})
	s.Require().NoError(err)
	s.Equal(int64(1), count)
}

func (s *PostgresTestSuite) TestManufacturerDeleteCascades() {
	manufacturerID := s.createManufacturer("Test")
	driverID := s.createDriver("test", "AAA12345")
	carID := s.createCar("Model X", manufacturerID, driverID)

	s.Require().NoError(s.repos.ManufacturerRepository.Delete(s.ctx, manufacturerID))

	_, err := s.repos.CarRepository.GetByID(s.ctx, carID)
	s.ErrorIs(err, apperrors.ErrResourceNotFound)

	cars, err := s.repos.CarRepository.ListByDriver(s.ctx, driverID)
	s.Require().NoError(err)
	s.Empty(cars)
}

func (s *PostgresTestSuite) TestDriverUniqueness() {
	s.createDriver("test", "AAA12345")

	_, err := s.repos.DriverRepository.Create(s.ctx, &models.Driver{Username: "test", Password: "hash", LicenseNumber: "BBB12345"})
	s.ErrorIs(err, apperrors.ErrUsernameTaken)

	_, err = s.repos.DriverRepository.Create(s.ctx, &models.Driver{Username: "other", Password: "hash", LicenseNumber: "AAA12345"})
	s.ErrorIs(err, apperrors.ErrLicenseNumberTaken)
}
