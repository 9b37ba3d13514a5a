package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/taxiservice/internal/app/models"
	"github.com/yigit/taxiservice/internal/db"
)

// CarFilter narrows car listings. An empty Model matches every car.
type CarFilter struct {
	Model string
}

// ManufacturerRepository persists manufacturers. Listings are ordered by name, then id.
// A limit of 0 returns every row from offset on.
type ManufacturerRepository interface {
	Create(ctx context.Context, manufacturer *models.Manufacturer) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Manufacturer, error)
	List(ctx context.Context, offset, limit uint64) ([]models.Manufacturer, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, manufacturer *models.Manufacturer) error
	// Delete removes the manufacturer together with its cars
	Delete(ctx context.Context, id int64) error
}

// CarRepository persists cars and their driver assignments. Listings are ordered by id.
type CarRepository interface {
	Create(ctx context.Context, car *models.Car, driverIDs []int64) (int64, error)
	// GetByID loads the car with its manufacturer and drivers
	GetByID(ctx context.Context, id int64) (*models.Car, error)
	List(ctx context.Context, filter CarFilter, offset, limit uint64) ([]models.Car, error)
	Count(ctx context.Context, filter CarFilter) (int64, error)
	ListByDriver(ctx context.Context, driverID int64) ([]models.Car, error)
	// Update replaces model, manufacturer and the whole driver set
	Update(ctx context.Context, car *models.Car, driverIDs []int64) error
	Delete(ctx context.Context, id int64) error
	// ToggleDriver assigns the driver if unassigned and unassigns otherwise, returning the new state
	ToggleDriver(ctx context.Context, carID, driverID int64) (bool, error)
}

// DriverRepository persists drivers. Listings are ordered by username, then id.
type DriverRepository interface {
	Create(ctx context.Context, driver *models.Driver) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Driver, error)
	GetByUsername(ctx context.Context, username string) (*models.Driver, error)
	List(ctx context.Context, offset, limit uint64) ([]models.Driver, error)
	Count(ctx context.Context) (int64, error)
	UpdateLicenseNumber(ctx context.Context, id int64, licenseNumber string) error
	Delete(ctx context.Context, id int64) error
}

// Repositories holds all the repository instances
type Repositories struct {
	ManufacturerRepository ManufacturerRepository
	CarRepository          CarRepository
	DriverRepository       DriverRepository
}

// NewRepositories initializes the PostgreSQL-backed repositories
func NewRepositories(database *db.PostgresDB) *Repositories {
	return &Repositories{
		ManufacturerRepository: NewManufacturerRepository(database),
		CarRepository:          NewCarRepository(database),
		DriverRepository:       NewDriverRepository(database),
	}
}

func statementBuilder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func paginate(q squirrel.SelectBuilder, offset, limit uint64) squirrel.SelectBuilder {
	if offset > 0 {
		q = q.Offset(offset)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	return q
}
