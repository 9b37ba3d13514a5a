package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/yigit/taxiservice/internal/app/models"
	"github.com/yigit/taxiservice/internal/db"
	"github.com/yigit/taxiservice/internal/pkg/apperrors"
	"github.com/yigit/taxiservice/internal/pkg/dberrors"
	"github.com/yigit/taxiservice/internal/pkg/helpers"
	"github.com/yigit/taxiservice/internal/pkg/logger"
)

const (
	carsDriversCarFK    = "cars_drivers_car_id_fkey"
	carsDriversDriverFK = "cars_drivers_driver_id_fkey"
)

// PostgresCarRepository handles car and assignment database operations
type PostgresCarRepository struct {
	db *db.PostgresDB
	sb squirrel.StatementBuilderType
}

// NewCarRepository creates a new PostgresCarRepository
func NewCarRepository(database *db.PostgresDB) *PostgresCarRepository {
	return &PostgresCarRepository{
		db: database,
		sb: statementBuilder(),
	}
}

func (r *PostgresCarRepository) selectCars() squirrel.SelectBuilder {
	return r.sb.Select("c.id", "c.model", "c.manufacturer_id", "m.name", "m.country").
		From("cars c").
		Join("manufacturers m ON m.id = c.manufacturer_id")
}

func applyCarFilter(q squirrel.SelectBuilder, filter CarFilter) squirrel.SelectBuilder {
	if filter.Model != "" {
		q = q.Where(squirrel.ILike{"c.model": helpers.ContainsPattern(filter.Model)})
	}
	return q
}

func scanCar(row pgx.Row) (models.Car, error) {
	var car models.Car
	m := &models.Manufacturer{}
	if err := row.Scan(&car.ID, &car.Model, &car.ManufacturerID, &m.Name, &m.Country); err != nil {
		return car, err
	}
	m.ID = car.ManufacturerID
	car.Manufacturer = m
	car.Drivers = []models.Driver{}
	return car, nil
}

// foreignKeyError translates foreign key failures on cars / cars_drivers writes.
// It returns nil when err is not a foreign key violation.
func foreignKeyError(err error) error {
	var pgErr *pgconn.PgError
	if !dberrors.IsForeignKeyError(err) || !errors.As(err, &pgErr) {
		return nil
	}
	switch pgErr.ConstraintName {
	case carsDriversCarFK:
		return apperrors.ErrCarNotFound
	case carsDriversDriverFK:
		return apperrors.ErrDriverNotFound
	default:
		return apperrors.ErrInvalidReference
	}
}

// Create inserts a car and its driver assignments in one transaction
func (r *PostgresCarRepository) Create(ctx context.Context, car *models.Car, driverIDs []int64) (int64, error) {
	sql, args, err := r.sb.Insert("cars").
		Columns("model", "manufacturer_id").
		Values(car.Model, car.ManufacturerID).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create car SQL")
		return 0, fmt.Errorf("failed to build create car query: %w", err)
	}

	var id int64
	err = r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
			return err
		}
		return r.insertAssignments(ctx, tx, id, driverIDs)
	})
	if err != nil {
		if mapped := foreignKeyError(err); mapped != nil {
			return 0, mapped
		}
		logger.Error().Err(err).Msg("Error executing create car transaction")
		return 0, fmt.Errorf("error creating car: %w", err)
	}

	car.ID = id
	return id, nil
}

func (r *PostgresCarRepository) insertAssignments(ctx context.Context, q db.Querier, carID int64, driverIDs []int64) error {
	if len(driverIDs) == 0 {
		return nil
	}

	insert := r.sb.Insert("cars_drivers").Columns("car_id", "driver_id")
	for _, driverID := range driverIDs {
		insert = insert.Values(carID, driverID)
	}
	sql, args, err := insert.Suffix("ON CONFLICT DO NOTHING").ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert assignments query: %w", err)
	}

	_, err = q.Exec(ctx, sql, args...)
	return err
}

// GetByID retrieves a car with its manufacturer and drivers
func (r *PostgresCarRepository) GetByID(ctx context.Context, id int64) (*models.Car, error) {
	sql, args, err := r.selectCars().
		Where(squirrel.Eq{"c.id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get car by ID SQL")
		return nil, fmt.Errorf("failed to build get car query: %w", err)
	}

	car, err := scanCar(r.db.Pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCarNotFound
		}
		logger.Error().Err(err).Int64("carID", id).Msg("Error scanning car row")
		return nil, fmt.Errorf("error getting car by ID: %w", err)
	}

	drivers, err := r.driversOf(ctx, id)
	if err != nil {
		return nil, err
	}
	car.Drivers = drivers

	return &car, nil
}

func (r *PostgresCarRepository) driversOf(ctx context.Context, carID int64) ([]models.Driver, error) {
	sql, args, err := r.sb.Select(driverColumns("d")...).
		From("drivers d").
		Join("cars_drivers cd ON cd.driver_id = d.id").
		Where(squirrel.Eq{"cd.car_id": carID}).
		OrderBy("d.username ASC", "d.id ASC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building car drivers SQL")
		return nil, fmt.Errorf("failed to build car drivers query: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("carID", carID).Msg("Error executing car drivers query")
		return nil, fmt.Errorf("error querying car drivers: %w", err)
	}
	return collectDrivers(rows)
}

// List retrieves one page of cars matching filter
func (r *PostgresCarRepository) List(ctx context.Context, filter CarFilter, offset, limit uint64) ([]models.Car, error) {
	query := applyCarFilter(r.selectCars(), filter).OrderBy("c.id ASC")

	sql, args, err := paginate(query, offset, limit).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list cars SQL")
		return nil, fmt.Errorf("failed to build list cars query: %w", err)
	}

	return r.queryCars(ctx, sql, args)
}

// Count returns the number of cars matching filter
func (r *PostgresCarRepository) Count(ctx context.Context, filter CarFilter) (int64, error) {
	return countRows(ctx, r.db.Pool, applyCarFilter(r.sb.Select("COUNT(*)").From("cars c"), filter))
}

// ListByDriver retrieves the cars a driver is assigned to
func (r *PostgresCarRepository) ListByDriver(ctx context.Context, driverID int64) ([]models.Car, error) {
	sql, args, err := r.selectCars().
		Join("cars_drivers cd ON cd.car_id = c.id").
		Where(squirrel.Eq{"cd.driver_id": driverID}).
		OrderBy("c.id ASC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list cars by driver SQL")
		return nil, fmt.Errorf("failed to build list cars by driver query: %w", err)
	}

	return r.queryCars(ctx, sql, args)
}

func (r *PostgresCarRepository) queryCars(ctx context.Context, sql string, args []interface{}) ([]models.Car, error) {
	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing cars query")
		return nil, fmt.Errorf("error querying cars: %w", err)
	}
	defer rows.Close()

	cars := []models.Car{}
	for rows.Next() {
		car, err := scanCar(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning car row")
			return nil, fmt.Errorf("error scanning car row: %w", err)
		}
		cars = append(cars, car)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating car rows")
		return nil, fmt.Errorf("error iterating car rows: %w", err)
	}

	return cars, nil
}

// Update replaces the car's fields and driver set in one transaction
func (r *PostgresCarRepository) Update(ctx context.Context, car *models.Car, driverIDs []int64) error {
	updateSQL, updateArgs, err := r.sb.Update("cars").
		SetMap(map[string]interface{}{
			"model":           car.Model,
			"manufacturer_id": car.ManufacturerID,
		}).
		Where(squirrel.Eq{"id": car.ID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update car SQL")
		return fmt.Errorf("failed to build update car query: %w", err)
	}

	clearSQL, clearArgs, err := r.sb.Delete("cars_drivers").
		Where(squirrel.Eq{"car_id": car.ID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building clear assignments SQL")
		return fmt.Errorf("failed to build clear assignments query: %w", err)
	}

	err = r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		cmdTag, err := tx.Exec(ctx, updateSQL, updateArgs...)
		if err != nil {
			return err
		}
		if cmdTag.RowsAffected() == 0 {
			return apperrors.ErrCarNotFound
		}
		if _, err := tx.Exec(ctx, clearSQL, clearArgs...); err != nil {
			return err
		}
		return r.insertAssignments(ctx, tx, car.ID, driverIDs)
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrCarNotFound) {
			return err
		}
		if mapped := foreignKeyError(err); mapped != nil {
			return mapped
		}
		logger.Error().Err(err).Int64("carID", car.ID).Msg("Error executing update car transaction")
		return fmt.Errorf("error updating car: %w", err)
	}

	return nil
}

// Delete deletes a car by ID. Assignments are removed by ON DELETE CASCADE.
func (r *PostgresCarRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("cars").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete car SQL")
		return fmt.Errorf("failed to build delete car query: %w", err)
	}

	cmdTag, err := r.db.Pool.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("carID", id).Msg("Error executing delete car query")
		return fmt.Errorf("error deleting car: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCarNotFound
	}

	return nil
}

// ToggleDriver flips the (car, driver) assignment inside one transaction
func (r *PostgresCarRepository) ToggleDriver(ctx context.Context, carID, driverID int64) (bool, error) {
	removeSQL, removeArgs, err := r.sb.Delete("cars_drivers").
		Where(squirrel.Eq{"car_id": carID, "driver_id": driverID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building remove assignment SQL")
		return false, fmt.Errorf("failed to build remove assignment query: %w", err)
	}

	var assigned bool
	err = r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		cmdTag, err := tx.Exec(ctx, removeSQL, removeArgs...)
		if err != nil {
			return err
		}
		if cmdTag.RowsAffected() > 0 {
			assigned = false
			return nil
		}
		assigned = true
		return r.insertAssignments(ctx, tx, carID, []int64{driverID})
	})
	if err != nil {
		if mapped := foreignKeyError(err); mapped != nil {
			return false, mapped
		}
		logger.Error().Err(err).Int64("carID", carID).Int64("driverID", driverID).Msg("Error toggling car assignment")
		return false, fmt.Errorf("error toggling car assignment: %w", err)
	}

	return assigned, nil
}
