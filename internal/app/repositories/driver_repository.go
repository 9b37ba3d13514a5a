package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/yigit/taxiservice/internal/app/models"
	"github.com/yigit/taxiservice/internal/db"
	"github.com/yigit/taxiservice/internal/pkg/apperrors"
	"github.com/yigit/taxiservice/internal/pkg/dberrors"
	"github.com/yigit/taxiservice/internal/pkg/helpers"
	"github.com/yigit/taxiservice/internal/pkg/logger"
)

// Unique constraints on the drivers table
const (
	driversUsernameKey      = "drivers_username_key"
	driversLicenseNumberKey = "drivers_license_number_key"
)

// PostgresDriverRepository handles driver database operations
type PostgresDriverRepository struct {
	db *db.PostgresDB
	sb squirrel.StatementBuilderType
}

// NewDriverRepository creates a new PostgresDriverRepository
func NewDriverRepository(database *db.PostgresDB) *PostgresDriverRepository {
	return &PostgresDriverRepository{
		db: database,
		sb: statementBuilder(),
	}
}

func driverColumns(alias string) []string {
	columns := []string{"id", "username", "password", "first_name", "last_name", "license_number", "created_at"}
	if alias == "" {
		return columns
	}
	for i, c := range columns {
		columns[i] = alias + "." + c
	}
	return columns
}

func scanDriver(row pgx.Row) (models.Driver, error) {
	var d models.Driver
	var license pgtype.Text
	if err := row.Scan(&d.ID, &d.Username, &d.Password, &d.FirstName, &d.LastName, &license, &d.CreatedAt); err != nil {
		return d, err
	}
	d.LicenseNumber = helpers.TextValue(license)
	return d, nil
}

func collectDrivers(rows pgx.Rows) ([]models.Driver, error) {
	defer rows.Close()

	drivers := []models.Driver{}
	for rows.Next() {
		d, err := scanDriver(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning driver row")
			return nil, fmt.Errorf("error scanning driver row: %w", err)
		}
		drivers = append(drivers, d)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating driver rows")
		return nil, fmt.Errorf("error iterating driver rows: %w", err)
	}

	return drivers, nil
}

// uniqueViolation maps unique constraint failures to conflict errors, or returns nil
func uniqueViolation(err error) error {
	switch {
	case dberrors.IsDuplicateConstraintError(err, driversUsernameKey):
		return apperrors.ErrUsernameTaken
	case dberrors.IsDuplicateConstraintError(err, driversLicenseNumberKey):
		return apperrors.ErrLicenseNumberTaken
	default:
		return nil
	}
}

// Create inserts a driver. Password must already be hashed.
func (r *PostgresDriverRepository) Create(ctx context.Context, driver *models.Driver) (int64, error) {
	sql, args, err := r.sb.Insert("drivers").
		Columns("username", "password", "first_name", "last_name", "license_number").
		Values(driver.Username, driver.Password, driver.FirstName, driver.LastName, helpers.TextOrNull(driver.LicenseNumber)).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create driver SQL")
		return 0, fmt.Errorf("failed to build create driver query: %w", err)
	}

	if err := r.db.Pool.QueryRow(ctx, sql, args...).Scan(&driver.ID, &driver.CreatedAt); err != nil {
		if conflict := uniqueViolation(err); conflict != nil {
			return 0, conflict
		}
		logger.Error().Err(err).Msg("Error executing create driver query")
		return 0, fmt.Errorf("error creating driver: %w", err)
	}

	return driver.ID, nil
}

func (r *PostgresDriverRepository) getBy(ctx context.Context, where squirrel.Eq) (*models.Driver, error) {
	sql, args, err := r.sb.Select(driverColumns("")...).
		From("drivers").
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get driver SQL")
		return nil, fmt.Errorf("failed to build get driver query: %w", err)
	}

	d, err := scanDriver(r.db.Pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrDriverNotFound
		}
		logger.Error().Err(err).Msg("Error scanning driver row")
		return nil, fmt.Errorf("error getting driver: %w", err)
	}

	return &d, nil
}

// GetByID retrieves a driver by ID
func (r *PostgresDriverRepository) GetByID(ctx context.Context, id int64) (*models.Driver, error) {
	return r.getBy(ctx, squirrel.Eq{"id": id})
}

// GetByUsername retrieves a driver by username (exact match)
func (r *PostgresDriverRepository) GetByUsername(ctx context.Context, username string) (*models.Driver, error) {
	return r.getBy(ctx, squirrel.Eq{"username": username})
}

// List retrieves one page of drivers
func (r *PostgresDriverRepository) List(ctx context.Context, offset, limit uint64) ([]models.Driver, error) {
	query := r.sb.Select(driverColumns("")...).
		From("drivers").
		OrderBy("username ASC", "id ASC")

	sql, args, err := paginate(query, offset, limit).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list drivers SQL")
		return nil, fmt.Errorf("failed to build list drivers query: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list drivers query")
		return nil, fmt.Errorf("error querying drivers: %w", err)
	}
	return collectDrivers(rows)
}

// Count returns the number of drivers
func (r *PostgresDriverRepository) Count(ctx context.Context) (int64, error) {
	return countRows(ctx, r.db.Pool, r.sb.Select("COUNT(*)").From("drivers"))
}

// UpdateLicenseNumber replaces a driver's license number
func (r *PostgresDriverRepository) UpdateLicenseNumber(ctx context.Context, id int64, licenseNumber string) error {
	sql, args, err := r.sb.Update("drivers").
		Set("license_number", helpers.TextOrNull(licenseNumber)).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update license SQL")
		return fmt.Errorf("failed to build update license query: %w", err)
	}

	cmdTag, err := r.db.Pool.Exec(ctx, sql, args...)
	if err != nil {
		if conflict := uniqueViolation(err); conflict != nil {
			return conflict
		}
		logger.Error().Err(err).Int64("driverID", id).Msg("Error executing update license query")
		return fmt.Errorf("error updating license number: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrDriverNotFound
	}

	return nil
}

// Delete deletes a driver by ID. Assignments are removed by ON DELETE CASCADE.
func (r *PostgresDriverRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("drivers").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete driver SQL")
		return fmt.Errorf("failed to build delete driver query: %w", err)
	}

	cmdTag, err := r.db.Pool.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("driverID", id).Msg("Error executing delete driver query")
		return fmt.Errorf("error deleting driver: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrDriverNotFound
	}

	return nil
}
