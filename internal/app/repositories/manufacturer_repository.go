package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/taxiservice/internal/app/models"
	"github.com/yigit/taxiservice/internal/db"
	"github.com/yigit/taxiservice/internal/pkg/apperrors"
	"github.com/yigit/taxiservice/internal/pkg/logger"
)

// PostgresManufacturerRepository handles manufacturer database operations
type PostgresManufacturerRepository struct {
	db *db.PostgresDB
	sb squirrel.StatementBuilderType
}

// NewManufacturerRepository creates a new PostgresManufacturerRepository
func NewManufacturerRepository(database *db.PostgresDB) *PostgresManufacturerRepository {
	return &PostgresManufacturerRepository{
		db: database,
		sb: statementBuilder(),
	}
}

// Create inserts a manufacturer and returns its id
func (r *PostgresManufacturerRepository) Create(ctx context.Context, manufacturer *models.Manufacturer) (int64, error) {
	sql, args, err := r.sb.Insert("manufacturers").
		Columns("name", "country").
		Values(manufacturer.Name, manufacturer.Country).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create manufacturer SQL")
		return 0, fmt.Errorf("failed to build create manufacturer query: %w", err)
	}

	var id int64
	if err := r.db.Pool.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		logger.Error().Err(err).Msg("Error executing create manufacturer query")
		return 0, fmt.Errorf("error creating manufacturer: %w", err)
	}

	manufacturer.ID = id
	return id, nil
}

// GetByID retrieves a manufacturer by ID
func (r *PostgresManufacturerRepository) GetByID(ctx context.Context, id int64) (*models.Manufacturer, error) {
	sql, args, err := r.sb.Select("id", "name", "country").
		From("manufacturers").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get manufacturer by ID SQL")
		return nil, fmt.Errorf("failed to build get manufacturer query: %w", err)
	}

	m := &models.Manufacturer{}
	if err := r.db.Pool.QueryRow(ctx, sql, args...).Scan(&m.ID, &m.Name, &m.Country); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrManufacturerNotFound
		}
		logger.Error().Err(err).Int64("manufacturerID", id).Msg("Error scanning manufacturer row")
		return nil, fmt.Errorf("error getting manufacturer by ID: %w", err)
	}

	return m, nil
}

// List retrieves one page of manufacturers
func (r *PostgresManufacturerRepository) List(ctx context.Context, offset, limit uint64) ([]models.Manufacturer, error) {
	query := r.sb.Select("id", "name", "country").
		From("manufacturers").
		OrderBy("name ASC", "id ASC")

	sql, args, err := paginate(query, offset, limit).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list manufacturers SQL")
		return nil, fmt.Errorf("failed to build list manufacturers query: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list manufacturers query")
		return nil, fmt.Errorf("error querying manufacturers: %w", err)
	}
	defer rows.Close()

	manufacturers := []models.Manufacturer{}
	for rows.Next() {
		var m models.Manufacturer
		if err := rows.Scan(&m.ID, &m.Name, &m.Country); err != nil {
			logger.Error().Err(err).Msg("Error scanning manufacturer row during list")
			return nil, fmt.Errorf("error scanning manufacturer row: %w", err)
		}
		manufacturers = append(manufacturers, m)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating manufacturer rows")
		return nil, fmt.Errorf("error iterating manufacturer rows: %w", err)
	}

	return manufacturers, nil
}

// Count returns the number of manufacturers
func (r *PostgresManufacturerRepository) Count(ctx context.Context) (int64, error) {
	return countRows(ctx, r.db.Pool, r.sb.Select("COUNT(*)").From("manufacturers"))
}

// Update updates an existing manufacturer
func (r *PostgresManufacturerRepository) Update(ctx context.Context, manufacturer *models.Manufacturer) error {
	sql, args, err := r.sb.Update("manufacturers").
		SetMap(map[string]interface{}{
			"name":    manufacturer.Name,
			"country": manufacturer.Country,
		}).
		Where(squirrel.Eq{"id": manufacturer.ID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update manufacturer SQL")
		return fmt.Errorf("failed to build update manufacturer query: %w", err)
	}

	cmdTag, err := r.db.Pool.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("manufacturerID", manufacturer.ID).Msg("Error executing update manufacturer query")
		return fmt.Errorf("error updating manufacturer: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrManufacturerNotFound
	}

	return nil
}

// Delete deletes a manufacturer by ID. Its cars and their assignments go with it (ON DELETE CASCADE).
func (r *PostgresManufacturerRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("manufacturers").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete manufacturer SQL")
		return fmt.Errorf("failed to build delete manufacturer query: %w", err)
	}

	cmdTag, err := r.db.Pool.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("manufacturerID", id).Msg("Error executing delete manufacturer query")
		return fmt.Errorf("error deleting manufacturer: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrManufacturerNotFound
	}

	return nil
}

// countRows runs a SELECT COUNT(*) builder
func countRows(ctx context.Context, q db.Querier, query squirrel.SelectBuilder) (int64, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building count SQL")
		return 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var total int64
	if err := q.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		logger.Error().Err(err).Str("sql", sql).Msg("Error executing count query")
		return 0, fmt.Errorf("error counting rows: %w", err)
	}
	return total, nil
}
