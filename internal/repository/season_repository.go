package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/anitime-dev/anitime-api/internal/models"
)

// SeasonRepository provides persistence for seasons.
type SeasonRepository struct {
	db *sqlx.DB
}

// NewSeasonRepository creates a new season repository.
func NewSeasonRepository(db *sqlx.DB) *SeasonRepository {
	return &SeasonRepository{db: db}
}

// List returns all seasons newest first; the service applies the
// selector-specific ordering.
func (r *SeasonRepository) List(ctx context.Context) ([]models.Season, error) {
	const query = `SELECT id, year, month, active FROM seasons ORDER BY id DESC`
	var seasons []models.Season
	if err := r.db.SelectContext(ctx, &seasons, query); err != nil {
		return nil, fmt.Errorf("list seasons: %w", err)
	}
	return seasons, nil
}

// FindByID loads a season by id.
func (r *SeasonRepository) FindByID(ctx context.Context, id int64) (*models.Season, error) {
	const query = `SELECT id, year, month, active FROM seasons WHERE id = $1`
	var season models.Season
	if err := r.db.GetContext(ctx, &season, query, id); err != nil {
		return nil, err
	}
	return &season, nil
}

// Create stores a new season.
func (r *SeasonRepository) Create(ctx context.Context, season *models.Season) error {
	const query = `INSERT INTO seasons (year, month, active) VALUES ($1, $2, $3) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query, season.Year, season.Month, season.Active).Scan(&season.ID); err != nil {
		return fmt.Errorf("create season: %w", err)
	}
	return nil
}

// Update modifies a season.
func (r *SeasonRepository) Update(ctx context.Context, season *models.Season) error {
	const query = `UPDATE seasons SET year = $1, month = $2, active = $3 WHERE id = $4`
	if _, err := r.db.ExecContext(ctx, query, season.Year, season.Month, season.Active, season.ID); err != nil {
		return fmt.Errorf("update season: %w", err)
	}
	return nil
}

// Delete removes a season.
func (r *SeasonRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM seasons WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete season: %w", err)
	}
	return nil
}
