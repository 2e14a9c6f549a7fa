package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/anitime-dev/anitime-api/internal/models"
)

// AreaRepository provides persistence for broadcast areas.
type AreaRepository struct {
	db *sqlx.DB
}

// NewAreaRepository creates a new area repository.
func NewAreaRepository(db *sqlx.DB) *AreaRepository {
	return &AreaRepository{db: db}
}

// List returns all areas in display order.
func (r *AreaRepository) List(ctx context.Context) ([]models.Area, error) {
	const query = `SELECT id, name, "order" FROM areas ORDER BY "order" ASC, id ASC`
	var areas []models.Area
	if err := r.db.SelectContext(ctx, &areas, query); err != nil {
		return nil, fmt.Errorf("list areas: %w", err)
	}
	return areas, nil
}

// Create stores a new area.
func (r *AreaRepository) Create(ctx context.Context, area *models.Area) error {
	const query = `INSERT INTO areas (name, "order") VALUES ($1, $2) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query, area.Name, area.Order).Scan(&area.ID); err != nil {
		return fmt.Errorf("create area: %w", err)
	}
	return nil
}

// Update modifies an area.
func (r *AreaRepository) Update(ctx context.Context, area *models.Area) error {
	const query = `UPDATE areas SET name = $1, "order" = $2 WHERE id = $3`
	if _, err := r.db.ExecContext(ctx, query, area.Name, area.Order, area.ID); err != nil {
		return fmt.Errorf("update area: %w", err)
	}
	return nil
}

// Delete removes an area.
func (r *AreaRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM areas WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete area: %w", err)
	}
	return nil
}
