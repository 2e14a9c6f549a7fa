package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/anitime-dev/anitime-api/internal/models"
)

// TagRepository provides persistence for tags.
type TagRepository struct {
	db *sqlx.DB
}

// NewTagRepository creates a new tag repository.
func NewTagRepository(db *sqlx.DB) *TagRepository {
	return &TagRepository{db: db}
}

// List returns all tags in display order.
func (r *TagRepository) List(ctx context.Context) ([]models.Tag, error) {
	const query = `SELECT id, name, "order" FROM tags ORDER BY "order" ASC, id ASC`
	var tags []models.Tag
	if err := r.db.SelectContext(ctx, &tags, query); err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}

// Create stores a new tag.
func (r *TagRepository) Create(ctx context.Context, tag *models.Tag) error {
	const query = `INSERT INTO tags (name, "order") VALUES ($1, $2) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query, tag.Name, tag.Order).Scan(&tag.ID); err != nil {
		return fmt.Errorf("create tag: %w", err)
	}
	return nil
}

// Update modifies a tag.
func (r *TagRepository) Update(ctx context.Context, tag *models.Tag) error {
	const query = `UPDATE tags SET name = $1, "order" = $2 WHERE id = $3`
	if _, err := r.db.ExecContext(ctx, query, tag.Name, tag.Order, tag.ID); err != nil {
		return fmt.Errorf("update tag: %w", err)
	}
	return nil
}

// Delete removes a tag.
func (r *TagRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM tags WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}
	return nil
}
