package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/anitime-dev/anitime-api/internal/models"
)

// WorkRepository provides persistence for works.
type WorkRepository struct {
	db *sqlx.DB
}

// NewWorkRepository creates a new work repository.
func NewWorkRepository(db *sqlx.DB) *WorkRepository {
	return &WorkRepository{db: db}
}

const workColumns = `id, name, website_url, annict_url, wikipedia_url, x_username, created_at, updated_at`

// List returns works with optional name search and pagination.
func (r *WorkRepository) List(ctx context.Context, filter models.WorkFilter) ([]models.Work, int, error) {
	base := "FROM works WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		conditions = append(conditions, fmt.Sprintf("name ILIKE $%d", len(args)))
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY name ASC, id ASC LIMIT %d OFFSET %d", workColumns, base, size, offset)
	var works []models.Work
	if err := r.db.SelectContext(ctx, &works, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list works: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count works: %w", err)
	}

	return works, total, nil
}

// Search returns up to limit works whose name matches the query.
func (r *WorkRepository) Search(ctx context.Context, q string, limit int) ([]models.Work, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	query := fmt.Sprintf("SELECT %s FROM works WHERE name ILIKE $1 ORDER BY name ASC, id ASC LIMIT %d", workColumns, limit)
	var works []models.Work
	if err := r.db.SelectContext(ctx, &works, query, "%"+q+"%"); err != nil {
		return nil, fmt.Errorf("search works: %w", err)
	}
	return works, nil
}

// FindByID loads a work by id.
func (r *WorkRepository) FindByID(ctx context.Context, id int64) (*models.Work, error) {
	query := fmt.Sprintf("SELECT %s FROM works WHERE id = $1", workColumns)
	var work models.Work
	if err := r.db.GetContext(ctx, &work, query, id); err != nil {
		return nil, err
	}
	return &work, nil
}

// Create stores a new work.
func (r *WorkRepository) Create(ctx context.Context, work *models.Work) error {
	now := time.Now().UTC()
	work.CreatedAt = &now
	work.UpdatedAt = &now
	const query = `INSERT INTO works (name, website_url, annict_url, wikipedia_url, x_username, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query,
		work.Name, work.WebsiteURL, work.AnnictURL, work.WikipediaURL, work.XUsername,
		work.CreatedAt, work.UpdatedAt,
	).Scan(&work.ID); err != nil {
		return fmt.Errorf("create work: %w", err)
	}
	return nil
}

// Update modifies a work and touches its updated_at.
func (r *WorkRepository) Update(ctx context.Context, work *models.Work) error {
	now := time.Now().UTC()
	work.UpdatedAt = &now
	const query = `UPDATE works SET name = $1, website_url = $2, annict_url = $3, wikipedia_url = $4, x_username = $5, updated_at = $6 WHERE id = $7`
	if _, err := r.db.ExecContext(ctx, query,
		work.Name, work.WebsiteURL, work.AnnictURL, work.WikipediaURL, work.XUsername,
		work.UpdatedAt, work.ID,
	); err != nil {
		return fmt.Errorf("update work: %w", err)
	}
	return nil
}

// TouchUpdatedAt bumps a work's updated_at; called after nested program
// mutations so the work appears in the updates timeline.
func (r *WorkRepository) TouchUpdatedAt(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE works SET updated_at = $1 WHERE id = $2`, time.Now().UTC(), id); err != nil {
		return fmt.Errorf("touch work updated_at: %w", err)
	}
	return nil
}

// Delete removes a work and, via cascade, its programs.
func (r *WorkRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM works WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete work: %w", err)
	}
	return nil
}

// RecentCreated returns the most recently created works.
func (r *WorkRepository) RecentCreated(ctx context.Context, limit int) ([]models.Work, error) {
	query := fmt.Sprintf("SELECT %s FROM works WHERE created_at IS NOT NULL ORDER BY created_at DESC LIMIT %d", workColumns, limit)
	var works []models.Work
	if err := r.db.SelectContext(ctx, &works, query); err != nil {
		return nil, fmt.Errorf("list recently created works: %w", err)
	}
	return works, nil
}

// RecentUpdated returns the most recently updated works.
func (r *WorkRepository) RecentUpdated(ctx context.Context, limit int) ([]models.Work, error) {
	query := fmt.Sprintf("SELECT %s FROM works WHERE updated_at IS NOT NULL ORDER BY updated_at DESC LIMIT %d", workColumns, limit)
	var works []models.Work
	if err := r.db.SelectContext(ctx, &works, query); err != nil {
		return nil, fmt.Errorf("list recently updated works: %w", err)
	}
	return works, nil
}
