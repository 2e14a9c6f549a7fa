package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/anitime-dev/anitime-api/internal/models"
)

// ProgramRepository provides persistence for broadcast programs.
type ProgramRepository struct {
	db *sqlx.DB
}

// NewProgramRepository creates a new program repository.
func NewProgramRepository(db *sqlx.DB) *ProgramRepository {
	return &ProgramRepository{db: db}
}

// recordColumns is the flattened projection consumed by the layout engine:
// channel, area and work metadata resolved in one query, tag names
// aggregated, missing relations degraded to zero values instead of dropping
// the row.
const recordColumns = `
	p.id,
	p.work_id,
	COALESCE(w.name, '') AS name,
	p.start_date,
	p.start_time,
	p.end_time,
	p.day_of_the_week,
	COALESCE(c.id, 0) AS channel_id,
	COALESCE(c.name, '') AS channel_name,
	COALESCE(c."order", 0) AS channel_order,
	COALESCE(a.id, 0) AS area_id,
	COALESCE(a.name, '') AS area_name,
	COALESCE(a."order", 0) AS area_order,
	COALESCE(p.color, 0) AS color,
	p.version,
	p.note,
	COALESCE(ARRAY_AGG(t.name ORDER BY t."order") FILTER (WHERE t.name IS NOT NULL), '{}') AS tags,
	w.website_url,
	w.x_username,
	w.wikipedia_url,
	w.annict_url`

const recordJoins = `
	FROM programs p
	LEFT JOIN works w ON w.id = p.work_id
	LEFT JOIN channels c ON c.id = p.channel_id
	LEFT JOIN areas a ON a.id = c.area_id
	LEFT JOIN programs_tags pt ON pt.program_id = p.id
	LEFT JOIN tags t ON t.id = pt.tag_id`

// ListRecords returns flattened schedule records matching the filter, ordered
// by start time then id for deterministic output.
func (r *ProgramRepository) ListRecords(ctx context.Context, filter models.ProgramFilter) ([]models.ProgramRecord, error) {
	joins := recordJoins
	var conditions []string
	var args []interface{}

	if filter.SeasonID != 0 {
		args = append(args, filter.SeasonID)
		joins += fmt.Sprintf("\n\tINNER JOIN programs_seasons ps ON ps.program_id = p.id AND ps.season_id = $%d", len(args))
	}
	if filter.DayOfTheWeek != 0 {
		args = append(args, filter.DayOfTheWeek)
		conditions = append(conditions, fmt.Sprintf("p.day_of_the_week = $%d", len(args)))
	}
	if filter.ChannelID != 0 {
		args = append(args, filter.ChannelID)
		conditions = append(conditions, fmt.Sprintf("p.channel_id = $%d", len(args)))
	}
	if filter.WorkID != 0 {
		args = append(args, filter.WorkID)
		conditions = append(conditions, fmt.Sprintf("p.work_id = $%d", len(args)))
	}
	if len(filter.IDs) > 0 {
		args = append(args, pq.Array(filter.IDs))
		conditions = append(conditions, fmt.Sprintf("p.id = ANY($%d)", len(args)))
	}

	query := "SELECT" + recordColumns + joins
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += `
	GROUP BY p.id, w.id, c.id, a.id
	ORDER BY p.start_time ASC, p.id ASC`

	var records []models.ProgramRecord
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("list program records: %w", err)
	}
	return records, nil
}

// FindByID loads a program row by id.
func (r *ProgramRepository) FindByID(ctx context.Context, id int64) (*models.Program, error) {
	const query = `SELECT id, work_id, channel_id, block_id, day_of_the_week, start_time, end_time, start_date, COALESCE(color, 0) AS color, version, note, "order" FROM programs WHERE id = $1`
	var prog models.Program
	if err := r.db.GetContext(ctx, &prog, query, id); err != nil {
		return nil, err
	}
	return &prog, nil
}

// ListByWork returns the programs of one work ordered for the editor.
func (r *ProgramRepository) ListByWork(ctx context.Context, workID int64) ([]models.Program, error) {
	const query = `SELECT id, work_id, channel_id, block_id, day_of_the_week, start_time, end_time, start_date, COALESCE(color, 0) AS color, version, note, "order" FROM programs WHERE work_id = $1 ORDER BY "order" ASC, id ASC`
	var programs []models.Program
	if err := r.db.SelectContext(ctx, &programs, query, workID); err != nil {
		return nil, fmt.Errorf("list programs by work: %w", err)
	}
	return programs, nil
}

// Create stores a program and its season/tag junction rows in one
// transaction. The id is assigned by the database sequence.
func (r *ProgramRepository) Create(ctx context.Context, program *models.Program) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create program: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const query = `INSERT INTO programs (work_id, channel_id, block_id, day_of_the_week, start_time, end_time, start_date, color, version, note, "order") VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`
	if err = tx.QueryRowxContext(ctx, query,
		program.WorkID, program.ChannelID, program.BlockID, program.DayOfTheWeek,
		program.StartTime, program.EndTime, program.StartDate, program.Color,
		program.Version, program.Note, program.Order,
	).Scan(&program.ID); err != nil {
		return fmt.Errorf("create program: %w", err)
	}

	if err = r.replaceJunctions(ctx, tx, program); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create program: %w", err)
	}
	return nil
}

// Update modifies a program row and replaces its junction rows.
func (r *ProgramRepository) Update(ctx context.Context, program *models.Program) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update program: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const query = `UPDATE programs SET work_id = $1, channel_id = $2, block_id = $3, day_of_the_week = $4, start_time = $5, end_time = $6, start_date = $7, color = $8, version = $9, note = $10, "order" = $11 WHERE id = $12`
	if _, err = tx.ExecContext(ctx, query,
		program.WorkID, program.ChannelID, program.BlockID, program.DayOfTheWeek,
		program.StartTime, program.EndTime, program.StartDate, program.Color,
		program.Version, program.Note, program.Order, program.ID,
	); err != nil {
		return fmt.Errorf("update program: %w", err)
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM programs_seasons WHERE program_id = $1`, program.ID); err != nil {
		return fmt.Errorf("clear program seasons: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM programs_tags WHERE program_id = $1`, program.ID); err != nil {
		return fmt.Errorf("clear program tags: %w", err)
	}
	if err = r.replaceJunctions(ctx, tx, program); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit update program: %w", err)
	}
	return nil
}

func (r *ProgramRepository) replaceJunctions(ctx context.Context, tx *sqlx.Tx, program *models.Program) error {
	for _, seasonID := range program.SeasonIDs {
		if _, err := tx.ExecContext(ctx, `INSERT INTO programs_seasons (program_id, season_id) VALUES ($1, $2)`, program.ID, seasonID); err != nil {
			return fmt.Errorf("insert program season: %w", err)
		}
	}
	for _, tagID := range program.TagIDs {
		if _, err := tx.ExecContext(ctx, `INSERT INTO programs_tags (program_id, tag_id) VALUES ($1, $2)`, program.ID, tagID); err != nil {
			return fmt.Errorf("insert program tag: %w", err)
		}
	}
	return nil
}

// Delete removes a program; junction rows cascade.
func (r *ProgramRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM programs WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete program: %w", err)
	}
	return nil
}

// Reorder rewrites the editor ordering of a work's programs in one
// transaction. Ids not belonging to the work are ignored by the WHERE clause.
func (r *ProgramRepository) Reorder(ctx context.Context, workID int64, orderedIDs []int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reorder programs: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for idx, id := range orderedIDs {
		if _, err = tx.ExecContext(ctx, `UPDATE programs SET "order" = $1 WHERE id = $2 AND work_id = $3`, idx+1, id, workID); err != nil {
			return fmt.Errorf("reorder program %d: %w", id, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit reorder programs: %w", err)
	}
	return nil
}

// SeasonIDs returns the season junction ids for a program.
func (r *ProgramRepository) SeasonIDs(ctx context.Context, programID int64) ([]int64, error) {
	var ids []int64
	if err := r.db.SelectContext(ctx, &ids, `SELECT season_id FROM programs_seasons WHERE program_id = $1 ORDER BY season_id`, programID); err != nil {
		return nil, fmt.Errorf("list program seasons: %w", err)
	}
	return ids, nil
}

// TagIDs returns the tag junction ids for a program.
func (r *ProgramRepository) TagIDs(ctx context.Context, programID int64) ([]int64, error) {
	var ids []int64
	if err := r.db.SelectContext(ctx, &ids, `SELECT tag_id FROM programs_tags WHERE program_id = $1 ORDER BY tag_id`, programID); err != nil {
		return nil, fmt.Errorf("list program tags: %w", err)
	}
	return ids, nil
}
