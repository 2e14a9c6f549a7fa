package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/anitime-dev/anitime-api/internal/models"
)

// ChannelRepository provides persistence for channels.
type ChannelRepository struct {
	db *sqlx.DB
}

// NewChannelRepository creates a new channel repository.
func NewChannelRepository(db *sqlx.DB) *ChannelRepository {
	return &ChannelRepository{db: db}
}

// List returns all channels with their area resolved, ordered the way the
// channel selector presents them.
func (r *ChannelRepository) List(ctx context.Context) ([]models.Channel, error) {
	const query = `SELECT c.id, c.area_id, c.name, c."order", a.name AS area_name, a."order" AS area_order FROM channels c LEFT JOIN areas a ON a.id = c.area_id ORDER BY c.area_id ASC, c."order" ASC, c.id ASC`
	var channels []models.Channel
	if err := r.db.SelectContext(ctx, &channels, query); err != nil {
		return nil, fmt.Errorf("list channels: %w", err)
	}
	return channels, nil
}

// FindByID loads a channel by id.
func (r *ChannelRepository) FindByID(ctx context.Context, id int64) (*models.Channel, error) {
	const query = `SELECT c.id, c.area_id, c.name, c."order", a.name AS area_name, a."order" AS area_order FROM channels c LEFT JOIN areas a ON a.id = c.area_id WHERE c.id = $1`
	var channel models.Channel
	if err := r.db.GetContext(ctx, &channel, query, id); err != nil {
		return nil, err
	}
	return &channel, nil
}

// Create stores a new channel.
func (r *ChannelRepository) Create(ctx context.Context, channel *models.Channel) error {
	const query = `INSERT INTO channels (area_id, name, "order") VALUES ($1, $2, $3) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query, channel.AreaID, channel.Name, channel.Order).Scan(&channel.ID); err != nil {
		return fmt.Errorf("create channel: %w", err)
	}
	return nil
}

// Update modifies a channel.
func (r *ChannelRepository) Update(ctx context.Context, channel *models.Channel) error {
	const query = `UPDATE channels SET area_id = $1, name = $2, "order" = $3 WHERE id = $4`
	if _, err := r.db.ExecContext(ctx, query, channel.AreaID, channel.Name, channel.Order, channel.ID); err != nil {
		return fmt.Errorf("update channel: %w", err)
	}
	return nil
}

// Delete removes a channel.
func (r *ChannelRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM channels WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete channel: %w", err)
	}
	return nil
}
