package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/anitime-dev/anitime-api/internal/models"
	appErrors "github.com/anitime-dev/anitime-api/pkg/errors"
)

type channelRepository interface {
	List(ctx context.Context) ([]models.Channel, error)
	FindByID(ctx context.Context, id int64) (*models.Channel, error)
	Create(ctx context.Context, channel *models.Channel) error
	Update(ctx context.Context, channel *models.Channel) error
	Delete(ctx context.Context, id int64) error
}

type areaRepository interface {
	List(ctx context.Context) ([]models.Area, error)
	Create(ctx context.Context, area *models.Area) error
	Update(ctx context.Context, area *models.Area) error
	Delete(ctx context.Context, id int64) error
}

// ChannelRequest describes the payload for creating or updating a channel.
type ChannelRequest struct {
	AreaID int64  `json:"area_id" validate:"required,gt=0"`
	Name   string `json:"name" validate:"required,max=100"`
	Order  int    `json:"order" validate:"min=0"`
}

// AreaRequest describes the payload for creating or updating an area.
type AreaRequest struct {
	Name  string `json:"name" validate:"required,max=100"`
	Order int    `json:"order" validate:"min=0"`
}

// ChannelService coordinates channel and area maintenance.
type ChannelService struct {
	channels  channelRepository
	areas     areaRepository
	grids     gridInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewChannelService instantiates ChannelService.
func NewChannelService(channels channelRepository, areas areaRepository, grids gridInvalidator, validate *validator.Validate, logger *zap.Logger) *ChannelService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChannelService{channels: channels, areas: areas, grids: grids, validator: validate, logger: logger}
}

// ListChannels returns every channel with its area resolved, in display order.
func (s *ChannelService) ListChannels(ctx context.Context) ([]models.Channel, error) {
	channels, err := s.channels.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list channels")
	}
	return channels, nil
}

// GetChannel loads one channel.
func (s *ChannelService) GetChannel(ctx context.Context, id int64) (*models.Channel, error) {
	channel, err := s.channels.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "channel not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load channel")
	}
	return channel, nil
}

// CreateChannel inserts a new channel.
func (s *ChannelService) CreateChannel(ctx context.Context, req ChannelRequest) (*models.Channel, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid channel payload")
	}

	channel := models.Channel{AreaID: req.AreaID, Name: req.Name, Order: req.Order}
	if err := s.channels.Create(ctx, &channel); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create channel")
	}
	s.invalidate(ctx)
	return &channel, nil
}

// UpdateChannel modifies an existing channel.
func (s *ChannelService) UpdateChannel(ctx context.Context, id int64, req ChannelRequest) (*models.Channel, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid channel payload")
	}

	existing, err := s.channels.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "channel not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load channel")
	}

	updated := models.Channel{ID: existing.ID, AreaID: req.AreaID, Name: req.Name, Order: req.Order}
	if err := s.channels.Update(ctx, &updated); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update channel")
	}
	s.invalidate(ctx)
	return &updated, nil
}

// DeleteChannel removes a channel.
func (s *ChannelService) DeleteChannel(ctx context.Context, id int64) error {
	if _, err := s.channels.FindByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "channel not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load channel")
	}
	if err := s.channels.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete channel")
	}
	s.invalidate(ctx)
	return nil
}

// ListAreas returns every area in display order.
func (s *ChannelService) ListAreas(ctx context.Context) ([]models.Area, error) {
	areas, err := s.areas.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list areas")
	}
	return areas, nil
}

// CreateArea inserts a new area.
func (s *ChannelService) CreateArea(ctx context.Context, req AreaRequest) (*models.Area, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid area payload")
	}

	area := models.Area{Name: req.Name, Order: req.Order}
	if err := s.areas.Create(ctx, &area); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create area")
	}
	s.invalidate(ctx)
	return &area, nil
}

// UpdateArea modifies an existing area.
func (s *ChannelService) UpdateArea(ctx context.Context, id int64, req AreaRequest) (*models.Area, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid area payload")
	}

	area := models.Area{ID: id, Name: req.Name, Order: req.Order}
	if err := s.areas.Update(ctx, &area); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update area")
	}
	s.invalidate(ctx)
	return &area, nil
}

// DeleteArea removes an area.
func (s *ChannelService) DeleteArea(ctx context.Context, id int64) error {
	if err := s.areas.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete area")
	}
	s.invalidate(ctx)
	return nil
}

func (s *ChannelService) invalidate(ctx context.Context) {
	if s.grids != nil {
		s.grids.Invalidate(ctx)
	}
}
