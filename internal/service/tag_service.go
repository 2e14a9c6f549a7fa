package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/anitime-dev/anitime-api/internal/models"
	appErrors "github.com/anitime-dev/anitime-api/pkg/errors"
)

type tagRepository interface {
	List(ctx context.Context) ([]models.Tag, error)
	Create(ctx context.Context, tag *models.Tag) error
	Update(ctx context.Context, tag *models.Tag) error
	Delete(ctx context.Context, id int64) error
}

// TagRequest describes the payload for creating or updating a tag.
type TagRequest struct {
	Name  string `json:"name" validate:"required,max=20"`
	Order int    `json:"order" validate:"min=0"`
}

// TagService maintains the display tags attached to programs.
type TagService struct {
	repo      tagRepository
	grids     gridInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTagService instantiates TagService.
func NewTagService(repo tagRepository, grids gridInvalidator, validate *validator.Validate, logger *zap.Logger) *TagService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TagService{repo: repo, grids: grids, validator: validate, logger: logger}
}

// List returns every tag in display order.
func (s *TagService) List(ctx context.Context) ([]models.Tag, error) {
	tags, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list tags")
	}
	return tags, nil
}

// Create inserts a new tag.
func (s *TagService) Create(ctx context.Context, req TagRequest) (*models.Tag, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid tag payload")
	}

	tag := models.Tag{Name: req.Name, Order: req.Order}
	if err := s.repo.Create(ctx, &tag); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create tag")
	}
	s.invalidate(ctx)
	return &tag, nil
}

// Update modifies an existing tag.
func (s *TagService) Update(ctx context.Context, id int64, req TagRequest) (*models.Tag, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid tag payload")
	}

	tag := models.Tag{ID: id, Name: req.Name, Order: req.Order}
	if err := s.repo.Update(ctx, &tag); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update tag")
	}
	s.invalidate(ctx)
	return &tag, nil
}

// Delete removes a tag; program attachments cascade.
func (s *TagService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete tag")
	}
	s.invalidate(ctx)
	return nil
}

func (s *TagService) invalidate(ctx context.Context) {
	if s.grids != nil {
		s.grids.Invalidate(ctx)
	}
}
