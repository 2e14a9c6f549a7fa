package service

import (
	"context"
	"database/sql"
	"sort"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/anitime-dev/anitime-api/internal/models"
	appErrors "github.com/anitime-dev/anitime-api/pkg/errors"
)

type seasonRepository interface {
	List(ctx context.Context) ([]models.Season, error)
	FindByID(ctx context.Context, id int64) (*models.Season, error)
	Create(ctx context.Context, season *models.Season) error
	Update(ctx context.Context, season *models.Season) error
	Delete(ctx context.Context, id int64) error
}

// SeasonRequest describes the payload for creating or updating a season.
type SeasonRequest struct {
	Year   int  `json:"year" validate:"required,min=1990,max=2100"`
	Month  int  `json:"month" validate:"required,min=1,max=12"`
	Active bool `json:"active"`
}

// SeasonService coordinates season maintenance and the selector ordering.
type SeasonService struct {
	repo      seasonRepository
	grids     gridInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSeasonService instantiates SeasonService.
func NewSeasonService(repo seasonRepository, grids gridInvalidator, validate *validator.Validate, logger *zap.Logger) *SeasonService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SeasonService{repo: repo, grids: grids, validator: validate, logger: logger}
}

// List returns seasons in selector order: active cours chronologically,
// then inactive ones newest first.
func (s *SeasonService) List(ctx context.Context) ([]models.Season, error) {
	seasons, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list seasons")
	}

	sort.SliceStable(seasons, func(i, j int) bool {
		a, b := seasons[i], seasons[j]
		if a.Active != b.Active {
			return a.Active
		}
		if a.Active {
			if a.Year != b.Year {
				return a.Year < b.Year
			}
			return a.Month < b.Month
		}
		if a.Year != b.Year {
			return a.Year > b.Year
		}
		return a.Month > b.Month
	})

	for i := range seasons {
		seasons[i].Name = seasons[i].DisplayName()
	}
	return seasons, nil
}

// Get loads one season.
func (s *SeasonService) Get(ctx context.Context, id int64) (*models.Season, error) {
	season, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "season not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load season")
	}
	season.Name = season.DisplayName()
	return season, nil
}

// Create inserts a new season.
func (s *SeasonService) Create(ctx context.Context, req SeasonRequest) (*models.Season, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid season payload")
	}

	season := models.Season{Year: req.Year, Month: req.Month, Active: req.Active}
	if err := s.repo.Create(ctx, &season); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create season")
	}
	season.Name = season.DisplayName()
	return &season, nil
}

// Update modifies an existing season.
func (s *SeasonService) Update(ctx context.Context, id int64, req SeasonRequest) (*models.Season, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid season payload")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "season not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load season")
	}

	updated := models.Season{ID: existing.ID, Year: req.Year, Month: req.Month, Active: req.Active}
	if err := s.repo.Update(ctx, &updated); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update season")
	}
	if s.grids != nil {
		s.grids.Invalidate(ctx)
	}
	updated.Name = updated.DisplayName()
	return &updated, nil
}

// Delete removes a season; program assignments cascade.
func (s *SeasonService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "season not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load season")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete season")
	}
	if s.grids != nil {
		s.grids.Invalidate(ctx)
	}
	return nil
}
