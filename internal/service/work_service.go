package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/anitime-dev/anitime-api/internal/models"
	appErrors "github.com/anitime-dev/anitime-api/pkg/errors"
)

type workRepository interface {
	List(ctx context.Context, filter models.WorkFilter) ([]models.Work, int, error)
	Search(ctx context.Context, q string, limit int) ([]models.Work, error)
	FindByID(ctx context.Context, id int64) (*models.Work, error)
	Create(ctx context.Context, work *models.Work) error
	Update(ctx context.Context, work *models.Work) error
	Delete(ctx context.Context, id int64) error
	RecentCreated(ctx context.Context, limit int) ([]models.Work, error)
	RecentUpdated(ctx context.Context, limit int) ([]models.Work, error)
}

// WorkRequest describes the payload for creating or updating a work.
type WorkRequest struct {
	Name         string  `json:"name" validate:"required,max=200"`
	WebsiteURL   *string `json:"website_url,omitempty" validate:"omitempty,url"`
	AnnictURL    *string `json:"annict_url,omitempty" validate:"omitempty,url"`
	WikipediaURL *string `json:"wikipedia_url,omitempty" validate:"omitempty,url"`
	XUsername    *string `json:"x_username,omitempty" validate:"omitempty,max=50"`
}

// WorkService coordinates work CRUD and the recent-updates timeline.
type WorkService struct {
	repo          workRepository
	audit         auditRecorder
	grids         gridInvalidator
	validator     *validator.Validate
	logger        *zap.Logger
	timelineLimit int
}

// NewWorkService instantiates WorkService.
func NewWorkService(repo workRepository, audit auditRecorder, grids gridInvalidator, validate *validator.Validate, timelineLimit int, logger *zap.Logger) *WorkService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if timelineLimit <= 0 {
		timelineLimit = 20
	}
	return &WorkService{repo: repo, audit: audit, grids: grids, validator: validate, logger: logger, timelineLimit: timelineLimit}
}

// List returns works matching the filter with a total count.
func (s *WorkService) List(ctx context.Context, filter models.WorkFilter) ([]models.Work, int, error) {
	works, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list works")
	}
	return works, total, nil
}

// Search returns works whose name matches the query. Intended for the
// editor's incremental title lookup.
func (s *WorkService) Search(ctx context.Context, q string, limit int) ([]models.Work, error) {
	if q == "" {
		return []models.Work{}, nil
	}
	works, err := s.repo.Search(ctx, q, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to search works")
	}
	return works, nil
}

// Get loads one work.
func (s *WorkService) Get(ctx context.Context, id int64) (*models.Work, error) {
	work, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "work not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load work")
	}
	return work, nil
}

// Create inserts a new work.
func (s *WorkService) Create(ctx context.Context, actorID *string, req WorkRequest) (*models.Work, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid work payload")
	}

	work := models.Work{
		Name:         req.Name,
		WebsiteURL:   req.WebsiteURL,
		AnnictURL:    req.AnnictURL,
		WikipediaURL: req.WikipediaURL,
		XUsername:    req.XUsername,
	}
	if err := s.repo.Create(ctx, &work); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create work")
	}

	s.recordAudit(ctx, actorID, models.AuditActionWorkCreate, &work, nil, &work)
	return &work, nil
}

// Update modifies an existing work.
func (s *WorkService) Update(ctx context.Context, actorID *string, id int64, req WorkRequest) (*models.Work, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid work payload")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "work not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load work")
	}

	updated := *existing
	updated.Name = req.Name
	updated.WebsiteURL = req.WebsiteURL
	updated.AnnictURL = req.AnnictURL
	updated.WikipediaURL = req.WikipediaURL
	updated.XUsername = req.XUsername
	if err := s.repo.Update(ctx, &updated); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update work")
	}

	s.recordAudit(ctx, actorID, models.AuditActionWorkUpdate, &updated, existing, &updated)
	if s.grids != nil {
		s.grids.Invalidate(ctx)
	}
	return &updated, nil
}

// Delete removes a work and, via cascade, its programs.
func (s *WorkService) Delete(ctx context.Context, actorID *string, id int64) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "work not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load work")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete work")
	}

	s.recordAudit(ctx, actorID, models.AuditActionWorkDelete, existing, existing, nil)
	if s.grids != nil {
		s.grids.Invalidate(ctx)
	}
	return nil
}

// Timeline merges recently created and recently updated works into one feed.
// A work both created and updated recently appears once, as an update, so
// the feed never shows the same title twice. Events sort newest first.
func (s *WorkService) Timeline(ctx context.Context) ([]models.TimelineEvent, error) {
	created, err := s.repo.RecentCreated(ctx, s.timelineLimit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list recently created works")
	}
	updated, err := s.repo.RecentUpdated(ctx, s.timelineLimit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list recently updated works")
	}

	events := make(map[int64]models.TimelineEvent, len(created)+len(updated))
	for _, work := range created {
		if work.CreatedAt == nil {
			continue
		}
		events[work.ID] = timelineEvent(work, models.TimelineEventCreate, *work.CreatedAt)
	}
	for _, work := range updated {
		if work.UpdatedAt == nil {
			continue
		}
		// Updates supersede creations unless the timestamps match, which
		// means the work was never touched after insert.
		if work.CreatedAt != nil && work.UpdatedAt.Equal(*work.CreatedAt) {
			continue
		}
		events[work.ID] = timelineEvent(work, models.TimelineEventUpdate, *work.UpdatedAt)
	}

	feed := make([]models.TimelineEvent, 0, len(events))
	for _, event := range events {
		feed = append(feed, event)
	}
	sort.Slice(feed, func(i, j int) bool {
		if !feed[i].Date.Equal(feed[j].Date) {
			return feed[i].Date.After(feed[j].Date)
		}
		return feed[i].Work.ID < feed[j].Work.ID
	})
	if len(feed) > s.timelineLimit {
		feed = feed[:s.timelineLimit]
	}
	return feed, nil
}

func timelineEvent(work models.Work, eventType models.TimelineEventType, date time.Time) models.TimelineEvent {
	return models.TimelineEvent{
		ID:   fmt.Sprintf("%s-%d", eventType, work.ID),
		Type: eventType,
		Date: date,
		Work: models.TimelineWork{
			ID:         work.ID,
			Name:       work.Name,
			WebsiteURL: work.WebsiteURL,
		},
	}
}

func (s *WorkService) recordAudit(ctx context.Context, actorID *string, action string, work *models.Work, oldValue, newValue *models.Work) {
	if s.audit == nil {
		return
	}
	resourceID := fmt.Sprintf("%d", work.ID)
	log := models.AuditLog{
		UserID:     actorID,
		Action:     action,
		Resource:   "work",
		ResourceID: &resourceID,
	}
	if oldValue != nil {
		log.OldValues, _ = json.Marshal(oldValue)
	}
	if newValue != nil {
		log.NewValues, _ = json.Marshal(newValue)
	}
	if err := s.audit.CreateAuditLog(ctx, &log); err != nil {
		s.logger.Warn("record work audit", zap.Error(err), zap.String("action", action))
	}
}
