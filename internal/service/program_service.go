package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/anitime-dev/anitime-api/internal/layout"
	"github.com/anitime-dev/anitime-api/internal/models"
	appErrors "github.com/anitime-dev/anitime-api/pkg/errors"
)

type programRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Program, error)
	ListByWork(ctx context.Context, workID int64) ([]models.Program, error)
	Create(ctx context.Context, program *models.Program) error
	Update(ctx context.Context, program *models.Program) error
	Delete(ctx context.Context, id int64) error
	Reorder(ctx context.Context, workID int64, orderedIDs []int64) error
	SeasonIDs(ctx context.Context, programID int64) ([]int64, error)
	TagIDs(ctx context.Context, programID int64) ([]int64, error)
}

type workTimestamper interface {
	TouchUpdatedAt(ctx context.Context, id int64) error
}

type auditRecorder interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// gridInvalidator drops cached schedule grids after mutations.
type gridInvalidator interface {
	Invalidate(ctx context.Context)
}

// ProgramRequest describes the payload for creating or updating a program.
type ProgramRequest struct {
	WorkID       int64   `json:"work_id" validate:"required,gt=0"`
	ChannelID    int64   `json:"channel_id" validate:"required,gt=0"`
	BlockID      *int64  `json:"block_id,omitempty"`
	DayOfTheWeek int     `json:"day_of_the_week" validate:"required,min=1,max=7"`
	StartTime    string  `json:"start_time" validate:"required"`
	EndTime      string  `json:"end_time" validate:"required"`
	StartDate    *string `json:"start_date,omitempty"`
	Color        int     `json:"color" validate:"min=0"`
	Version      *string `json:"version,omitempty"`
	Note         *string `json:"note,omitempty"`
	Order        int     `json:"order" validate:"min=0"`
	SeasonIDs    []int64 `json:"season_ids,omitempty"`
	TagIDs       []int64 `json:"tag_ids,omitempty"`
}

// ReorderProgramsRequest rewrites the editor order of a work's programs.
type ReorderProgramsRequest struct {
	ProgramIDs []int64 `json:"program_ids" validate:"required,min=1,dive,gt=0"`
}

// ProgramService coordinates program mutations: persistence, the parent
// work's update timestamp, the audit trail and cached grid invalidation.
type ProgramService struct {
	repo      programRepository
	works     workTimestamper
	audit     auditRecorder
	grids     gridInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewProgramService instantiates ProgramService.
func NewProgramService(repo programRepository, works workTimestamper, audit auditRecorder, grids gridInvalidator, validate *validator.Validate, logger *zap.Logger) *ProgramService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProgramService{repo: repo, works: works, audit: audit, grids: grids, validator: validate, logger: logger}
}

// Get loads one program with its season and tag junctions.
func (s *ProgramService) Get(ctx context.Context, id int64) (*models.Program, error) {
	program, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "program not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load program")
	}
	if program.SeasonIDs, err = s.repo.SeasonIDs(ctx, id); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load program seasons")
	}
	if program.TagIDs, err = s.repo.TagIDs(ctx, id); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load program tags")
	}
	return program, nil
}

// ListByWork returns the programs of one work in editor order.
func (s *ProgramService) ListByWork(ctx context.Context, workID int64) ([]models.Program, error) {
	programs, err := s.repo.ListByWork(ctx, workID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list programs")
	}
	return programs, nil
}

// Create inserts a new program.
func (s *ProgramService) Create(ctx context.Context, actorID *string, req ProgramRequest) (*models.Program, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	program := requestToProgram(req)
	if err := s.repo.Create(ctx, &program); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create program")
	}

	s.afterMutation(ctx, actorID, models.AuditActionProgramCreate, &program, nil, &program)
	return &program, nil
}

// Update modifies an existing program.
func (s *ProgramService) Update(ctx context.Context, actorID *string, id int64, req ProgramRequest) (*models.Program, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "program not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load program")
	}

	updated := requestToProgram(req)
	updated.ID = existing.ID
	if err := s.repo.Update(ctx, &updated); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update program")
	}

	s.afterMutation(ctx, actorID, models.AuditActionProgramUpdate, &updated, existing, &updated)
	return &updated, nil
}

// Delete removes a program.
func (s *ProgramService) Delete(ctx context.Context, actorID *string, id int64) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "program not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load program")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete program")
	}

	s.afterMutation(ctx, actorID, models.AuditActionProgramDelete, existing, existing, nil)
	return nil
}

// Reorder rewrites the editor ordering of a work's programs.
func (s *ProgramService) Reorder(ctx context.Context, actorID *string, workID int64, req ReorderProgramsRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid reorder payload")
	}

	if err := s.repo.Reorder(ctx, workID, req.ProgramIDs); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reorder programs")
	}

	s.touchWork(ctx, workID)
	s.invalidate(ctx)
	return nil
}

func (s *ProgramService) validateRequest(req ProgramRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid program payload")
	}
	if !layout.ValidClock(req.StartTime) {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("start_time %q is not a valid HH:MM time", req.StartTime))
	}
	if !layout.ValidClock(req.EndTime) {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("end_time %q is not a valid HH:MM time", req.EndTime))
	}
	return nil
}

// afterMutation runs the side effects shared by all program writes. Audit
// failures are logged, never surfaced; the mutation already committed.
func (s *ProgramService) afterMutation(ctx context.Context, actorID *string, action string, program *models.Program, oldValue, newValue *models.Program) {
	s.touchWork(ctx, program.WorkID)
	s.invalidate(ctx)

	if s.audit == nil {
		return
	}
	resourceID := fmt.Sprintf("%d", program.ID)
	log := models.AuditLog{
		UserID:     actorID,
		Action:     action,
		Resource:   "program",
		ResourceID: &resourceID,
	}
	if oldValue != nil {
		log.OldValues, _ = json.Marshal(oldValue)
	}
	if newValue != nil {
		log.NewValues, _ = json.Marshal(newValue)
	}
	if err := s.audit.CreateAuditLog(ctx, &log); err != nil {
		s.logger.Warn("record program audit", zap.Error(err), zap.String("action", action))
	}
}

func (s *ProgramService) touchWork(ctx context.Context, workID int64) {
	if s.works == nil {
		return
	}
	if err := s.works.TouchUpdatedAt(ctx, workID); err != nil {
		s.logger.Warn("touch work updated_at", zap.Error(err), zap.Int64("work_id", workID))
	}
}

func (s *ProgramService) invalidate(ctx context.Context) {
	if s.grids != nil {
		s.grids.Invalidate(ctx)
	}
}

func requestToProgram(req ProgramRequest) models.Program {
	return models.Program{
		WorkID:       req.WorkID,
		ChannelID:    req.ChannelID,
		BlockID:      req.BlockID,
		DayOfTheWeek: req.DayOfTheWeek,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		StartDate:    req.StartDate,
		Color:        req.Color,
		Version:      req.Version,
		Note:         req.Note,
		Order:        req.Order,
		SeasonIDs:    req.SeasonIDs,
		TagIDs:       req.TagIDs,
	}
}
