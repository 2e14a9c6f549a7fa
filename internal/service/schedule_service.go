package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/anitime-dev/anitime-api/internal/layout"
	"github.com/anitime-dev/anitime-api/internal/models"
	appErrors "github.com/anitime-dev/anitime-api/pkg/errors"
)

// ScheduleRepository describes the persistence layer required by ScheduleService.
type ScheduleRepository interface {
	ListRecords(ctx context.Context, filter models.ProgramFilter) ([]models.ProgramRecord, error)
}

// ScheduleFilter describes one grid request.
type ScheduleFilter struct {
	Day              int
	SeasonID         int64
	Mode             layout.Mode
	HiddenAreaIDs    []int64
	HiddenChannelIDs []int64
}

// ScheduleGrid is the positioned grid returned to clients.
type ScheduleGrid struct {
	Day         int             `json:"day"`
	SeasonID    int64           `json:"season_id,omitempty"`
	Mode        layout.Mode     `json:"mode"`
	Columns     []layout.Column `json:"columns"`
	GeneratedAt time.Time       `json:"generated_at"`
}

// WeekSchedule holds one channel's grid for every broadcast day.
type WeekSchedule struct {
	ChannelID   int64                   `json:"channel_id"`
	SeasonID    int64                   `json:"season_id,omitempty"`
	Days        map[int][]layout.Column `json:"days"`
	GeneratedAt time.Time               `json:"generated_at"`
}

// ScheduleService builds positioned schedule grids from stored programs.
type ScheduleService struct {
	repo    ScheduleRepository
	cache   *CacheService
	metrics *MetricsService
	logger  *zap.Logger
	ttl     time.Duration
}

// NewScheduleService constructs a schedule service.
func NewScheduleService(repo ScheduleRepository, cache *CacheService, metrics *MetricsService, ttl time.Duration, logger *zap.Logger) *ScheduleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ScheduleService{repo: repo, cache: cache, metrics: metrics, logger: logger, ttl: ttl}
}

// Grid returns the positioned grid for one broadcast day, or for the whole
// week when day is 0. The boolean indicates whether the grid originated from
// cache. Requests carrying hidden column filters bypass the cache because
// the filter is applied after layout.
func (s *ScheduleService) Grid(ctx context.Context, filter ScheduleFilter) (*ScheduleGrid, bool, error) {
	if filter.Day < 0 || filter.Day > 7 {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "day must be between 0 (whole week) and 7")
	}
	if !filter.Mode.Valid() {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown schedule mode %q", filter.Mode))
	}

	filtered := len(filter.HiddenAreaIDs) > 0 || len(filter.HiddenChannelIDs) > 0
	cacheKey := fmt.Sprintf("schedule:day:%d:season:%d:mode:%s", filter.Day, filter.SeasonID, filter.Mode)

	if !filtered && s.cache != nil {
		var cached ScheduleGrid
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return &cached, true, nil
		}
	}

	grid, err := s.build(ctx, filter)
	if err != nil {
		return nil, false, err
	}

	if !filtered && s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, grid, s.ttl); err != nil {
			s.logger.Warn("cache schedule grid", zap.Error(err), zap.String("key", cacheKey))
		}
	}
	return grid, false, nil
}

// Week returns one channel's grid for every day of the week. The view always
// uses channel mode so the single column keeps its lane layout.
func (s *ScheduleService) Week(ctx context.Context, channelID, seasonID int64) (*WeekSchedule, error) {
	if channelID <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "channel id must be positive")
	}

	records, err := s.repo.ListRecords(ctx, models.ProgramFilter{ChannelID: channelID, SeasonID: seasonID})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list channel programs")
	}

	byDay := make(map[int][]models.ProgramRecord)
	for _, rec := range records {
		byDay[rec.DayOfTheWeek] = append(byDay[rec.DayOfTheWeek], rec)
	}

	week := &WeekSchedule{
		ChannelID:   channelID,
		SeasonID:    seasonID,
		Days:        make(map[int][]layout.Column, 7),
		GeneratedAt: time.Now().UTC(),
	}
	for day := 1; day <= 7; day++ {
		start := time.Now()
		columns := layout.Calculate(byDay[day], layout.ModeChannel)
		if s.metrics != nil {
			s.metrics.ObserveLayout(string(layout.ModeChannel), time.Since(start))
		}
		week.Days[day] = columns
	}
	return week, nil
}

// Records returns flattened records for an explicit id set. Clients keep
// their watch list locally and rehydrate it through this lookup.
func (s *ScheduleService) Records(ctx context.Context, ids []int64) ([]models.ProgramRecord, error) {
	if len(ids) == 0 {
		return []models.ProgramRecord{}, nil
	}
	records, err := s.repo.ListRecords(ctx, models.ProgramFilter{IDs: ids})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schedule records")
	}
	return records, nil
}

// Invalidate drops every cached grid. Called after any program, channel,
// area, season or tag mutation.
func (s *ScheduleService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, "schedule:*"); err != nil {
		s.logger.Warn("invalidate schedule cache", zap.Error(err))
	}
}

func (s *ScheduleService) build(ctx context.Context, filter ScheduleFilter) (*ScheduleGrid, error) {
	start := time.Now()
	records, err := s.repo.ListRecords(ctx, models.ProgramFilter{
		DayOfTheWeek: filter.Day,
		SeasonID:     filter.SeasonID,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schedule records")
	}
	if s.metrics != nil {
		s.metrics.ObserveDBQuery("schedule_records", time.Since(start))
	}

	layoutStart := time.Now()
	columns := layout.Calculate(records, filter.Mode)
	if s.metrics != nil {
		s.metrics.ObserveLayout(string(filter.Mode), time.Since(layoutStart))
	}

	columns = applyHidden(columns, filter)

	return &ScheduleGrid{
		Day:         filter.Day,
		SeasonID:    filter.SeasonID,
		Mode:        filter.Mode,
		Columns:     columns,
		GeneratedAt: time.Now().UTC(),
	}, nil
}

// applyHidden removes hidden columns and programs after layout. Positions of
// the remaining programs are left untouched so toggling a hidden channel
// never reflows the rest of the grid.
func applyHidden(columns []layout.Column, filter ScheduleFilter) []layout.Column {
	if len(filter.HiddenAreaIDs) == 0 && len(filter.HiddenChannelIDs) == 0 {
		return columns
	}

	hiddenAreas := make(map[int64]struct{}, len(filter.HiddenAreaIDs))
	for _, id := range filter.HiddenAreaIDs {
		hiddenAreas[id] = struct{}{}
	}
	hiddenChannels := make(map[int64]struct{}, len(filter.HiddenChannelIDs))
	for _, id := range filter.HiddenChannelIDs {
		hiddenChannels[id] = struct{}{}
	}

	hiddenColumn := hiddenChannels
	if filter.Mode == layout.ModeArea {
		hiddenColumn = hiddenAreas
	}

	result := make([]layout.Column, 0, len(columns))
	for _, col := range columns {
		if _, ok := hiddenColumn[col.ID]; ok {
			continue
		}
		kept := make([]layout.Program, 0, len(col.Programs))
		for _, prog := range col.Programs {
			if _, ok := hiddenChannels[prog.ChannelID]; ok {
				continue
			}
			if _, ok := hiddenAreas[prog.AreaID]; ok {
				continue
			}
			kept = append(kept, prog)
		}
		if len(kept) == 0 {
			continue
		}
		col.Programs = kept
		result = append(result, col)
	}
	return result
}
