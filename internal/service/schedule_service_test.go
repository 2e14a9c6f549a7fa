package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/anitime-dev/anitime-api/internal/layout"
	"github.com/anitime-dev/anitime-api/internal/models"
)

type scheduleRepoStub struct {
	records []models.ProgramRecord
	filters []models.ProgramFilter
}

func (s *scheduleRepoStub) ListRecords(ctx context.Context, filter models.ProgramFilter) ([]models.ProgramRecord, error) {
	s.filters = append(s.filters, filter)
	var matched []models.ProgramRecord
	for _, rec := range s.records {
		if filter.DayOfTheWeek != 0 && rec.DayOfTheWeek != filter.DayOfTheWeek {
			continue
		}
		if filter.ChannelID != 0 && rec.ChannelID != filter.ChannelID {
			continue
		}
		matched = append(matched, rec)
	}
	return matched, nil
}

func fridayRecords() []models.ProgramRecord {
	return []models.ProgramRecord{
		{ID: 1, Name: "葬送のフリーレン", DayOfTheWeek: 5, StartTime: "23:00", EndTime: "23:30",
			ChannelID: 1, ChannelName: "日本テレビ", AreaID: 1, AreaName: "関東", AreaOrder: 1},
		{ID: 2, Name: "ダンジョン飯", DayOfTheWeek: 5, StartTime: "00:00", EndTime: "00:30",
			ChannelID: 2, ChannelName: "MBS", AreaID: 2, AreaName: "関西", AreaOrder: 2},
	}
}

func TestScheduleServiceGrid(t *testing.T) {
	repo := &scheduleRepoStub{records: fridayRecords()}
	svc := NewScheduleService(repo, nil, nil, 0, zap.NewNop())

	grid, fromCache, err := svc.Grid(context.Background(), ScheduleFilter{Day: 5, Mode: layout.ModeArea})
	require.NoError(t, err)
	assert.False(t, fromCache)
	require.Len(t, grid.Columns, 2)
	assert.Equal(t, "関東", grid.Columns[0].Name)
	assert.Equal(t, "関西", grid.Columns[1].Name)
}

func TestScheduleServiceGridWholeWeek(t *testing.T) {
	records := fridayRecords()
	records = append(records, models.ProgramRecord{
		ID: 3, Name: "薬屋のひとりごと", DayOfTheWeek: 6, StartTime: "22:00", EndTime: "22:30",
		ChannelID: 1, ChannelName: "日本テレビ", AreaID: 1, AreaName: "関東", AreaOrder: 1,
	})
	repo := &scheduleRepoStub{records: records}
	svc := NewScheduleService(repo, nil, nil, 0, zap.NewNop())

	// Day 0 spans every broadcast day: the repository sees no day filter
	// and the grid carries programs from both Friday and Saturday.
	grid, _, err := svc.Grid(context.Background(), ScheduleFilter{Day: 0, Mode: layout.ModeArea})
	require.NoError(t, err)
	require.Len(t, repo.filters, 1)
	assert.Equal(t, 0, repo.filters[0].DayOfTheWeek)

	total := 0
	for _, col := range grid.Columns {
		total += len(col.Programs)
	}
	assert.Equal(t, 3, total)
}

func TestScheduleServiceGridRejectsBadDay(t *testing.T) {
	svc := NewScheduleService(&scheduleRepoStub{}, nil, nil, 0, zap.NewNop())

	_, _, err := svc.Grid(context.Background(), ScheduleFilter{Day: -1, Mode: layout.ModeArea})
	require.Error(t, err)

	_, _, err = svc.Grid(context.Background(), ScheduleFilter{Day: 8, Mode: layout.ModeArea})
	require.Error(t, err)
}

func TestScheduleServiceGridRejectsBadMode(t *testing.T) {
	svc := NewScheduleService(&scheduleRepoStub{}, nil, nil, 0, zap.NewNop())

	_, _, err := svc.Grid(context.Background(), ScheduleFilter{Day: 5, Mode: layout.Mode("week")})
	require.Error(t, err)
}

func TestScheduleServiceGridHiddenAreaDropsColumn(t *testing.T) {
	repo := &scheduleRepoStub{records: fridayRecords()}
	svc := NewScheduleService(repo, nil, nil, 0, zap.NewNop())

	grid, _, err := svc.Grid(context.Background(), ScheduleFilter{
		Day: 5, Mode: layout.ModeArea, HiddenAreaIDs: []int64{2},
	})
	require.NoError(t, err)
	require.Len(t, grid.Columns, 1)
	assert.Equal(t, "関東", grid.Columns[0].Name)
}

func TestScheduleServiceGridHiddenChannelKeepsPositions(t *testing.T) {
	// Two overlapping programs in one area; hiding one channel must not
	// reflow the survivor's lane.
	records := []models.ProgramRecord{
		{ID: 1, Name: "A", DayOfTheWeek: 5, StartTime: "23:00", EndTime: "00:00",
			ChannelID: 1, ChannelName: "日本テレビ", AreaID: 1, AreaName: "関東"},
		{ID: 2, Name: "B", DayOfTheWeek: 5, StartTime: "23:30", EndTime: "00:30",
			ChannelID: 2, ChannelName: "テレビ東京", AreaID: 1, AreaName: "関東"},
	}
	repo := &scheduleRepoStub{records: records}
	svc := NewScheduleService(repo, nil, nil, 0, zap.NewNop())

	grid, _, err := svc.Grid(context.Background(), ScheduleFilter{
		Day: 5, Mode: layout.ModeArea, HiddenChannelIDs: []int64{1},
	})
	require.NoError(t, err)
	require.Len(t, grid.Columns, 1)
	require.Len(t, grid.Columns[0].Programs, 1)
	assert.Equal(t, "B", grid.Columns[0].Programs[0].Name)
	assert.Equal(t, 1, grid.Columns[0].Programs[0].LaneIndex)
}

func TestScheduleServiceWeek(t *testing.T) {
	records := []models.ProgramRecord{
		{ID: 1, Name: "A", DayOfTheWeek: 1, StartTime: "22:00", EndTime: "22:30",
			ChannelID: 1, ChannelName: "日本テレビ", AreaID: 1, AreaName: "関東"},
		{ID: 2, Name: "B", DayOfTheWeek: 3, StartTime: "01:00", EndTime: "01:30",
			ChannelID: 1, ChannelName: "日本テレビ", AreaID: 1, AreaName: "関東"},
	}
	repo := &scheduleRepoStub{records: records}
	svc := NewScheduleService(repo, nil, nil, 0, zap.NewNop())

	week, err := svc.Week(context.Background(), 1, 0)
	require.NoError(t, err)
	assert.Len(t, week.Days, 7)
	require.Len(t, week.Days[1], 1)
	assert.Equal(t, "A", week.Days[1][0].Programs[0].Name)
	require.Len(t, week.Days[3], 1)
	assert.Empty(t, week.Days[2])

	require.Len(t, repo.filters, 1)
	assert.Equal(t, int64(1), repo.filters[0].ChannelID)
}

func TestScheduleServiceWeekRejectsBadChannel(t *testing.T) {
	svc := NewScheduleService(&scheduleRepoStub{}, nil, nil, 0, zap.NewNop())

	_, err := svc.Week(context.Background(), 0, 0)
	require.Error(t, err)
}
