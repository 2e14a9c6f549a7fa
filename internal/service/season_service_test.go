package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/anitime-dev/anitime-api/internal/models"
)

type seasonRepoStub struct {
	seasons []models.Season
}

func (s *seasonRepoStub) List(ctx context.Context) ([]models.Season, error) {
	out := make([]models.Season, len(s.seasons))
	copy(out, s.seasons)
	return out, nil
}

func (s *seasonRepoStub) FindByID(ctx context.Context, id int64) (*models.Season, error) {
	for _, season := range s.seasons {
		if season.ID == id {
			found := season
			return &found, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *seasonRepoStub) Create(ctx context.Context, season *models.Season) error {
	season.ID = int64(len(s.seasons) + 1)
	s.seasons = append(s.seasons, *season)
	return nil
}

func (s *seasonRepoStub) Update(ctx context.Context, season *models.Season) error { return nil }
func (s *seasonRepoStub) Delete(ctx context.Context, id int64) error              { return nil }

func TestSeasonServiceListOrder(t *testing.T) {
	repo := &seasonRepoStub{seasons: []models.Season{
		{ID: 1, Year: 2024, Month: 10, Active: false},
		{ID: 2, Year: 2026, Month: 7, Active: true},
		{ID: 3, Year: 2025, Month: 1, Active: false},
		{ID: 4, Year: 2026, Month: 4, Active: true},
	}}
	svc := NewSeasonService(repo, nil, nil, zap.NewNop())

	seasons, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, seasons, 4)

	// Active cours chronologically, then inactive newest first.
	assert.Equal(t, int64(4), seasons[0].ID)
	assert.Equal(t, int64(2), seasons[1].ID)
	assert.Equal(t, int64(3), seasons[2].ID)
	assert.Equal(t, int64(1), seasons[3].ID)

	assert.Equal(t, "2026年4月", seasons[0].Name)
}

func TestSeasonServiceCreate(t *testing.T) {
	repo := &seasonRepoStub{}
	svc := NewSeasonService(repo, nil, nil, zap.NewNop())

	season, err := svc.Create(context.Background(), SeasonRequest{Year: 2026, Month: 10, Active: true})
	require.NoError(t, err)
	assert.Equal(t, "2026年10月", season.Name)
}

func TestSeasonServiceCreateRejectsBadMonth(t *testing.T) {
	svc := NewSeasonService(&seasonRepoStub{}, nil, nil, zap.NewNop())

	_, err := svc.Create(context.Background(), SeasonRequest{Year: 2026, Month: 13})
	require.Error(t, err)
}
