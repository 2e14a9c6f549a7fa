package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/anitime-dev/anitime-api/internal/models"
)

type workRepoStub struct {
	works   []models.Work
	created []models.Work
	updated []models.Work
}

func (s *workRepoStub) List(ctx context.Context, filter models.WorkFilter) ([]models.Work, int, error) {
	return s.works, len(s.works), nil
}

func (s *workRepoStub) Search(ctx context.Context, q string, limit int) ([]models.Work, error) {
	return s.works, nil
}

func (s *workRepoStub) FindByID(ctx context.Context, id int64) (*models.Work, error) {
	for _, work := range s.works {
		if work.ID == id {
			found := work
			return &found, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *workRepoStub) Create(ctx context.Context, work *models.Work) error {
	work.ID = int64(len(s.works) + 1)
	s.created = append(s.created, *work)
	return nil
}

func (s *workRepoStub) Update(ctx context.Context, work *models.Work) error {
	s.updated = append(s.updated, *work)
	return nil
}

func (s *workRepoStub) Delete(ctx context.Context, id int64) error { return nil }

func (s *workRepoStub) RecentCreated(ctx context.Context, limit int) ([]models.Work, error) {
	var out []models.Work
	for _, work := range s.works {
		if work.CreatedAt != nil {
			out = append(out, work)
		}
	}
	return out, nil
}

func (s *workRepoStub) RecentUpdated(ctx context.Context, limit int) ([]models.Work, error) {
	var out []models.Work
	for _, work := range s.works {
		if work.UpdatedAt != nil {
			out = append(out, work)
		}
	}
	return out, nil
}

type auditStub struct {
	logs []models.AuditLog
}

func (s *auditStub) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	s.logs = append(s.logs, *log)
	return nil
}

func ts(s string) *time.Time {
	parsed, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return &parsed
}

func TestWorkServiceTimelineMergesEvents(t *testing.T) {
	repo := &workRepoStub{works: []models.Work{
		// Created then later updated: must appear once, as an update.
		{ID: 1, Name: "葬送のフリーレン", CreatedAt: ts("2026-08-01T10:00:00Z"), UpdatedAt: ts("2026-08-20T10:00:00Z")},
		// Created and never touched: appears as a creation.
		{ID: 2, Name: "ダンジョン飯", CreatedAt: ts("2026-08-15T10:00:00Z"), UpdatedAt: ts("2026-08-15T10:00:00Z")},
		// Older creation.
		{ID: 3, Name: "薬屋のひとりごと", CreatedAt: ts("2026-07-01T10:00:00Z"), UpdatedAt: ts("2026-07-01T10:00:00Z")},
	}}
	svc := NewWorkService(repo, nil, nil, nil, 20, zap.NewNop())

	feed, err := svc.Timeline(context.Background())
	require.NoError(t, err)
	require.Len(t, feed, 3)

	assert.Equal(t, models.TimelineEventUpdate, feed[0].Type)
	assert.Equal(t, int64(1), feed[0].Work.ID)
	assert.Equal(t, models.TimelineEventCreate, feed[1].Type)
	assert.Equal(t, int64(2), feed[1].Work.ID)
	assert.Equal(t, int64(3), feed[2].Work.ID)
}

func TestWorkServiceTimelineRespectsLimit(t *testing.T) {
	repo := &workRepoStub{}
	for i := int64(1); i <= 5; i++ {
		created := time.Date(2026, 8, int(i), 0, 0, 0, 0, time.UTC)
		repo.works = append(repo.works, models.Work{ID: i, Name: "w", CreatedAt: &created, UpdatedAt: &created})
	}
	svc := NewWorkService(repo, nil, nil, nil, 3, zap.NewNop())

	feed, err := svc.Timeline(context.Background())
	require.NoError(t, err)
	assert.Len(t, feed, 3)
	assert.Equal(t, int64(5), feed[0].Work.ID)
}

func TestWorkServiceCreateRecordsAudit(t *testing.T) {
	repo := &workRepoStub{}
	audit := &auditStub{}
	svc := NewWorkService(repo, audit, nil, nil, 20, zap.NewNop())

	actor := "user-1"
	work, err := svc.Create(context.Background(), &actor, WorkRequest{Name: "葬送のフリーレン"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), work.ID)
	require.Len(t, audit.logs, 1)
	assert.Equal(t, models.AuditActionWorkCreate, audit.logs[0].Action)
	assert.Equal(t, "work", audit.logs[0].Resource)
}

func TestWorkServiceCreateRejectsInvalidURL(t *testing.T) {
	svc := NewWorkService(&workRepoStub{}, nil, nil, nil, 20, zap.NewNop())

	bad := "not a url"
	_, err := svc.Create(context.Background(), nil, WorkRequest{Name: "x", WebsiteURL: &bad})
	require.Error(t, err)
}

func TestWorkServiceUpdateMissing(t *testing.T) {
	svc := NewWorkService(&workRepoStub{}, nil, nil, nil, 20, zap.NewNop())

	_, err := svc.Update(context.Background(), nil, 99, WorkRequest{Name: "x"})
	require.Error(t, err)
}
