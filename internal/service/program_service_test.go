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

type programRepoStub struct {
	programs  map[int64]models.Program
	reordered [][]int64
}

func newProgramRepoStub() *programRepoStub {
	return &programRepoStub{programs: make(map[int64]models.Program)}
}

func (s *programRepoStub) FindByID(ctx context.Context, id int64) (*models.Program, error) {
	program, ok := s.programs[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &program, nil
}

func (s *programRepoStub) ListByWork(ctx context.Context, workID int64) ([]models.Program, error) {
	var out []models.Program
	for _, program := range s.programs {
		if program.WorkID == workID {
			out = append(out, program)
		}
	}
	return out, nil
}

func (s *programRepoStub) Create(ctx context.Context, program *models.Program) error {
	program.ID = int64(len(s.programs) + 1)
	s.programs[program.ID] = *program
	return nil
}

func (s *programRepoStub) Update(ctx context.Context, program *models.Program) error {
	s.programs[program.ID] = *program
	return nil
}

func (s *programRepoStub) Delete(ctx context.Context, id int64) error {
	delete(s.programs, id)
	return nil
}

func (s *programRepoStub) Reorder(ctx context.Context, workID int64, orderedIDs []int64) error {
	s.reordered = append(s.reordered, orderedIDs)
	return nil
}

func (s *programRepoStub) SeasonIDs(ctx context.Context, programID int64) ([]int64, error) {
	return s.programs[programID].SeasonIDs, nil
}

func (s *programRepoStub) TagIDs(ctx context.Context, programID int64) ([]int64, error) {
	return s.programs[programID].TagIDs, nil
}

type touchStub struct {
	touched []int64
}

func (s *touchStub) TouchUpdatedAt(ctx context.Context, id int64) error {
	s.touched = append(s.touched, id)
	return nil
}

type invalidatorStub struct {
	calls int
}

func (s *invalidatorStub) Invalidate(ctx context.Context) { s.calls++ }

func validProgramRequest() ProgramRequest {
	return ProgramRequest{
		WorkID:       10,
		ChannelID:    3,
		DayOfTheWeek: 5,
		StartTime:    "23:00",
		EndTime:      "23:30",
	}
}

func TestProgramServiceCreate(t *testing.T) {
	repo := newProgramRepoStub()
	works := &touchStub{}
	audit := &auditStub{}
	grids := &invalidatorStub{}
	svc := NewProgramService(repo, works, audit, grids, nil, zap.NewNop())

	actor := "user-1"
	program, err := svc.Create(context.Background(), &actor, validProgramRequest())
	require.NoError(t, err)
	assert.Equal(t, int64(1), program.ID)

	assert.Equal(t, []int64{10}, works.touched)
	assert.Equal(t, 1, grids.calls)
	require.Len(t, audit.logs, 1)
	assert.Equal(t, models.AuditActionProgramCreate, audit.logs[0].Action)
}

func TestProgramServiceCreateRejectsBadTime(t *testing.T) {
	svc := NewProgramService(newProgramRepoStub(), nil, nil, nil, nil, zap.NewNop())

	req := validProgramRequest()
	req.StartTime = "26:00"
	_, err := svc.Create(context.Background(), nil, req)
	require.Error(t, err)

	req = validProgramRequest()
	req.EndTime = "half past nine"
	_, err = svc.Create(context.Background(), nil, req)
	require.Error(t, err)
}

func TestProgramServiceCreateRejectsBadDay(t *testing.T) {
	svc := NewProgramService(newProgramRepoStub(), nil, nil, nil, nil, zap.NewNop())

	req := validProgramRequest()
	req.DayOfTheWeek = 8
	_, err := svc.Create(context.Background(), nil, req)
	require.Error(t, err)
}

func TestProgramServiceUpdateMissing(t *testing.T) {
	svc := NewProgramService(newProgramRepoStub(), nil, nil, nil, nil, zap.NewNop())

	_, err := svc.Update(context.Background(), nil, 99, validProgramRequest())
	require.Error(t, err)
}

func TestProgramServiceDelete(t *testing.T) {
	repo := newProgramRepoStub()
	repo.programs[7] = models.Program{ID: 7, WorkID: 10}
	works := &touchStub{}
	grids := &invalidatorStub{}
	svc := NewProgramService(repo, works, nil, grids, nil, zap.NewNop())

	err := svc.Delete(context.Background(), nil, 7)
	require.NoError(t, err)
	assert.NotContains(t, repo.programs, int64(7))
	assert.Equal(t, []int64{10}, works.touched)
	assert.Equal(t, 1, grids.calls)
}

func TestProgramServiceReorder(t *testing.T) {
	repo := newProgramRepoStub()
	works := &touchStub{}
	grids := &invalidatorStub{}
	svc := NewProgramService(repo, works, nil, grids, nil, zap.NewNop())

	err := svc.Reorder(context.Background(), nil, 10, ReorderProgramsRequest{ProgramIDs: []int64{5, 3, 8}})
	require.NoError(t, err)
	require.Len(t, repo.reordered, 1)
	assert.Equal(t, []int64{5, 3, 8}, repo.reordered[0])
	assert.Equal(t, []int64{10}, works.touched)
	assert.Equal(t, 1, grids.calls)
}

func TestProgramServiceReorderRejectsEmpty(t *testing.T) {
	svc := NewProgramService(newProgramRepoStub(), nil, nil, nil, nil, zap.NewNop())

	err := svc.Reorder(context.Background(), nil, 10, ReorderProgramsRequest{})
	require.Error(t, err)
}
