package repository

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anitime-dev/anitime-api/internal/models"
)

func newProgramMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func recordRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "work_id", "name", "start_date", "start_time", "end_time", "day_of_the_week",
		"channel_id", "channel_name", "channel_order",
		"area_id", "area_name", "area_order",
		"color", "version", "note", "tags",
		"website_url", "x_username", "wikipedia_url", "annict_url",
	})
}

func TestProgramRepositoryListRecords(t *testing.T) {
	db, mock, cleanup := newProgramMock(t)
	defer cleanup()
	repo := NewProgramRepository(db)

	rows := recordRows().
		AddRow(1, 10, "葬送のフリーレン", nil, "23:00:00", "23:30:00", 5,
			3, "日本テレビ", 1, 2, "関東", 1, 4, nil, nil, "{新作}", nil, nil, nil, nil)

	mock.ExpectQuery(`SELECT(?s).*FROM programs p(?s).*ORDER BY p\.start_time ASC, p\.id ASC`).
		WithArgs(int64(7), 5).
		WillReturnRows(rows)

	records, err := repo.ListRecords(context.Background(), models.ProgramFilter{SeasonID: 7, DayOfTheWeek: 5})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "葬送のフリーレン", records[0].Name)
	assert.Equal(t, "日本テレビ", records[0].ChannelName)
	assert.Equal(t, []string{"新作"}, []string(records[0].Tags))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProgramRepositoryListRecordsEmpty(t *testing.T) {
	db, mock, cleanup := newProgramMock(t)
	defer cleanup()
	repo := NewProgramRepository(db)

	mock.ExpectQuery(`SELECT(?s).*FROM programs p`).WillReturnRows(recordRows())

	records, err := repo.ListRecords(context.Background(), models.ProgramFilter{})
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProgramRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newProgramMock(t)
	defer cleanup()
	repo := NewProgramRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO programs`).
		WithArgs(int64(10), int64(3), nil, 5, "23:00:00", "23:30:00", nil, 4, nil, nil, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))
	mock.ExpectExec(`INSERT INTO programs_seasons`).
		WithArgs(int64(42), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO programs_tags`).
		WithArgs(int64(42), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	program := &models.Program{
		WorkID:       10,
		ChannelID:    3,
		DayOfTheWeek: 5,
		StartTime:    "23:00:00",
		EndTime:      "23:30:00",
		Color:        4,
		Order:        1,
		SeasonIDs:    []int64{7},
		TagIDs:       []int64{2},
	}
	err := repo.Create(context.Background(), program)
	require.NoError(t, err)
	assert.Equal(t, int64(42), program.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProgramRepositoryUpdateRollsBackOnFailure(t *testing.T) {
	db, mock, cleanup := newProgramMock(t)
	defer cleanup()
	repo := NewProgramRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE programs SET`).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := repo.Update(context.Background(), &models.Program{ID: 42, WorkID: 10, ChannelID: 3})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProgramRepositoryReorder(t *testing.T) {
	db, mock, cleanup := newProgramMock(t)
	defer cleanup()
	repo := NewProgramRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE programs SET "order"`).
		WithArgs(1, int64(5), int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE programs SET "order"`).
		WithArgs(2, int64(3), int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Reorder(context.Background(), 10, []int64{5, 3})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProgramRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newProgramMock(t)
	defer cleanup()
	repo := NewProgramRepository(db)

	mock.ExpectExec(`DELETE FROM programs WHERE id`).
		WithArgs(int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Delete(context.Background(), 42)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
