package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/unpuzzledd/academy-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestScheduleExceptionRepositoryListByBatch(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewScheduleExceptionRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "batch_id", "exception_date", "action", "from_time", "to_time", "new_day", "notes", "created_at", "updated_at"}).
		AddRow("exc-1", "batch-1", "2024-06-10", "cancelled", "", "", "", "holiday", now, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, batch_id, exception_date, action, from_time, to_time, new_day, notes, created_at, updated_at FROM schedule_exceptions WHERE batch_id = $1 ORDER BY exception_date ASC")).
		WithArgs("batch-1").
		WillReturnRows(rows)

	exceptions, err := repo.ListByBatch(context.Background(), "batch-1")
	require.NoError(t, err)
	require.Len(t, exceptions, 1)
	require.Equal(t, models.ExceptionActionCancelled, exceptions[0].Action)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleExceptionRepositoryFindByBatchAndDate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewScheduleExceptionRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "batch_id", "exception_date", "action", "from_time", "to_time", "new_day", "notes", "created_at", "updated_at"}).
		AddRow("exc-1", "batch-1", "2024-06-10", "moved", "14:00", "15:00", "wednesday", "", now, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, batch_id, exception_date, action, from_time, to_time, new_day, notes, created_at, updated_at FROM schedule_exceptions WHERE batch_id = $1 AND exception_date = $2")).
		WithArgs("batch-1", "2024-06-10").
		WillReturnRows(rows)

	exc, err := repo.FindByBatchAndDate(context.Background(), "batch-1", "2024-06-10")
	require.NoError(t, err)
	require.Equal(t, "wednesday", exc.NewDay)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBatchRepositoryListScheduleEntriesKeepsOrder(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewBatchRepository(db)

	rows := sqlmock.NewRows([]string{"id", "batch_id", "day", "from_time", "to_time"}).
		AddRow("ent-1", "batch-1", "monday", "09:00", "10:30").
		AddRow("ent-2", "batch-1", "wednesday", "14:00", "15:30")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, batch_id, day, from_time, to_time FROM weekly_schedule_entries WHERE batch_id = $1 ORDER BY position ASC")).
		WithArgs("batch-1").
		WillReturnRows(rows)

	entries, err := repo.ListScheduleEntries(context.Background(), "batch-1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "monday", entries[0].Day)
	require.Equal(t, "wednesday", entries[1].Day)
	require.NoError(t, mock.ExpectationsWereMet())
}
