package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unpuzzledd/academy-api/internal/models"
	appErrors "github.com/unpuzzledd/academy-api/pkg/errors"
)

type fakeBatchScheduleReader struct {
	batch   *models.Batch
	entries []models.WeeklyScheduleEntry
}

func (f *fakeBatchScheduleReader) FindByID(_ context.Context, id string) (*models.Batch, error) {
	if f.batch == nil || f.batch.ID != id {
		return nil, sql.ErrNoRows
	}
	return f.batch, nil
}

func (f *fakeBatchScheduleReader) ListScheduleEntries(_ context.Context, _ string) ([]models.WeeklyScheduleEntry, error) {
	return f.entries, nil
}

type fakeExceptionLister struct {
	exceptions []models.ScheduleException
}

func (f *fakeExceptionLister) ListByBatch(_ context.Context, _ string) ([]models.ScheduleException, error) {
	return f.exceptions, nil
}

func newScheduleServiceFixture(batch *models.Batch, entries []models.WeeklyScheduleEntry, exceptions []models.ScheduleException, now time.Time) *ScheduleService {
	svc := NewScheduleService(
		&fakeBatchScheduleReader{batch: batch, entries: entries},
		&fakeExceptionLister{exceptions: exceptions},
		nil, nil,
		ScheduleServiceConfig{HorizonDays: 90},
	)
	svc.now = func() time.Time { return now }
	return svc
}

func juneBatch() *models.Batch {
	return &models.Batch{
		ID:        "batch-1",
		AcademyID: "academy-1",
		Name:      "Chess Beginners",
		StartDate: "2024-06-01",
		EndDate:   "2024-06-30",
		Status:    models.BatchStatusOngoing,
	}
}

func TestGetBatchScheduleDefaultsRangeToTodayAndEndDate(t *testing.T) {
	now := time.Date(2024, 6, 12, 10, 0, 0, 0, time.UTC)
	entries := []models.WeeklyScheduleEntry{
		{BatchID: "batch-1", Day: "monday", FromTime: "09:00", ToTime: "10:30"},
	}
	svc := newScheduleServiceFixture(juneBatch(), entries, nil, now)

	merged, err := svc.GetBatchSchedule(context.Background(), "batch-1", "", "")
	require.NoError(t, err)
	require.Len(t, merged, 2)
	assert.Equal(t, "2024-06-17", merged[0].Date)
	assert.Equal(t, "2024-06-24", merged[1].Date)
	for _, occ := range merged {
		assert.Equal(t, models.OccurrenceStatusNormal, occ.Status)
	}
}

func TestGetBatchScheduleAppliesCancellation(t *testing.T) {
	now := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	entries := []models.WeeklyScheduleEntry{
		{BatchID: "batch-1", Day: "monday", FromTime: "09:00", ToTime: "10:30"},
	}
	exceptions := []models.ScheduleException{
		{BatchID: "batch-1", ExceptionDate: "2024-06-10", Action: models.ExceptionActionCancelled, Notes: "holiday"},
	}
	svc := newScheduleServiceFixture(juneBatch(), entries, exceptions, now)

	merged, err := svc.GetBatchSchedule(context.Background(), "batch-1", "2024-06-01", "2024-06-30")
	require.NoError(t, err)
	require.Len(t, merged, 4)
	assert.Equal(t, models.OccurrenceStatusUnavailable, merged[1].Status)
	assert.Equal(t, "09:00", merged[1].FromTime, "a cancelled class keeps its original times")
	require.NotNil(t, merged[1].Exception)
	assert.Equal(t, "holiday", merged[1].Exception.Notes)
}

func TestGetBatchScheduleRejectsBadDates(t *testing.T) {
	now := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	svc := newScheduleServiceFixture(juneBatch(), nil, nil, now)

	_, err := svc.GetBatchSchedule(context.Background(), "batch-1", "June 1st", "")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestGetBatchScheduleUnknownBatch(t *testing.T) {
	now := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	svc := newScheduleServiceFixture(juneBatch(), nil, nil, now)

	_, err := svc.GetBatchSchedule(context.Background(), "missing", "", "")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestGetBatchScheduleCapsRangeAtHorizon(t *testing.T) {
	now := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	batch := juneBatch()
	batch.EndDate = "2025-06-01"
	entries := []models.WeeklyScheduleEntry{
		{BatchID: "batch-1", Day: "monday", FromTime: "09:00", ToTime: "10:30"},
	}
	svc := newScheduleServiceFixture(batch, entries, nil, now)

	merged, err := svc.GetBatchSchedule(context.Background(), "batch-1", "", "")
	require.NoError(t, err)
	require.NotEmpty(t, merged)
	horizon := now.AddDate(0, 0, 90).Format("2006-01-02")
	last := merged[len(merged)-1].Date
	assert.LessOrEqual(t, last, horizon)
}

func TestNextOccurrenceSkipsCancelledClasses(t *testing.T) {
	now := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	entries := []models.WeeklyScheduleEntry{
		{BatchID: "batch-1", Day: "monday", FromTime: "09:00", ToTime: "10:30"},
	}
	exceptions := []models.ScheduleException{
		{BatchID: "batch-1", ExceptionDate: "2024-06-03", Action: models.ExceptionActionCancelled},
	}
	svc := newScheduleServiceFixture(juneBatch(), entries, exceptions, now)

	next, err := svc.NextOccurrence(context.Background(), "batch-1")
	require.NoError(t, err)
	assert.Equal(t, "2024-06-10", next.Date)
	assert.Equal(t, models.OccurrenceStatusNormal, next.Status)
}

func TestNextOccurrenceNoneInRange(t *testing.T) {
	now := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	svc := newScheduleServiceFixture(juneBatch(), nil, nil, now)

	_, err := svc.NextOccurrence(context.Background(), "batch-1")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}
