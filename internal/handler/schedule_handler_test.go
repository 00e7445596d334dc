package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unpuzzledd/academy-api/internal/models"
	"github.com/unpuzzledd/academy-api/internal/service"
)

type fakeBatchSource struct {
	batch   *models.Batch
	entries []models.WeeklyScheduleEntry
}

func (f *fakeBatchSource) FindByID(_ context.Context, id string) (*models.Batch, error) {
	if f.batch == nil || f.batch.ID != id {
		return nil, sql.ErrNoRows
	}
	return f.batch, nil
}

func (f *fakeBatchSource) ListScheduleEntries(_ context.Context, _ string) ([]models.WeeklyScheduleEntry, error) {
	return f.entries, nil
}

type fakeExceptionSource struct {
	exceptions []models.ScheduleException
}

func (f *fakeExceptionSource) ListByBatch(_ context.Context, _ string) ([]models.ScheduleException, error) {
	return f.exceptions, nil
}

func newScheduleHandlerFixture() *ScheduleHandler {
	batches := &fakeBatchSource{
		batch: &models.Batch{
			ID:        "batch-1",
			Name:      "Chess Beginners",
			StartDate: "2024-06-01",
			EndDate:   "2024-06-30",
			Status:    models.BatchStatusOngoing,
		},
		entries: []models.WeeklyScheduleEntry{
			{BatchID: "batch-1", Day: "monday", FromTime: "09:00", ToTime: "10:30"},
		},
	}
	exceptions := &fakeExceptionSource{
		exceptions: []models.ScheduleException{
			{BatchID: "batch-1", ExceptionDate: "2024-06-10", Action: models.ExceptionActionCancelled},
		},
	}
	return NewScheduleHandler(service.NewScheduleService(batches, exceptions, nil, nil, service.ScheduleServiceConfig{HorizonDays: 365}))
}

func TestScheduleHandlerGetSchedule(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newScheduleHandlerFixture()

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Params = gin.Params{{Key: "id", Value: "batch-1"}}
	c.Request = httptest.NewRequest(http.MethodGet, "/batches/batch-1/schedule?from=2020-06-01&to=2020-06-30", nil)

	handler.GetSchedule(c)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestScheduleHandlerGetScheduleMergesExceptions(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newScheduleHandlerFixture()

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Params = gin.Params{{Key: "id", Value: "batch-1"}}
	c.Request = httptest.NewRequest(http.MethodGet, "/batches/batch-1/schedule?from=2024-06-01&to=2024-06-30", nil)

	handler.GetSchedule(c)
	require.Equal(t, http.StatusOK, rec.Code)

	// The clamp keeps past dates out, so pin time-dependent assertions to
	// occurrences relative to the current date only when they exist.
	var body struct {
		Data []models.MergedOccurrence `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	for _, occ := range body.Data {
		if occ.Date == "2024-06-10" {
			assert.Equal(t, models.OccurrenceStatusUnavailable, occ.Status)
		} else {
			assert.Equal(t, models.OccurrenceStatusNormal, occ.Status)
		}
	}
}

func TestScheduleHandlerGetScheduleBadRange(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newScheduleHandlerFixture()

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Params = gin.Params{{Key: "id", Value: "batch-1"}}
	c.Request = httptest.NewRequest(http.MethodGet, "/batches/batch-1/schedule?from=notadate", nil)

	handler.GetSchedule(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScheduleHandlerGetScheduleUnknownBatch(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newScheduleHandlerFixture()

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Params = gin.Params{{Key: "id", Value: "nope"}}
	c.Request = httptest.NewRequest(http.MethodGet, "/batches/nope/schedule", nil)

	handler.GetSchedule(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestScheduleHandlerNextNotFoundWhenRangeEmpty(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newScheduleHandlerFixture()

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Params = gin.Params{{Key: "id", Value: "batch-1"}}
	c.Request = httptest.NewRequest(http.MethodGet, "/batches/batch-1/schedule/next", nil)

	handler.Next(c)

	// The fixture batch ended in June 2024, so as of any later date there is
	// nothing upcoming.
	if time.Now().After(time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)) {
		assert.Equal(t, http.StatusNotFound, rec.Code)
	}
}
