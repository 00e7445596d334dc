package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unpuzzledd/academy-api/internal/models"
	appErrors "github.com/unpuzzledd/academy-api/pkg/errors"
)

type fakeExceptionRepo struct {
	byID     map[string]*models.ScheduleException
	byDate   map[string]*models.ScheduleException
	created  []*models.ScheduleException
	updated  []*models.ScheduleException
	deleted  []string
	lastID   int
	listResp []models.ScheduleException
}

func newFakeExceptionRepo() *fakeExceptionRepo {
	return &fakeExceptionRepo{
		byID:   map[string]*models.ScheduleException{},
		byDate: map[string]*models.ScheduleException{},
	}
}

func (f *fakeExceptionRepo) seed(exc *models.ScheduleException) {
	f.byID[exc.ID] = exc
	f.byDate[exc.BatchID+"|"+exc.ExceptionDate] = exc
}

func (f *fakeExceptionRepo) ListByBatch(_ context.Context, _ string) ([]models.ScheduleException, error) {
	return f.listResp, nil
}

func (f *fakeExceptionRepo) FindByID(_ context.Context, id string) (*models.ScheduleException, error) {
	if exc, ok := f.byID[id]; ok {
		return exc, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeExceptionRepo) FindByBatchAndDate(_ context.Context, batchID, date string) (*models.ScheduleException, error) {
	if exc, ok := f.byDate[batchID+"|"+date]; ok {
		return exc, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeExceptionRepo) Create(_ context.Context, exc *models.ScheduleException) error {
	f.lastID++
	f.created = append(f.created, exc)
	f.seed(exc)
	return nil
}

func (f *fakeExceptionRepo) Update(_ context.Context, exc *models.ScheduleException) error {
	f.updated = append(f.updated, exc)
	return nil
}

func (f *fakeExceptionRepo) Delete(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeBatchReader struct {
	batch *models.Batch
}

func (f *fakeBatchReader) FindByID(_ context.Context, id string) (*models.Batch, error) {
	if f.batch == nil || f.batch.ID != id {
		return nil, sql.ErrNoRows
	}
	return f.batch, nil
}

type recordingInvalidator struct {
	batchIDs []string
}

func (r *recordingInvalidator) InvalidateBatch(_ context.Context, batchID string) {
	r.batchIDs = append(r.batchIDs, batchID)
}

func newExceptionServiceFixture(repo *fakeExceptionRepo) (*ExceptionService, *recordingInvalidator) {
	invalidator := &recordingInvalidator{}
	batches := &fakeBatchReader{batch: juneBatch()}
	return NewExceptionService(repo, batches, invalidator, nil, nil), invalidator
}

func TestExceptionCreate(t *testing.T) {
	repo := newFakeExceptionRepo()
	svc, invalidator := newExceptionServiceFixture(repo)

	exc, err := svc.Create(context.Background(), "batch-1", CreateExceptionRequest{
		ExceptionDate: "2024-06-17",
		Action:        "moved",
		FromTime:      "14:00",
		ToTime:        "15:30",
		NewDay:        "Saturday",
		Notes:         "venue double booked",
	})
	require.NoError(t, err)
	assert.Equal(t, models.ExceptionActionMoved, exc.Action)
	assert.Equal(t, "saturday", exc.NewDay, "day names are stored lowercase")
	assert.Equal(t, []string{"batch-1"}, invalidator.batchIDs)
}

func TestExceptionCreateRejectsSecondForSameDate(t *testing.T) {
	repo := newFakeExceptionRepo()
	repo.seed(&models.ScheduleException{
		ID:            "exc-1",
		BatchID:       "batch-1",
		ExceptionDate: "2024-06-17",
		Action:        models.ExceptionActionCancelled,
	})
	svc, invalidator := newExceptionServiceFixture(repo)

	_, err := svc.Create(context.Background(), "batch-1", CreateExceptionRequest{
		ExceptionDate: "2024-06-17",
		Action:        "time_changed",
		FromTime:      "11:00",
		ToTime:        "12:30",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrDuplicateException.Code, appErr.Code)
	assert.Empty(t, invalidator.batchIDs, "a rejected write must not touch the cache")
}

func TestExceptionCreateValidatesFields(t *testing.T) {
	repo := newFakeExceptionRepo()
	svc, _ := newExceptionServiceFixture(repo)

	cases := []struct {
		name string
		req  CreateExceptionRequest
	}{
		{"bad date", CreateExceptionRequest{ExceptionDate: "17/06/2024", Action: "cancelled"}},
		{"bad action", CreateExceptionRequest{ExceptionDate: "2024-06-17", Action: "postponed"}},
		{"bad time", CreateExceptionRequest{ExceptionDate: "2024-06-17", Action: "time_changed", FromTime: "9am"}},
		{"bad day", CreateExceptionRequest{ExceptionDate: "2024-06-17", Action: "moved", NewDay: "someday"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), "batch-1", tc.req)
			require.Error(t, err)
			appErr := appErrors.FromError(err)
			assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
		})
	}
}

func TestExceptionUpdateDateCollision(t *testing.T) {
	repo := newFakeExceptionRepo()
	repo.seed(&models.ScheduleException{
		ID:            "exc-1",
		BatchID:       "batch-1",
		ExceptionDate: "2024-06-10",
		Action:        models.ExceptionActionCancelled,
	})
	repo.seed(&models.ScheduleException{
		ID:            "exc-2",
		BatchID:       "batch-1",
		ExceptionDate: "2024-06-17",
		Action:        models.ExceptionActionCancelled,
	})
	svc, _ := newExceptionServiceFixture(repo)

	_, err := svc.Update(context.Background(), "exc-1", UpdateExceptionRequest{
		ExceptionDate: "2024-06-17",
		Action:        "cancelled",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrDuplicateException.Code, appErr.Code)
}

func TestExceptionDeleteInvalidatesCache(t *testing.T) {
	repo := newFakeExceptionRepo()
	repo.seed(&models.ScheduleException{
		ID:            "exc-1",
		BatchID:       "batch-1",
		ExceptionDate: "2024-06-10",
		Action:        models.ExceptionActionCancelled,
	})
	svc, invalidator := newExceptionServiceFixture(repo)

	require.NoError(t, svc.Delete(context.Background(), "exc-1"))
	assert.Equal(t, []string{"exc-1"}, repo.deleted)
	assert.Equal(t, []string{"batch-1"}, invalidator.batchIDs)
}

func TestExceptionDeleteUnknown(t *testing.T) {
	repo := newFakeExceptionRepo()
	svc, _ := newExceptionServiceFixture(repo)

	err := svc.Delete(context.Background(), "nope")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}
