package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/unpuzzledd/academy-api/internal/models"
	"github.com/unpuzzledd/academy-api/internal/schedule"
	appErrors "github.com/unpuzzledd/academy-api/pkg/errors"
)

type scheduleExceptionRepository interface {
	ListByBatch(ctx context.Context, batchID string) ([]models.ScheduleException, error)
	FindByID(ctx context.Context, id string) (*models.ScheduleException, error)
	FindByBatchAndDate(ctx context.Context, batchID, date string) (*models.ScheduleException, error)
	Create(ctx context.Context, exc *models.ScheduleException) error
	Update(ctx context.Context, exc *models.ScheduleException) error
	Delete(ctx context.Context, id string) error
}

type exceptionBatchReader interface {
	FindByID(ctx context.Context, id string) (*models.Batch, error)
}

type scheduleInvalidator interface {
	InvalidateBatch(ctx context.Context, batchID string)
}

// CreateExceptionRequest describes payload for creating a schedule exception.
type CreateExceptionRequest struct {
	ExceptionDate string `json:"exception_date" validate:"required"`
	Action        string `json:"action" validate:"required,oneof=cancelled time_changed moved"`
	FromTime      string `json:"from_time"`
	ToTime        string `json:"to_time"`
	NewDay        string `json:"new_day"`
	Notes         string `json:"notes"`
}

// UpdateExceptionRequest updates an existing schedule exception.
type UpdateExceptionRequest struct {
	ExceptionDate string `json:"exception_date" validate:"required"`
	Action        string `json:"action" validate:"required,oneof=cancelled time_changed moved"`
	FromTime      string `json:"from_time"`
	ToTime        string `json:"to_time"`
	NewDay        string `json:"new_day"`
	Notes         string `json:"notes"`
}

// ExceptionService manages per-date schedule overrides. At most one exception
// may exist per batch and date; a second write for the same date is rejected
// so the merge never has to break ties by input order.
type ExceptionService struct {
	repo        scheduleExceptionRepository
	batches     exceptionBatchReader
	invalidator scheduleInvalidator
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewExceptionService instantiates ExceptionService.
func NewExceptionService(repo scheduleExceptionRepository, batches exceptionBatchReader, invalidator scheduleInvalidator, validate *validator.Validate, logger *zap.Logger) *ExceptionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExceptionService{repo: repo, batches: batches, invalidator: invalidator, validator: validate, logger: logger}
}

// ListByBatch returns all exceptions for a batch.
func (s *ExceptionService) ListByBatch(ctx context.Context, batchID string) ([]models.ScheduleException, error) {
	exceptions, err := s.repo.ListByBatch(ctx, batchID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list exceptions")
	}
	return exceptions, nil
}

// Create registers a new exception after checking the one-per-date rule.
func (s *ExceptionService) Create(ctx context.Context, batchID string, req CreateExceptionRequest) (*models.ScheduleException, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid exception payload")
	}
	if err := validateExceptionFields(req.ExceptionDate, req.FromTime, req.ToTime, req.NewDay); err != nil {
		return nil, err
	}

	if _, err := s.batches.FindByID(ctx, batchID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "batch not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load batch")
	}

	if _, err := s.repo.FindByBatchAndDate(ctx, batchID, req.ExceptionDate); err == nil {
		return nil, appErrors.Clone(appErrors.ErrDuplicateException, "")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check existing exception")
	}

	exc := &models.ScheduleException{
		BatchID:       batchID,
		ExceptionDate: req.ExceptionDate,
		Action:        models.ExceptionAction(req.Action),
		FromTime:      req.FromTime,
		ToTime:        req.ToTime,
		NewDay:        schedule.NormalizeDay(req.NewDay),
		Notes:         req.Notes,
	}
	if err := s.repo.Create(ctx, exc); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create exception")
	}

	s.invalidate(ctx, batchID)
	return exc, nil
}

// Update modifies an existing exception.
func (s *ExceptionService) Update(ctx context.Context, id string, req UpdateExceptionRequest) (*models.ScheduleException, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid exception payload")
	}
	if err := validateExceptionFields(req.ExceptionDate, req.FromTime, req.ToTime, req.NewDay); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "exception not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load exception")
	}

	if req.ExceptionDate != existing.ExceptionDate {
		if other, err := s.repo.FindByBatchAndDate(ctx, existing.BatchID, req.ExceptionDate); err == nil && other.ID != existing.ID {
			return nil, appErrors.Clone(appErrors.ErrDuplicateException, "")
		} else if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check existing exception")
		}
	}

	existing.ExceptionDate = req.ExceptionDate
	existing.Action = models.ExceptionAction(req.Action)
	existing.FromTime = req.FromTime
	existing.ToTime = req.ToTime
	existing.NewDay = schedule.NormalizeDay(req.NewDay)
	existing.Notes = req.Notes

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update exception")
	}

	s.invalidate(ctx, existing.BatchID)
	return existing, nil
}

// Delete removes an exception.
func (s *ExceptionService) Delete(ctx context.Context, id string) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "exception not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load exception")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete exception")
	}

	s.invalidate(ctx, existing.BatchID)
	return nil
}

func (s *ExceptionService) invalidate(ctx context.Context, batchID string) {
	if s.invalidator != nil {
		s.invalidator.InvalidateBatch(ctx, batchID)
	}
}

func validateExceptionFields(date, fromTime, toTime, newDay string) error {
	if _, err := time.Parse(schedule.DateLayout, date); err != nil {
		return appErrors.Clone(appErrors.ErrValidation, "exception_date must be a YYYY-MM-DD date")
	}
	if fromTime != "" && !schedule.ValidTime(fromTime) {
		return appErrors.Clone(appErrors.ErrValidation, "from_time must be a HH:MM time")
	}
	if toTime != "" && !schedule.ValidTime(toTime) {
		return appErrors.Clone(appErrors.ErrValidation, "to_time must be a HH:MM time")
	}
	if newDay != "" && !schedule.ValidDay(newDay) {
		return appErrors.Clone(appErrors.ErrValidation, "new_day must be a weekday name")
	}
	return nil
}
