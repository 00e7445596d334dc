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

type batchRepository interface {
	List(ctx context.Context, filter models.BatchFilter) ([]models.Batch, int, error)
	FindByID(ctx context.Context, id string) (*models.Batch, error)
	Create(ctx context.Context, batch *models.Batch) error
	Update(ctx context.Context, batch *models.Batch) error
	Delete(ctx context.Context, id string) error
	ListScheduleEntries(ctx context.Context, batchID string) ([]models.WeeklyScheduleEntry, error)
	ReplaceScheduleEntries(ctx context.Context, batchID string, entries []models.WeeklyScheduleEntry) error
}

type batchAcademyReader interface {
	FindByID(ctx context.Context, id string) (*models.Academy, error)
}

// CreateBatchRequest describes payload for creating a batch.
type CreateBatchRequest struct {
	AcademyID   string `json:"academy_id" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	TeacherID   string `json:"teacher_id" validate:"required"`
	StartDate   string `json:"start_date" validate:"required"`
	EndDate     string `json:"end_date" validate:"required"`
}

// UpdateBatchRequest updates an existing batch.
type UpdateBatchRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	TeacherID   string `json:"teacher_id" validate:"required"`
	StartDate   string `json:"start_date" validate:"required"`
	EndDate     string `json:"end_date" validate:"required"`
	Status      string `json:"status" validate:"required,oneof=UPCOMING ONGOING COMPLETED"`
}

// ScheduleEntryRequest is one weekly slot in a pattern replacement.
type ScheduleEntryRequest struct {
	Day      string `json:"day" validate:"required"`
	FromTime string `json:"from_time" validate:"required"`
	ToTime   string `json:"to_time" validate:"required"`
}

// ReplaceScheduleRequest swaps a batch's whole weekly pattern.
type ReplaceScheduleRequest struct {
	Entries []ScheduleEntryRequest `json:"entries" validate:"dive"`
}

// BatchService coordinates batch lifecycle and weekly pattern management.
type BatchService struct {
	repo        batchRepository
	academies   batchAcademyReader
	invalidator scheduleInvalidator
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewBatchService instantiates BatchService.
func NewBatchService(repo batchRepository, academies batchAcademyReader, invalidator scheduleInvalidator, validate *validator.Validate, logger *zap.Logger) *BatchService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchService{repo: repo, academies: academies, invalidator: invalidator, validator: validate, logger: logger}
}

// List returns batches with pagination metadata.
func (s *BatchService) List(ctx context.Context, filter models.BatchFilter) ([]models.Batch, *models.Pagination, error) {
	batches, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list batches")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return batches, pagination, nil
}

// Get returns a batch by id.
func (s *BatchService) Get(ctx context.Context, id string) (*models.Batch, error) {
	batch, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "batch not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load batch")
	}
	return batch, nil
}

// Create registers a new batch under an academy.
func (s *BatchService) Create(ctx context.Context, req CreateBatchRequest) (*models.Batch, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid batch payload")
	}
	if err := validateDateRange(req.StartDate, req.EndDate); err != nil {
		return nil, err
	}

	if _, err := s.academies.FindByID(ctx, req.AcademyID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "academy not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load academy")
	}

	batch := &models.Batch{
		AcademyID:   req.AcademyID,
		Name:        req.Name,
		Description: req.Description,
		TeacherID:   req.TeacherID,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Status:      models.BatchStatusUpcoming,
	}
	if err := s.repo.Create(ctx, batch); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create batch")
	}
	return batch, nil
}

// Update modifies an existing batch.
func (s *BatchService) Update(ctx context.Context, id string, req UpdateBatchRequest) (*models.Batch, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid batch payload")
	}
	if err := validateDateRange(req.StartDate, req.EndDate); err != nil {
		return nil, err
	}

	batch, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	batch.Name = req.Name
	batch.Description = req.Description
	batch.TeacherID = req.TeacherID
	batch.StartDate = req.StartDate
	batch.EndDate = req.EndDate
	batch.Status = models.BatchStatus(req.Status)

	if err := s.repo.Update(ctx, batch); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update batch")
	}

	s.invalidate(ctx, id)
	return batch, nil
}

// Delete removes a batch.
func (s *BatchService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete batch")
	}
	s.invalidate(ctx, id)
	return nil
}

// GetScheduleEntries returns a batch's weekly pattern.
func (s *BatchService) GetScheduleEntries(ctx context.Context, batchID string) ([]models.WeeklyScheduleEntry, error) {
	if _, err := s.Get(ctx, batchID); err != nil {
		return nil, err
	}
	entries, err := s.repo.ListScheduleEntries(ctx, batchID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load weekly pattern")
	}
	return entries, nil
}

// ReplaceScheduleEntries swaps a batch's weekly pattern. Entry order is
// preserved because the materializer takes the first entry matching a
// weekday.
func (s *BatchService) ReplaceScheduleEntries(ctx context.Context, batchID string, req ReplaceScheduleRequest) ([]models.WeeklyScheduleEntry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload")
	}
	if _, err := s.Get(ctx, batchID); err != nil {
		return nil, err
	}

	entries := make([]models.WeeklyScheduleEntry, 0, len(req.Entries))
	for _, item := range req.Entries {
		if !schedule.ValidDay(item.Day) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "day must be a weekday name")
		}
		if !schedule.ValidTime(item.FromTime) || !schedule.ValidTime(item.ToTime) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "times must be HH:MM")
		}
		entries = append(entries, models.WeeklyScheduleEntry{
			BatchID:  batchID,
			Day:      schedule.NormalizeDay(item.Day),
			FromTime: item.FromTime,
			ToTime:   item.ToTime,
		})
	}

	if err := s.repo.ReplaceScheduleEntries(ctx, batchID, entries); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to replace weekly pattern")
	}

	s.invalidate(ctx, batchID)
	return entries, nil
}

func (s *BatchService) invalidate(ctx context.Context, batchID string) {
	if s.invalidator != nil {
		s.invalidator.InvalidateBatch(ctx, batchID)
	}
}

func validateDateRange(start, end string) error {
	startDate, err := time.Parse(schedule.DateLayout, start)
	if err != nil {
		return appErrors.Clone(appErrors.ErrValidation, "start_date must be a YYYY-MM-DD date")
	}
	endDate, err := time.Parse(schedule.DateLayout, end)
	if err != nil {
		return appErrors.Clone(appErrors.ErrValidation, "end_date must be a YYYY-MM-DD date")
	}
	if endDate.Before(startDate) {
		return appErrors.Clone(appErrors.ErrValidation, "end_date must be on or after start_date")
	}
	return nil
}
