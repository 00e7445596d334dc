package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/unpuzzledd/academy-api/internal/models"
	appErrors "github.com/unpuzzledd/academy-api/pkg/errors"
)

type enrollmentRepository interface {
	ListByBatch(ctx context.Context, batchID string) ([]models.EnrollmentDetail, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.EnrollmentDetail, error)
	FindByID(ctx context.Context, id string) (*models.Enrollment, error)
	FindByStudentAndBatch(ctx context.Context, studentID, batchID string) (*models.Enrollment, error)
	Create(ctx context.Context, enrollment *models.Enrollment) error
	UpdateStatus(ctx context.Context, id string, status models.EnrollmentStatus, leftAt *time.Time) error
}

// EnrollRequest describes payload for enrolling a student in a batch.
type EnrollRequest struct {
	StudentID string `json:"student_id" validate:"required"`
	BatchID   string `json:"batch_id" validate:"required"`
}

// UpdateEnrollmentStatusRequest transitions an enrollment.
type UpdateEnrollmentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=PENDING ACTIVE LEFT"`
}

// EnrollmentService coordinates student registration to batches.
type EnrollmentService struct {
	repo      enrollmentRepository
	batches   exceptionBatchReader
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEnrollmentService instantiates EnrollmentService.
func NewEnrollmentService(repo enrollmentRepository, batches exceptionBatchReader, validate *validator.Validate, logger *zap.Logger) *EnrollmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{repo: repo, batches: batches, validator: validate, logger: logger}
}

// ListByBatch returns a batch's enrollments.
func (s *EnrollmentService) ListByBatch(ctx context.Context, batchID string) ([]models.EnrollmentDetail, error) {
	enrollments, err := s.repo.ListByBatch(ctx, batchID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
	}
	return enrollments, nil
}

// ListByStudent returns a student's enrollments.
func (s *EnrollmentService) ListByStudent(ctx context.Context, studentID string) ([]models.EnrollmentDetail, error) {
	enrollments, err := s.repo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
	}
	return enrollments, nil
}

// Enroll registers a student into a batch in pending state.
func (s *EnrollmentService) Enroll(ctx context.Context, req EnrollRequest) (*models.Enrollment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid enrollment payload")
	}

	if _, err := s.batches.FindByID(ctx, req.BatchID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "batch not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load batch")
	}

	if _, err := s.repo.FindByStudentAndBatch(ctx, req.StudentID, req.BatchID); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "student already enrolled in this batch")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check enrollment")
	}

	enrollment := &models.Enrollment{
		StudentID: req.StudentID,
		BatchID:   req.BatchID,
		Status:    models.EnrollmentStatusPending,
	}
	if err := s.repo.Create(ctx, enrollment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create enrollment")
	}
	return enrollment, nil
}

// UpdateStatus transitions an enrollment's lifecycle state.
func (s *EnrollmentService) UpdateStatus(ctx context.Context, id string, req UpdateEnrollmentStatusRequest) (*models.Enrollment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid status payload")
	}

	enrollment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}

	status := models.EnrollmentStatus(req.Status)
	var leftAt *time.Time
	if status == models.EnrollmentStatusLeft {
		ts := time.Now().UTC()
		leftAt = &ts
	}

	if err := s.repo.UpdateStatus(ctx, id, status, leftAt); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update enrollment")
	}

	enrollment.Status = status
	enrollment.LeftAt = leftAt
	return enrollment, nil
}
