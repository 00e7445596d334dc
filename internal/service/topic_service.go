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

type topicRepository interface {
	ListByBatch(ctx context.Context, batchID string) ([]models.Topic, error)
	FindByID(ctx context.Context, id string) (*models.Topic, error)
	Create(ctx context.Context, topic *models.Topic) error
	Update(ctx context.Context, topic *models.Topic) error
	Delete(ctx context.Context, id string) error
}

// CreateTopicRequest describes payload for creating a topic.
type CreateTopicRequest struct {
	Title         string  `json:"title" validate:"required"`
	Description   string  `json:"description"`
	ScheduledDate *string `json:"scheduled_date"`
	Position      int     `json:"position"`
}

// UpdateTopicRequest updates an existing topic.
type UpdateTopicRequest struct {
	Title         string  `json:"title" validate:"required"`
	Description   string  `json:"description"`
	ScheduledDate *string `json:"scheduled_date"`
	Status        string  `json:"status" validate:"required,oneof=PLANNED ONGOING COMPLETED"`
	Position      int     `json:"position"`
}

// TopicService coordinates syllabus topics within batches.
type TopicService struct {
	repo      topicRepository
	batches   exceptionBatchReader
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTopicService instantiates TopicService.
func NewTopicService(repo topicRepository, batches exceptionBatchReader, validate *validator.Validate, logger *zap.Logger) *TopicService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TopicService{repo: repo, batches: batches, validator: validate, logger: logger}
}

// ListByBatch returns a batch's topics in syllabus order.
func (s *TopicService) ListByBatch(ctx context.Context, batchID string) ([]models.Topic, error) {
	topics, err := s.repo.ListByBatch(ctx, batchID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list topics")
	}
	return topics, nil
}

// Create registers a new topic under a batch.
func (s *TopicService) Create(ctx context.Context, batchID string, req CreateTopicRequest) (*models.Topic, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid topic payload")
	}
	if err := validateOptionalDate(req.ScheduledDate); err != nil {
		return nil, err
	}

	if _, err := s.batches.FindByID(ctx, batchID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "batch not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load batch")
	}

	topic := &models.Topic{
		BatchID:       batchID,
		Title:         req.Title,
		Description:   req.Description,
		ScheduledDate: req.ScheduledDate,
		Status:        models.TopicStatusPlanned,
		Position:      req.Position,
	}
	if err := s.repo.Create(ctx, topic); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create topic")
	}
	return topic, nil
}

// Update modifies an existing topic.
func (s *TopicService) Update(ctx context.Context, id string, req UpdateTopicRequest) (*models.Topic, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid topic payload")
	}
	if err := validateOptionalDate(req.ScheduledDate); err != nil {
		return nil, err
	}

	topic, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "topic not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load topic")
	}

	topic.Title = req.Title
	topic.Description = req.Description
	topic.ScheduledDate = req.ScheduledDate
	topic.Status = models.TopicStatus(req.Status)
	topic.Position = req.Position

	if err := s.repo.Update(ctx, topic); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update topic")
	}
	return topic, nil
}

// Complete marks a topic as taught.
func (s *TopicService) Complete(ctx context.Context, id string) (*models.Topic, error) {
	topic, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "topic not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load topic")
	}

	topic.Status = models.TopicStatusCompleted
	if err := s.repo.Update(ctx, topic); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update topic")
	}
	return topic, nil
}

// Delete removes a topic.
func (s *TopicService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "topic not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load topic")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete topic")
	}
	return nil
}

func validateOptionalDate(value *string) error {
	if value == nil || *value == "" {
		return nil
	}
	if _, err := time.Parse(schedule.DateLayout, *value); err != nil {
		return appErrors.Clone(appErrors.ErrValidation, "scheduled_date must be a YYYY-MM-DD date")
	}
	return nil
}
