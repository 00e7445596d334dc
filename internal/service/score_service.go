package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/unpuzzledd/academy-api/internal/models"
	appErrors "github.com/unpuzzledd/academy-api/pkg/errors"
	"github.com/unpuzzledd/academy-api/pkg/export"
)

type scoreRepository interface {
	List(ctx context.Context, filter models.ScoreFilter) ([]models.ScoreDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.Score, error)
	Create(ctx context.Context, score *models.Score) error
	Update(ctx context.Context, score *models.Score) error
	Delete(ctx context.Context, id string) error
}

// RecordScoreRequest describes payload for recording a score.
type RecordScoreRequest struct {
	StudentID string  `json:"student_id" validate:"required"`
	TopicID   *string `json:"topic_id"`
	Value     float64 `json:"value" validate:"gte=0"`
	MaxValue  float64 `json:"max_value" validate:"gt=0"`
	Remarks   string  `json:"remarks"`
}

// UpdateScoreRequest updates a recorded score.
type UpdateScoreRequest struct {
	Value    float64 `json:"value" validate:"gte=0"`
	MaxValue float64 `json:"max_value" validate:"gt=0"`
	Remarks  string  `json:"remarks"`
}

// ScoreService coordinates scoring and report export.
type ScoreService struct {
	repo      scoreRepository
	batches   exceptionBatchReader
	validator *validator.Validate
	logger    *zap.Logger
}

// NewScoreService instantiates ScoreService.
func NewScoreService(repo scoreRepository, batches exceptionBatchReader, validate *validator.Validate, logger *zap.Logger) *ScoreService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScoreService{repo: repo, batches: batches, validator: validate, logger: logger}
}

// List returns scores with pagination metadata.
func (s *ScoreService) List(ctx context.Context, filter models.ScoreFilter) ([]models.ScoreDetail, *models.Pagination, error) {
	scores, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list scores")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 50
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return scores, pagination, nil
}

// Record stores a new score for a student within a batch.
func (s *ScoreService) Record(ctx context.Context, batchID, awardedBy string, req RecordScoreRequest) (*models.Score, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid score payload")
	}
	if req.Value > req.MaxValue {
		return nil, appErrors.Clone(appErrors.ErrValidation, "value must not exceed max_value")
	}

	if _, err := s.batches.FindByID(ctx, batchID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "batch not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load batch")
	}

	score := &models.Score{
		StudentID: req.StudentID,
		BatchID:   batchID,
		TopicID:   req.TopicID,
		Value:     req.Value,
		MaxValue:  req.MaxValue,
		Remarks:   req.Remarks,
		AwardedBy: awardedBy,
	}
	if err := s.repo.Create(ctx, score); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record score")
	}
	return score, nil
}

// Update modifies a recorded score.
func (s *ScoreService) Update(ctx context.Context, id string, req UpdateScoreRequest) (*models.Score, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid score payload")
	}
	if req.Value > req.MaxValue {
		return nil, appErrors.Clone(appErrors.ErrValidation, "value must not exceed max_value")
	}

	score, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "score not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load score")
	}

	score.Value = req.Value
	score.MaxValue = req.MaxValue
	score.Remarks = req.Remarks

	if err := s.repo.Update(ctx, score); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update score")
	}
	return score, nil
}

// Delete removes a recorded score.
func (s *ScoreService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "score not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load score")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete score")
	}
	return nil
}

// Export renders a batch's score report as CSV or PDF bytes.
func (s *ScoreService) Export(ctx context.Context, batchID, format string) ([]byte, string, error) {
	batch, err := s.batches.FindByID(ctx, batchID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", appErrors.Clone(appErrors.ErrNotFound, "batch not found")
		}
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load batch")
	}

	scores, _, err := s.repo.List(ctx, models.ScoreFilter{BatchID: batchID, PageSize: 100})
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list scores")
	}

	dataset := export.Dataset{
		Headers: []string{"Student", "Topic", "Score", "Max", "Remarks"},
	}
	for _, score := range scores {
		topic := ""
		if score.TopicTitle != nil {
			topic = *score.TopicTitle
		}
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Student": score.StudentName,
			"Topic":   topic,
			"Score":   fmt.Sprintf("%.1f", score.Value),
			"Max":     fmt.Sprintf("%.1f", score.MaxValue),
			"Remarks": score.Remarks,
		})
	}

	switch format {
	case "csv":
		data, err := export.RenderCSV(dataset)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return data, "text/csv", nil
	case "pdf":
		data, err := export.RenderPDF(dataset, fmt.Sprintf("%s score report", batch.Name))
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return data, "application/pdf", nil
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
}
