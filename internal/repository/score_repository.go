package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/unpuzzledd/academy-api/internal/models"
)

// ScoreRepository provides persistence for scores.
type ScoreRepository struct {
	db *sqlx.DB
}

// NewScoreRepository creates a new score repository.
func NewScoreRepository(db *sqlx.DB) *ScoreRepository {
	return &ScoreRepository{db: db}
}

const scoreColumns = "id, student_id, batch_id, topic_id, value, max_value, remarks, awarded_by, awarded_at, created_at, updated_at"

// List returns scores with student and topic labels attached.
func (r *ScoreRepository) List(ctx context.Context, filter models.ScoreFilter) ([]models.ScoreDetail, int, error) {
	base := "FROM scores s JOIN users u ON u.id = s.student_id LEFT JOIN topics t ON t.id = s.topic_id WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.StudentID != "" {
		conditions = append(conditions, fmt.Sprintf("s.student_id = $%d", len(args)+1))
		args = append(args, filter.StudentID)
	}
	if filter.BatchID != "" {
		conditions = append(conditions, fmt.Sprintf("s.batch_id = $%d", len(args)+1))
		args = append(args, filter.BatchID)
	}
	if filter.TopicID != "" {
		conditions = append(conditions, fmt.Sprintf("s.topic_id = $%d", len(args)+1))
		args = append(args, filter.TopicID)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 50
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT s.id, s.student_id, s.batch_id, s.topic_id, s.value, s.max_value, s.remarks, s.awarded_by, s.awarded_at, s.created_at, s.updated_at, u.full_name AS student_name, t.title AS topic_title %s ORDER BY s.awarded_at DESC LIMIT %d OFFSET %d", base, size, offset)
	var scores []models.ScoreDetail
	if err := r.db.SelectContext(ctx, &scores, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list scores: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count scores: %w", err)
	}

	return scores, total, nil
}

// FindByID loads a score by id.
func (r *ScoreRepository) FindByID(ctx context.Context, id string) (*models.Score, error) {
	query := fmt.Sprintf("SELECT %s FROM scores WHERE id = $1", scoreColumns)
	var score models.Score
	if err := r.db.GetContext(ctx, &score, query, id); err != nil {
		return nil, err
	}
	return &score, nil
}

// Create stores a new score record.
func (r *ScoreRepository) Create(ctx context.Context, score *models.Score) error {
	if score.ID == "" {
		score.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if score.AwardedAt.IsZero() {
		score.AwardedAt = now
	}
	if score.CreatedAt.IsZero() {
		score.CreatedAt = now
	}
	score.UpdatedAt = now

	const query = `INSERT INTO scores (id, student_id, batch_id, topic_id, value, max_value, remarks, awarded_by, awarded_at, created_at, updated_at) VALUES (:id, :student_id, :batch_id, :topic_id, :value, :max_value, :remarks, :awarded_by, :awarded_at, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, score); err != nil {
		return fmt.Errorf("create score: %w", err)
	}
	return nil
}

// Update modifies a score record.
func (r *ScoreRepository) Update(ctx context.Context, score *models.Score) error {
	score.UpdatedAt = time.Now().UTC()
	const query = `UPDATE scores SET value = :value, max_value = :max_value, remarks = :remarks, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, score); err != nil {
		return fmt.Errorf("update score: %w", err)
	}
	return nil
}

// Delete removes a score by id.
func (r *ScoreRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM scores WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete score: %w", err)
	}
	return nil
}
