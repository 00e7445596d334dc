package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/unpuzzledd/academy-api/internal/models"
)

// TopicRepository provides persistence for batch topics.
type TopicRepository struct {
	db *sqlx.DB
}

// NewTopicRepository creates a new topic repository.
func NewTopicRepository(db *sqlx.DB) *TopicRepository {
	return &TopicRepository{db: db}
}

const topicColumns = "id, batch_id, title, description, scheduled_date, status, position, created_at, updated_at"

// ListByBatch returns a batch's topics in syllabus order.
func (r *TopicRepository) ListByBatch(ctx context.Context, batchID string) ([]models.Topic, error) {
	query := fmt.Sprintf("SELECT %s FROM topics WHERE batch_id = $1 ORDER BY position ASC, created_at ASC", topicColumns)
	var topics []models.Topic
	if err := r.db.SelectContext(ctx, &topics, query, batchID); err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}
	return topics, nil
}

// FindByID loads a topic by id.
func (r *TopicRepository) FindByID(ctx context.Context, id string) (*models.Topic, error) {
	query := fmt.Sprintf("SELECT %s FROM topics WHERE id = $1", topicColumns)
	var topic models.Topic
	if err := r.db.GetContext(ctx, &topic, query, id); err != nil {
		return nil, err
	}
	return &topic, nil
}

// Create stores a new topic record.
func (r *TopicRepository) Create(ctx context.Context, topic *models.Topic) error {
	if topic.ID == "" {
		topic.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if topic.CreatedAt.IsZero() {
		topic.CreatedAt = now
	}
	topic.UpdatedAt = now

	const query = `INSERT INTO topics (id, batch_id, title, description, scheduled_date, status, position, created_at, updated_at) VALUES (:id, :batch_id, :title, :description, :scheduled_date, :status, :position, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, topic); err != nil {
		return fmt.Errorf("create topic: %w", err)
	}
	return nil
}

// Update modifies a topic record.
func (r *TopicRepository) Update(ctx context.Context, topic *models.Topic) error {
	topic.UpdatedAt = time.Now().UTC()
	const query = `UPDATE topics SET title = :title, description = :description, scheduled_date = :scheduled_date, status = :status, position = :position, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, topic); err != nil {
		return fmt.Errorf("update topic: %w", err)
	}
	return nil
}

// Delete removes a topic by id.
func (r *TopicRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM topics WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete topic: %w", err)
	}
	return nil
}
