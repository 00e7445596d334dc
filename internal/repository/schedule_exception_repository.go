package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/unpuzzledd/academy-api/internal/models"
)

// ScheduleExceptionRepository provides persistence for schedule exceptions.
type ScheduleExceptionRepository struct {
	db *sqlx.DB
}

// NewScheduleExceptionRepository creates a new schedule exception repository.
func NewScheduleExceptionRepository(db *sqlx.DB) *ScheduleExceptionRepository {
	return &ScheduleExceptionRepository{db: db}
}

const exceptionColumns = "id, batch_id, exception_date, action, from_time, to_time, new_day, notes, created_at, updated_at"

// ListByBatch returns all exceptions for a batch ordered by date.
func (r *ScheduleExceptionRepository) ListByBatch(ctx context.Context, batchID string) ([]models.ScheduleException, error) {
	query := fmt.Sprintf("SELECT %s FROM schedule_exceptions WHERE batch_id = $1 ORDER BY exception_date ASC", exceptionColumns)
	var exceptions []models.ScheduleException
	if err := r.db.SelectContext(ctx, &exceptions, query, batchID); err != nil {
		return nil, fmt.Errorf("list schedule exceptions: %w", err)
	}
	return exceptions, nil
}

// FindByID loads an exception by id.
func (r *ScheduleExceptionRepository) FindByID(ctx context.Context, id string) (*models.ScheduleException, error) {
	query := fmt.Sprintf("SELECT %s FROM schedule_exceptions WHERE id = $1", exceptionColumns)
	var exc models.ScheduleException
	if err := r.db.GetContext(ctx, &exc, query, id); err != nil {
		return nil, err
	}
	return &exc, nil
}

// FindByBatchAndDate loads the exception for a specific calendar date, if any.
func (r *ScheduleExceptionRepository) FindByBatchAndDate(ctx context.Context, batchID, date string) (*models.ScheduleException, error) {
	query := fmt.Sprintf("SELECT %s FROM schedule_exceptions WHERE batch_id = $1 AND exception_date = $2", exceptionColumns)
	var exc models.ScheduleException
	if err := r.db.GetContext(ctx, &exc, query, batchID, date); err != nil {
		return nil, err
	}
	return &exc, nil
}

// Create stores a new exception record.
func (r *ScheduleExceptionRepository) Create(ctx context.Context, exc *models.ScheduleException) error {
	if exc.ID == "" {
		exc.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if exc.CreatedAt.IsZero() {
		exc.CreatedAt = now
	}
	exc.UpdatedAt = now

	const query = `INSERT INTO schedule_exceptions (id, batch_id, exception_date, action, from_time, to_time, new_day, notes, created_at, updated_at) VALUES (:id, :batch_id, :exception_date, :action, :from_time, :to_time, :new_day, :notes, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, exc); err != nil {
		return fmt.Errorf("create schedule exception: %w", err)
	}
	return nil
}

// Update modifies an exception record.
func (r *ScheduleExceptionRepository) Update(ctx context.Context, exc *models.ScheduleException) error {
	exc.UpdatedAt = time.Now().UTC()
	const query = `UPDATE schedule_exceptions SET exception_date = :exception_date, action = :action, from_time = :from_time, to_time = :to_time, new_day = :new_day, notes = :notes, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, exc); err != nil {
		return fmt.Errorf("update schedule exception: %w", err)
	}
	return nil
}

// Delete removes an exception by id.
func (r *ScheduleExceptionRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM schedule_exceptions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete schedule exception: %w", err)
	}
	return nil
}
