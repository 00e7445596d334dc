package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/unpuzzledd/academy-api/internal/models"
)

// EnrollmentRepository provides persistence for enrollments.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository creates a new enrollment repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

const enrollmentColumns = "id, student_id, batch_id, joined_at, left_at, status"

// ListByBatch returns enrollments for a batch with student names attached.
func (r *EnrollmentRepository) ListByBatch(ctx context.Context, batchID string) ([]models.EnrollmentDetail, error) {
	const query = `SELECT e.id, e.student_id, e.batch_id, e.joined_at, e.left_at, e.status, u.full_name AS student_name, b.name AS batch_name FROM enrollments e JOIN users u ON u.id = e.student_id JOIN batches b ON b.id = e.batch_id WHERE e.batch_id = $1 ORDER BY u.full_name ASC`
	var enrollments []models.EnrollmentDetail
	if err := r.db.SelectContext(ctx, &enrollments, query, batchID); err != nil {
		return nil, fmt.Errorf("list enrollments by batch: %w", err)
	}
	return enrollments, nil
}

// ListByStudent returns a student's enrollments with batch names attached.
func (r *EnrollmentRepository) ListByStudent(ctx context.Context, studentID string) ([]models.EnrollmentDetail, error) {
	const query = `SELECT e.id, e.student_id, e.batch_id, e.joined_at, e.left_at, e.status, u.full_name AS student_name, b.name AS batch_name FROM enrollments e JOIN users u ON u.id = e.student_id JOIN batches b ON b.id = e.batch_id WHERE e.student_id = $1 ORDER BY e.joined_at DESC`
	var enrollments []models.EnrollmentDetail
	if err := r.db.SelectContext(ctx, &enrollments, query, studentID); err != nil {
		return nil, fmt.Errorf("list enrollments by student: %w", err)
	}
	return enrollments, nil
}

// FindByID loads an enrollment by id.
func (r *EnrollmentRepository) FindByID(ctx context.Context, id string) (*models.Enrollment, error) {
	query := fmt.Sprintf("SELECT %s FROM enrollments WHERE id = $1", enrollmentColumns)
	var enrollment models.Enrollment
	if err := r.db.GetContext(ctx, &enrollment, query, id); err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// FindByStudentAndBatch loads a student's enrollment in a batch, is used to
// prevent duplicate registration.
func (r *EnrollmentRepository) FindByStudentAndBatch(ctx context.Context, studentID, batchID string) (*models.Enrollment, error) {
	query := fmt.Sprintf("SELECT %s FROM enrollments WHERE student_id = $1 AND batch_id = $2", enrollmentColumns)
	var enrollment models.Enrollment
	if err := r.db.GetContext(ctx, &enrollment, query, studentID, batchID); err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// Create stores a new enrollment record.
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	if enrollment.ID == "" {
		enrollment.ID = uuid.NewString()
	}
	if enrollment.JoinedAt.IsZero() {
		enrollment.JoinedAt = time.Now().UTC()
	}

	const query = `INSERT INTO enrollments (id, student_id, batch_id, joined_at, left_at, status) VALUES (:id, :student_id, :batch_id, :joined_at, :left_at, :status)`
	if _, err := r.db.NamedExecContext(ctx, query, enrollment); err != nil {
		return fmt.Errorf("create enrollment: %w", err)
	}
	return nil
}

// UpdateStatus transitions an enrollment's lifecycle state.
func (r *EnrollmentRepository) UpdateStatus(ctx context.Context, id string, status models.EnrollmentStatus, leftAt *time.Time) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE enrollments SET status = $1, left_at = $2 WHERE id = $3`, status, leftAt, id); err != nil {
		return fmt.Errorf("update enrollment status: %w", err)
	}
	return nil
}
