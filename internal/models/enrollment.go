package models

import "time"

// EnrollmentStatus represents the lifecycle of an enrollment.
type EnrollmentStatus string

// Possible enrollment statuses.
const (
	EnrollmentStatusPending EnrollmentStatus = "PENDING"
	EnrollmentStatusActive  EnrollmentStatus = "ACTIVE"
	EnrollmentStatusLeft    EnrollmentStatus = "LEFT"
)

// Enrollment captures a student's registration to a batch.
type Enrollment struct {
	ID        string           `db:"id" json:"id"`
	StudentID string           `db:"student_id" json:"student_id"`
	BatchID   string           `db:"batch_id" json:"batch_id"`
	JoinedAt  time.Time        `db:"joined_at" json:"joined_at"`
	LeftAt    *time.Time       `db:"left_at" json:"left_at,omitempty"`
	Status    EnrollmentStatus `db:"status" json:"status"`
}

// EnrollmentDetail enriches Enrollment with student and batch info.
type EnrollmentDetail struct {
	Enrollment
	StudentName string `db:"student_name" json:"student_name"`
	BatchName   string `db:"batch_name" json:"batch_name"`
}

// EnrollmentFilter provides filters for listing enrollments.
type EnrollmentFilter struct {
	StudentID string
	BatchID   string
	Status    EnrollmentStatus
	Page      int
	PageSize  int
}
