package models

import "time"

// BatchStatus represents the lifecycle of a batch.
type BatchStatus string

const (
	BatchStatusUpcoming  BatchStatus = "UPCOMING"
	BatchStatusOngoing   BatchStatus = "ONGOING"
	BatchStatusCompleted BatchStatus = "COMPLETED"
)

// Batch represents a course batch run by an academy. StartDate and EndDate
// are calendar dates stored as YYYY-MM-DD.
type Batch struct {
	ID          string      `db:"id" json:"id"`
	AcademyID   string      `db:"academy_id" json:"academy_id"`
	Name        string      `db:"name" json:"name"`
	Description string      `db:"description" json:"description"`
	TeacherID   string      `db:"teacher_id" json:"teacher_id"`
	StartDate   string      `db:"start_date" json:"start_date"`
	EndDate     string      `db:"end_date" json:"end_date"`
	Status      BatchStatus `db:"status" json:"status"`
	CreatedAt   time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time   `db:"updated_at" json:"updated_at"`
}

// BatchFilter narrows down batch listings.
type BatchFilter struct {
	AcademyID string
	TeacherID string
	Status    BatchStatus
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
