package models

import "time"

// TopicStatus represents the teaching progress of a topic.
type TopicStatus string

const (
	TopicStatusPlanned   TopicStatus = "PLANNED"
	TopicStatusOngoing   TopicStatus = "ONGOING"
	TopicStatusCompleted TopicStatus = "COMPLETED"
)

// Topic represents a syllabus item taught within a batch. ScheduledDate, when
// set, is the calendar date (YYYY-MM-DD) the topic is planned for.
type Topic struct {
	ID            string      `db:"id" json:"id"`
	BatchID       string      `db:"batch_id" json:"batch_id"`
	Title         string      `db:"title" json:"title"`
	Description   string      `db:"description" json:"description"`
	ScheduledDate *string     `db:"scheduled_date" json:"scheduled_date,omitempty"`
	Status        TopicStatus `db:"status" json:"status"`
	Position      int         `db:"position" json:"position"`
	CreatedAt     time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time   `db:"updated_at" json:"updated_at"`
}

// TopicFilter narrows down topic listings.
type TopicFilter struct {
	BatchID   string
	Status    TopicStatus
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
