package models

import "time"

// Score records a student's result for a topic within a batch. TopicID is
// optional so batch-level assessments can be recorded too.
type Score struct {
	ID        string    `db:"id" json:"id"`
	StudentID string    `db:"student_id" json:"student_id"`
	BatchID   string    `db:"batch_id" json:"batch_id"`
	TopicID   *string   `db:"topic_id" json:"topic_id,omitempty"`
	Value     float64   `db:"value" json:"value"`
	MaxValue  float64   `db:"max_value" json:"max_value"`
	Remarks   string    `db:"remarks" json:"remarks"`
	AwardedBy string    `db:"awarded_by" json:"awarded_by"`
	AwardedAt time.Time `db:"awarded_at" json:"awarded_at"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ScoreDetail enriches Score with student and topic labels for reports.
type ScoreDetail struct {
	Score
	StudentName string  `db:"student_name" json:"student_name"`
	TopicTitle  *string `db:"topic_title" json:"topic_title,omitempty"`
}

// ScoreFilter provides filters for listing scores.
type ScoreFilter struct {
	StudentID string
	BatchID   string
	TopicID   string
	Page      int
	PageSize  int
}
