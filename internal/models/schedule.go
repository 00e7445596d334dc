package models

import "time"

// ExceptionAction enumerates the supported per-date schedule overrides.
type ExceptionAction string

const (
	ExceptionActionCancelled   ExceptionAction = "cancelled"
	ExceptionActionTimeChanged ExceptionAction = "time_changed"
	ExceptionActionMoved       ExceptionAction = "moved"
)

// OccurrenceStatus annotates a materialized occurrence after exception merge.
type OccurrenceStatus string

const (
	OccurrenceStatusNormal      OccurrenceStatus = "normal"
	OccurrenceStatusUnavailable OccurrenceStatus = "unavailable"
	OccurrenceStatusTimeChanged OccurrenceStatus = "time_changed"
	OccurrenceStatusMoved       OccurrenceStatus = "moved"
)

// WeeklyScheduleEntry is one recurring slot of a batch's weekly pattern.
// Day is a lowercase weekday key (monday..sunday); FromTime and ToTime are
// 24-hour wall-clock times formatted HH:MM with no timezone.
type WeeklyScheduleEntry struct {
	ID       string `db:"id" json:"id,omitempty"`
	BatchID  string `db:"batch_id" json:"batch_id,omitempty"`
	Day      string `db:"day" json:"day"`
	FromTime string `db:"from_time" json:"from_time"`
	ToTime   string `db:"to_time" json:"to_time"`
}

// ScheduleException is a single calendar-date override of a batch's weekly
// pattern. FromTime, ToTime and NewDay are only meaningful for the actions
// that use them; Notes is free text carried through for display.
type ScheduleException struct {
	ID            string          `db:"id" json:"id"`
	BatchID       string          `db:"batch_id" json:"batch_id"`
	ExceptionDate string          `db:"exception_date" json:"exception_date"`
	Action        ExceptionAction `db:"action" json:"action"`
	FromTime      string          `db:"from_time" json:"from_time,omitempty"`
	ToTime        string          `db:"to_time" json:"to_time,omitempty"`
	NewDay        string          `db:"new_day" json:"new_day,omitempty"`
	Notes         string          `db:"notes" json:"notes,omitempty"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updated_at"`
}

// ClassOccurrence is one materialized calendar instance of a recurring slot.
// Date is the concrete calendar date formatted YYYY-MM-DD.
type ClassOccurrence struct {
	Date     string `json:"date"`
	Day      string `json:"day"`
	FromTime string `json:"from_time"`
	ToTime   string `json:"to_time"`
}

// MergedOccurrence is a ClassOccurrence annotated with the net effect of any
// exception on its date. OriginalTime is a human-readable pre-exception time
// label, present for time_changed and moved. Exception is the originating
// override record, present whenever Status is not normal.
type MergedOccurrence struct {
	ClassOccurrence
	Status       OccurrenceStatus   `json:"status"`
	OriginalTime string             `json:"original_time,omitempty"`
	Exception    *ScheduleException `json:"exception,omitempty"`
}
