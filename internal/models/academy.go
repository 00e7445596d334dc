package models

import "time"

// AcademyStatus represents the lifecycle of an academy listing.
type AcademyStatus string

const (
	AcademyStatusPending  AcademyStatus = "PENDING"
	AcademyStatusActive   AcademyStatus = "ACTIVE"
	AcademyStatusInactive AcademyStatus = "INACTIVE"
)

// Academy represents a teaching institution that runs batches.
type Academy struct {
	ID        string        `db:"id" json:"id"`
	Name      string        `db:"name" json:"name"`
	OwnerID   string        `db:"owner_id" json:"owner_id"`
	Address   string        `db:"address" json:"address"`
	Phone     string        `db:"phone" json:"phone"`
	Status    AcademyStatus `db:"status" json:"status"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt time.Time     `db:"updated_at" json:"updated_at"`
}

// AcademyFilter narrows down academy listings.
type AcademyFilter struct {
	OwnerID   string
	Status    AcademyStatus
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
