package models

import "gorm.io/gorm"

// ComplaintHistory is one append-only audit entry for a complaint.
// The embedded gorm.Model provides ID, CreatedAt, UpdatedAt, and DeletedAt.
// Exactly one entry is written per status transition, inside the same
// transaction as the complaint mutation; entries are never updated.
type ComplaintHistory struct {
	gorm.Model

	// ComplaintID is the complaint this entry belongs to.
	ComplaintID string `gorm:"type:text;not null;index"`
	// Status is the complaint status snapshot at the time of the entry.
	Status Status `gorm:"type:text;not null"`
	// Message is the human-readable description of the transition.
	Message string `gorm:"type:text;not null"`
	// UserID is the actor who caused the transition.
	UserID string `gorm:"type:text;not null"`
}
