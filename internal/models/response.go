package models

import "gorm.io/gorm"

// Response is a timeline message attached to a complaint: a resolution
// comment or an approval/rejection note. Immutable once created.
type Response struct {
	gorm.Model

	ComplaintID string `gorm:"type:text;not null;index"`
	UserID      string `gorm:"type:text;not null"`
	Message     string `gorm:"type:text;not null"`
}
