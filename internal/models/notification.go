package models

import "gorm.io/gorm"

// NotificationType enumerates the kinds of notifications the services emit.
// Each type has a matching metadata payload shape, enforced by the notify
// package when the row is written.
type NotificationType string

const (
	NotifyComplaintSubmitted NotificationType = "COMPLAINT_SUBMITTED"
	NotifyStatusUpdated      NotificationType = "STATUS_UPDATED"
	NotifyNewResponse        NotificationType = "NEW_RESPONSE"
	NotifyAssigned           NotificationType = "ASSIGNED"
	NotifyResolved           NotificationType = "RESOLVED"
	NotifyComplaintDeleted   NotificationType = "COMPLAINT_DELETED"
	NotifyTeamAdded          NotificationType = "TEAM_ADDED"
	NotifyTeamRemoved        NotificationType = "TEAM_REMOVED"
)

// Notification is a directed inbox message to a single user. Only IsRead is
// mutable, and only by the owning user.
type Notification struct {
	gorm.Model

	UserID  string           `gorm:"type:text;not null;index" json:"user_id"`
	Message string           `gorm:"type:text;not null" json:"message"`
	Type    NotificationType `gorm:"type:text;not null" json:"type"`
	IsRead  bool             `gorm:"not null;default:false" json:"is_read"`
	// Metadata is the JSON-encoded typed payload for this notification type.
	Metadata string `gorm:"type:jsonb;default:'{}'" json:"metadata"`
}
