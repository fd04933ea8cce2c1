// Package notify is the notification sink consumed by the workflow and
// assignment services. Rows are written through whatever Storage the caller
// passes in, so a notification created inside a transaction commits or rolls
// back together with the rest of the operation.
package notify

import (
	"encoding/json"

	"projectpulse/backend/internal/apperr"
	"projectpulse/backend/internal/models"
	"projectpulse/backend/internal/storage"
)

// Meta is the closed set of metadata payloads. Each variant declares which
// notification types it may accompany; a mismatch is a validation error at
// the sink boundary, not a silent bad row.
type Meta interface {
	allowsType(t models.NotificationType) bool
}

// SubmissionMeta accompanies COMPLAINT_SUBMITTED.
type SubmissionMeta struct {
	ComplaintID string `json:"complaint_id"`
	ProjectID   string `json:"project_id"`
}

func (SubmissionMeta) allowsType(t models.NotificationType) bool {
	return t == models.NotifyComplaintSubmitted
}

// StatusChangeMeta accompanies STATUS_UPDATED and RESOLVED.
type StatusChangeMeta struct {
	ComplaintID string        `json:"complaint_id"`
	From        models.Status `json:"from"`
	To          models.Status `json:"to"`
}

func (StatusChangeMeta) allowsType(t models.NotificationType) bool {
	return t == models.NotifyStatusUpdated || t == models.NotifyResolved
}

// AssignmentMeta accompanies ASSIGNED.
type AssignmentMeta struct {
	ComplaintID string `json:"complaint_id"`
	AssigneeID  string `json:"assignee_id"`
}

func (AssignmentMeta) allowsType(t models.NotificationType) bool {
	return t == models.NotifyAssigned
}

// ResponseMeta accompanies NEW_RESPONSE.
type ResponseMeta struct {
	ComplaintID string `json:"complaint_id"`
	AuthorID    string `json:"author_id"`
}

func (ResponseMeta) allowsType(t models.NotificationType) bool {
	return t == models.NotifyNewResponse
}

// DeletionMeta accompanies COMPLAINT_DELETED.
type DeletionMeta struct {
	ComplaintID string `json:"complaint_id"`
}

func (DeletionMeta) allowsType(t models.NotificationType) bool {
	return t == models.NotifyComplaintDeleted
}

// TeamMeta accompanies TEAM_ADDED and TEAM_REMOVED.
type TeamMeta struct {
	TeamID string `json:"team_id"`
}

func (TeamMeta) allowsType(t models.NotificationType) bool {
	return t == models.NotifyTeamAdded || t == models.NotifyTeamRemoved
}

// Create writes one notification through st. When st is transaction-bound
// the row participates in that transaction.
func Create(st storage.Storage, userID, message string, typ models.NotificationType, meta Meta) (*models.Notification, error) {
	if userID == "" {
		return nil, apperr.Validation("notification recipient is required")
	}
	if message == "" {
		return nil, apperr.Validation("notification message is required")
	}

	encoded := "{}"
	if meta != nil {
		if !meta.allowsType(typ) {
			return nil, apperr.Validation("metadata payload does not match notification type %s", typ)
		}
		raw, err := json.Marshal(meta)
		if err != nil {
			return nil, apperr.Storage(err, "encode notification metadata")
		}
		encoded = string(raw)
	}

	n := &models.Notification{
		UserID:   userID,
		Message:  message,
		Type:     typ,
		Metadata: encoded,
	}
	if err := st.CreateNotification(n); err != nil {
		return nil, apperr.Storage(err, "create notification")
	}
	return n, nil
}
