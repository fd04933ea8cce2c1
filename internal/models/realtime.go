package models

// PushEvent is the wire format published to Redis after a notification
// commits, and delivered as-is to the owner's websocket connection.
type PushEvent struct {
	UserID         string           `json:"user_id"`
	NotificationID uint             `json:"notification_id"`
	Type           NotificationType `json:"type"`
	Message        string           `json:"message"`
	Metadata       string           `json:"metadata,omitempty"`
}
