package notify

import (
	"log"

	"projectpulse/backend/internal/models"
)

// PushStore is the slice of the storage service the publisher needs.
type PushStore interface {
	PublishPushEvent(ev models.PushEvent) error
}

// Publisher pushes committed notifications to the real-time channel.
// Fire-and-forget: a publish failure is logged and never surfaced, because
// the database row already committed.
type Publisher struct {
	Store PushStore
}

func NewPublisher(store PushStore) *Publisher {
	return &Publisher{Store: store}
}

// Push publishes one committed notification. Safe to call with a nil
// receiver so services can run without a push channel configured.
func (p *Publisher) Push(n *models.Notification) {
	if p == nil || p.Store == nil || n == nil {
		return
	}
	ev := models.PushEvent{
		UserID:         n.UserID,
		NotificationID: n.ID,
		Type:           n.Type,
		Message:        n.Message,
		Metadata:       n.Metadata,
	}
	if err := p.Store.PublishPushEvent(ev); err != nil {
		log.Printf("ERROR: Failed to publish push event for user %s: %v", n.UserID, err)
	}
}
