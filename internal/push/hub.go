// Package push delivers committed notifications to connected users over
// websockets. Events arrive via Redis Pub/Sub so multiple backend instances
// can serve websocket clients against the same database.
package push

import (
	"encoding/json"
	"log"

	"projectpulse/backend/internal/models"

	"github.com/redis/go-redis/v9"
)

// Subscriber provides the Redis subscription the hub consumes.
// *storage.Service satisfies it.
type Subscriber interface {
	SubscribePushEvents() *redis.PubSub
}

// Hub routes push events to the owning user's connection. One connection
// per user; a new registration replaces the old one.
type Hub struct {
	Clients map[string]Client

	RegisterCh   chan Client
	UnregisterCh chan Client
	// EventCh receives decoded push events from the Redis subscriber.
	EventCh chan models.PushEvent

	Subscriber Subscriber
}

func NewHub(sub Subscriber) *Hub {
	return &Hub{
		Clients:      make(map[string]Client),
		RegisterCh:   make(chan Client),
		UnregisterCh: make(chan Client),
		EventCh:      make(chan models.PushEvent),
		Subscriber:   sub,
	}
}

// StartSubscriber runs the Redis Pub/Sub listener feeding EventCh.
func (h *Hub) StartSubscriber() {
	if h.Subscriber == nil {
		return
	}
	go func() {
		pubsub := h.Subscriber.SubscribePushEvents()
		defer pubsub.Close()

		for msg := range pubsub.Channel() {
			var ev models.PushEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				log.Printf("ERROR: Failed to decode push event: %v", err)
				continue
			}
			h.EventCh <- ev
		}
	}()
}

// Run is the hub's main loop. It owns the Clients map; all mutation happens
// on this goroutine.
func (h *Hub) Run() {
	h.StartSubscriber()

	for {
		select {
		case client := <-h.RegisterCh:
			if old, ok := h.Clients[client.GetUserID()]; ok {
				old.Close()
			}
			h.Clients[client.GetUserID()] = client
			log.Printf("Push client connected: %s", client.GetUserID())

		case client := <-h.UnregisterCh:
			if cur, ok := h.Clients[client.GetUserID()]; ok && cur == client {
				delete(h.Clients, client.GetUserID())
				client.Close()
				log.Printf("Push client disconnected: %s", client.GetUserID())
			}

		case ev := <-h.EventCh:
			client, ok := h.Clients[ev.UserID]
			if !ok {
				continue
			}
			select {
			case client.GetSendChannel() <- ev:
			default:
				// Slow consumer: drop the connection, the inbox row
				// is already persisted.
				delete(h.Clients, ev.UserID)
				client.Close()
			}
		}
	}
}
