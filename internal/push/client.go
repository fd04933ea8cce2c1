package push

import "projectpulse/backend/internal/models"

// Client is one active real-time connection. The interface hides the
// transport so the hub can manage connection types uniformly and tests can
// substitute in-memory clients.
type Client interface {
	// GetUserID returns the user who owns this connection.
	GetUserID() string

	// GetSendChannel returns the channel the hub delivers events into.
	GetSendChannel() chan<- models.PushEvent

	// Run starts the connection's read and write pumps.
	Run()
	// Close shuts down the connection and its send channel.
	Close()
}
