package push_test

import (
	"sync/atomic"

	"projectpulse/backend/internal/models"
)

// mockClient is an in-memory push.Client for hub tests.
type mockClient struct {
	userID string
	send   chan models.PushEvent
	closed atomic.Bool
}

func newMockClient(userID string, buffer int) *mockClient {
	return &mockClient{
		userID: userID,
		send:   make(chan models.PushEvent, buffer),
	}
}

func (m *mockClient) GetUserID() string                       { return m.userID }
func (m *mockClient) GetSendChannel() chan<- models.PushEvent { return m.send }
func (m *mockClient) Run()                                    {}
func (m *mockClient) Close()                                  { m.closed.Store(true) }
