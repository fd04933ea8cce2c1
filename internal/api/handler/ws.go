package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"projectpulse/backend/internal/models"
	"projectpulse/backend/internal/push"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allows connections from any origin. Tighten for production.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWebSocket upgrades the request and registers the caller for
// real-time notification delivery. Identity comes from the auth middleware.
func (h *Handler) ServeWebSocket(c *gin.Context) {
	userID, _ := caller(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to upgrade connection"})
		return
	}

	client := &push.WebSocketClient{
		UserID: userID,
		Conn:   conn,
		Hub:    h.Hub,
		Send:   make(chan models.PushEvent, 256),
	}

	h.Hub.RegisterCh <- client
	client.Run()
}
