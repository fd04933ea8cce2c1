package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Notification routes are owner-scoped: a user only ever sees their own
// inbox, and a foreign notification id renders as 404, not 403.

func (h *Handler) ListNotifications(c *gin.Context) {
	userID, _ := caller(c)
	unreadOnly := c.Query("unread") == "true"

	out, err := h.Storage.ListNotificationsForUser(userID, unreadOnly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) MarkNotificationRead(c *gin.Context) {
	userID, _ := caller(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification id"})
		return
	}

	n, err := h.Storage.GetNotificationByID(uint(id))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if n == nil || n.UserID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
		return
	}

	n.IsRead = true
	if err := h.Storage.SaveNotification(n); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, n)
}

func (h *Handler) DeleteNotification(c *gin.Context) {
	userID, _ := caller(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification id"})
		return
	}

	n, err := h.Storage.GetNotificationByID(uint(id))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if n == nil || n.UserID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
		return
	}

	if err := h.Storage.DeleteNotification(n.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.Status(http.StatusNoContent)
}
