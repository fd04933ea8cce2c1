package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"projectpulse/backend/internal/apperr"
)

// DashboardStats serves the aggregate snapshot. Staff only.
func (h *Handler) DashboardStats(c *gin.Context) {
	_, role := caller(c)
	if !role.Staff() {
		fail(c, apperr.Forbidden("dashboard statistics are staff-only"))
		return
	}

	stats, err := h.Dashboard.Stats()
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
