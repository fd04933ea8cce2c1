package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) AssignComplaint(c *gin.Context) {
	callerID, role := caller(c)

	var req struct {
		AssigneeID string `json:"assignee_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "assignee_id is required"})
		return
	}

	complaint, err := h.Assignments.Assign(c.Param("id"), req.AssigneeID, callerID, role)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, complaint)
}

func (h *Handler) BalanceWorkload(c *gin.Context) {
	callerID, role := caller(c)

	result, err := h.Assignments.Balance(callerID, role)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) ListStaffWorkloads(c *gin.Context) {
	_, role := caller(c)

	out, err := h.Assignments.ListStaffWorkloads(role)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
