// Package handler is the thin HTTP route layer. Handlers bind input,
// extract the caller identity the middleware verified, delegate to a
// service, and render the service's error kind as a status code. No
// business rules live here.
package handler

import (
	"github.com/gin-gonic/gin"

	"projectpulse/backend/internal/apperr"
	"projectpulse/backend/internal/assignment"
	"projectpulse/backend/internal/dashboard"
	"projectpulse/backend/internal/push"
	"projectpulse/backend/internal/storage"
	"projectpulse/backend/internal/workflow"
)

type Handler struct {
	Workflow    *workflow.Service
	Assignments *assignment.Service
	Dashboard   *dashboard.Aggregator
	Hub         *push.Hub
	Storage     storage.Storage
	JWTSecret   []byte
}

func NewHandler(wf *workflow.Service, as *assignment.Service, da *dashboard.Aggregator, hub *push.Hub, st storage.Storage, jwtSecret []byte) *Handler {
	return &Handler{
		Workflow:    wf,
		Assignments: as,
		Dashboard:   da,
		Hub:         hub,
		Storage:     st,
		JWTSecret:   jwtSecret,
	}
}

// Register wires all routes. Everything except token minting sits behind
// the auth middleware.
func (h *Handler) Register(r *gin.Engine) {
	r.POST("/auth/token", h.MintToken)

	authed := r.Group("/", h.AuthRequired())
	{
		authed.POST("/complaints", h.CreateComplaint)
		authed.GET("/complaints", h.ListComplaints)
		authed.GET("/complaints/:id", h.GetComplaint)
		authed.PATCH("/complaints/:id", h.UpdateComplaint)
		authed.DELETE("/complaints/:id", h.DeleteComplaint)
		authed.GET("/complaints/:id/history", h.GetComplaintHistory)
		authed.GET("/complaints/:id/responses", h.GetComplaintResponses)
		authed.POST("/complaints/:id/resolve", h.ResolveComplaint)
		authed.POST("/complaints/:id/resolution-response", h.RespondToResolution)
		authed.PUT("/complaints/:id/assign", h.AssignComplaint)

		authed.POST("/assignments/balance", h.BalanceWorkload)
		authed.GET("/assignments/workloads", h.ListStaffWorkloads)

		authed.GET("/dashboard/stats", h.DashboardStats)

		authed.GET("/notifications", h.ListNotifications)
		authed.PATCH("/notifications/:id/read", h.MarkNotificationRead)
		authed.DELETE("/notifications/:id", h.DeleteNotification)

		authed.GET("/ws", h.ServeWebSocket)
	}
}

// fail renders a service error with its mapped status and safe message.
func fail(c *gin.Context, err error) {
	c.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.UserMessage(err)})
}
