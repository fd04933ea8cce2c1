package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"projectpulse/backend/internal/models"
	"projectpulse/backend/internal/storage"
	"projectpulse/backend/internal/workflow"
)

type createComplaintRequest struct {
	ProjectID   string `json:"project_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Priority    string `json:"priority"`
}

// CreateComplaint accepts either a JSON body or a multipart form with
// attachment files under the "attachments" field.
func (h *Handler) CreateComplaint(c *gin.Context) {
	clientID, _ := caller(c)

	in := workflow.CreateInput{}
	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		in.ProjectID = c.PostForm("project_id")
		in.Title = c.PostForm("title")
		in.Description = c.PostForm("description")
		in.Category = models.Category(c.PostForm("category"))
		in.Priority = models.Priority(c.PostForm("priority"))

		form, err := c.MultipartForm()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid multipart form"})
			return
		}
		for _, fh := range form.File["attachments"] {
			f, err := fh.Open()
			if err != nil {
				continue
			}
			defer f.Close()
			in.Attachments = append(in.Attachments, workflow.Attachment{Name: fh.Filename, Content: f})
		}
	} else {
		var req createComplaintRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		in.ProjectID = req.ProjectID
		in.Title = req.Title
		in.Description = req.Description
		in.Category = models.Category(req.Category)
		in.Priority = models.Priority(req.Priority)
	}

	complaint, err := h.Workflow.Create(clientID, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, complaint)
}

func (h *Handler) GetComplaint(c *gin.Context) {
	complaint, err := h.Workflow.Get(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, complaint)
}

func (h *Handler) ListComplaints(c *gin.Context) {
	filter := storage.ComplaintFilter{
		ClientID:   c.Query("client_id"),
		AssigneeID: c.Query("assignee_id"),
		ProjectID:  c.Query("project_id"),
		Status:     models.Status(c.Query("status")),
	}
	out, err := h.Workflow.List(filter)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

type updateComplaintRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	Priority    *string `json:"priority"`
	Status      *string `json:"status"`
	AssigneeID  *string `json:"assignee_id"`
}

func (h *Handler) UpdateComplaint(c *gin.Context) {
	callerID, role := caller(c)

	var req updateComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	patch := workflow.Patch{
		Title:       req.Title,
		Description: req.Description,
		AssigneeID:  req.AssigneeID,
	}
	if req.Category != nil {
		cat := models.Category(*req.Category)
		patch.Category = &cat
	}
	if req.Priority != nil {
		pr := models.Priority(*req.Priority)
		patch.Priority = &pr
	}
	if req.Status != nil {
		st := models.Status(*req.Status)
		patch.Status = &st
	}

	complaint, err := h.Workflow.Update(c.Param("id"), callerID, role, patch)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, complaint)
}

func (h *Handler) DeleteComplaint(c *gin.Context) {
	callerID, role := caller(c)
	if err := h.Workflow.Delete(c.Param("id"), callerID, role); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) GetComplaintHistory(c *gin.Context) {
	out, err := h.Workflow.History(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) GetComplaintResponses(c *gin.Context) {
	out, err := h.Workflow.Responses(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) ResolveComplaint(c *gin.Context) {
	callerID, role := caller(c)

	var req struct {
		Comment string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	complaint, err := h.Workflow.Resolve(c.Param("id"), callerID, role, req.Comment)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, complaint)
}

func (h *Handler) RespondToResolution(c *gin.Context) {
	callerID, _ := caller(c)

	var req struct {
		Action   string `json:"action"`
		Feedback string `json:"feedback"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	complaint, err := h.Workflow.RespondToResolution(
		c.Param("id"), callerID, workflow.ResolutionAction(req.Action), req.Feedback)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, complaint)
}
