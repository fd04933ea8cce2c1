package workflow

import (
	"fmt"
	"log"

	"projectpulse/backend/internal/apperr"
	"projectpulse/backend/internal/config"
	"projectpulse/backend/internal/mailer"
	"projectpulse/backend/internal/models"
	"projectpulse/backend/internal/notify"
	"projectpulse/backend/internal/storage"
)

// Patch carries the fields an update may change. Nil means "leave as is".
type Patch struct {
	Title       *string
	Description *string
	Category    *models.Category
	Priority    *models.Priority
	Status      *models.Status
	AssigneeID  *string
}

func (p Patch) touchesFields() bool {
	return p.Title != nil || p.Description != nil || p.Category != nil || p.Priority != nil
}

// ResolutionAction is the client's answer to a RESOLVED complaint.
type ResolutionAction string

const (
	ActionApprove ResolutionAction = "APPROVE"
	ActionReject  ResolutionAction = "REJECT"
)

// Update applies a patch to a complaint. A status change appends exactly one
// history row and notifies the client; an assignee change notifies the new
// assignee. All writes share one transaction.
func (s *Service) Update(id, callerID string, role models.Role, p Patch) (*models.Complaint, error) {
	if err := validatePatch(p); err != nil {
		return nil, err
	}

	c, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if err := canUpdate(c, callerID, role, p); err != nil {
		return nil, err
	}

	var newAssignee *models.User
	if p.AssigneeID != nil {
		newAssignee, err = s.staffUser(*p.AssigneeID)
		if err != nil {
			return nil, err
		}
	}

	oldStatus := c.Status
	oldAssignee := ""
	if c.AssigneeID != nil {
		oldAssignee = *c.AssigneeID
	}
	applyPatch(c, p)
	statusChanged := c.Status != oldStatus
	assigneeChanged := p.AssigneeID != nil && *p.AssigneeID != oldAssignee

	var pushed []*models.Notification
	err = s.Storage.Transaction(func(tx storage.Storage) error {
		if err := tx.SaveComplaint(c); err != nil {
			return apperr.Storage(err, "save complaint")
		}
		if statusChanged {
			if err := tx.CreateHistory(&models.ComplaintHistory{
				ComplaintID: c.ID,
				Status:      c.Status,
				Message:     fmt.Sprintf("Status changed from %s to %s", oldStatus, c.Status),
				UserID:      callerID,
			}); err != nil {
				return apperr.Storage(err, "create history")
			}
			n, err := notify.Create(tx, c.ClientID,
				fmt.Sprintf("Your complaint %q is now %s", c.Title, c.Status),
				models.NotifyStatusUpdated,
				notify.StatusChangeMeta{ComplaintID: c.ID, From: oldStatus, To: c.Status})
			if err != nil {
				return err
			}
			pushed = append(pushed, n)
		}
		if assigneeChanged {
			n, err := notify.Create(tx, newAssignee.ID,
				fmt.Sprintf("Complaint %q was assigned to you", c.Title),
				models.NotifyAssigned,
				notify.AssignmentMeta{ComplaintID: c.ID, AssigneeID: newAssignee.ID})
			if err != nil {
				return err
			}
			pushed = append(pushed, n)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.pushAll(pushed...)
	if statusChanged {
		s.sendMail(mailer.TemplateStatus, c.ClientID, map[string]string{
			"Title": c.Title, "Status": string(c.Status),
		})
	}
	return c, nil
}

// Resolve moves a complaint to RESOLVED with a mandatory resolution comment.
// The comment becomes a Response row; the caller becomes the assignee when
// none is set. Response, history, notification and the status change commit
// together or not at all.
func (s *Service) Resolve(id, callerID string, role models.Role, comment string) (*models.Complaint, error) {
	if comment == "" {
		return nil, apperr.Validation("a resolution comment is required")
	}

	c, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if c.Status == models.StatusResolved || c.Status.Terminal() {
		return nil, apperr.Conflict("complaint %s is already %s", c.ID, c.Status)
	}
	if err := canResolve(c, callerID, role); err != nil {
		return nil, err
	}

	oldStatus := c.Status
	c.Status = models.StatusResolved
	if c.AssigneeID == nil {
		assignee := callerID
		c.AssigneeID = &assignee
	}

	var pushed *models.Notification
	err = s.Storage.Transaction(func(tx storage.Storage) error {
		if err := tx.SaveComplaint(c); err != nil {
			return apperr.Storage(err, "save complaint")
		}
		if err := tx.CreateResponse(&models.Response{
			ComplaintID: c.ID,
			UserID:      callerID,
			Message:     comment,
		}); err != nil {
			return apperr.Storage(err, "create response")
		}
		if err := tx.CreateHistory(&models.ComplaintHistory{
			ComplaintID: c.ID,
			Status:      models.StatusResolved,
			Message:     "Complaint resolved: " + comment,
			UserID:      callerID,
		}); err != nil {
			return apperr.Storage(err, "create history")
		}
		n, err := notify.Create(tx, c.ClientID,
			fmt.Sprintf("Your complaint %q was resolved", c.Title),
			models.NotifyResolved,
			notify.StatusChangeMeta{ComplaintID: c.ID, From: oldStatus, To: models.StatusResolved})
		if err != nil {
			return err
		}
		pushed = n
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.pushAll(pushed)
	s.sendMail(mailer.TemplateResolved, c.ClientID, map[string]string{
		"Title": c.Title, "Comment": comment,
	})
	return c, nil
}

// RespondToResolution records the owning client's verdict on a RESOLVED
// complaint: APPROVE closes it, REJECT reopens it as IN_PROGRESS. History,
// a Response summarizing the decision, and a notification to the assignee
// are written atomically with the status change.
func (s *Service) RespondToResolution(id, callerID string, action ResolutionAction, feedback string) (*models.Complaint, error) {
	if action != ActionApprove && action != ActionReject {
		return nil, apperr.Validation("action must be APPROVE or REJECT")
	}

	c, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if err := canRespond(c, callerID); err != nil {
		return nil, err
	}
	if c.Status != models.StatusResolved {
		return nil, apperr.Conflict("complaint %s is %s, not RESOLVED", c.ID, c.Status)
	}

	newStatus := models.StatusClosed
	summary := "Client approved the resolution"
	if action == ActionReject {
		newStatus = models.StatusInProgress
		summary = "Client rejected the resolution"
	}
	if feedback != "" {
		summary += ": " + feedback
	}
	c.Status = newStatus

	var pushed *models.Notification
	err = s.Storage.Transaction(func(tx storage.Storage) error {
		if err := tx.SaveComplaint(c); err != nil {
			return apperr.Storage(err, "save complaint")
		}
		if err := tx.CreateHistory(&models.ComplaintHistory{
			ComplaintID: c.ID,
			Status:      newStatus,
			Message:     summary,
			UserID:      callerID,
		}); err != nil {
			return apperr.Storage(err, "create history")
		}
		if err := tx.CreateResponse(&models.Response{
			ComplaintID: c.ID,
			UserID:      callerID,
			Message:     summary,
		}); err != nil {
			return apperr.Storage(err, "create response")
		}
		if c.AssigneeID != nil {
			n, err := notify.Create(tx, *c.AssigneeID,
				fmt.Sprintf("Complaint %q: %s", c.Title, summary),
				models.NotifyStatusUpdated,
				notify.StatusChangeMeta{ComplaintID: c.ID, From: models.StatusResolved, To: newStatus})
			if err != nil {
				return err
			}
			pushed = n
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.pushAll(pushed)
	return c, nil
}

// Delete removes a complaint with its history and responses in one
// transaction. Related notifications and attachment blobs are cleaned up
// after commit, best effort. Staff deletion notifies the owning client.
func (s *Service) Delete(id, callerID string, role models.Role) error {
	c, err := s.Get(id)
	if err != nil {
		return err
	}
	if err := canDelete(c, callerID, role); err != nil {
		return err
	}

	var pushed *models.Notification
	err = s.Storage.Transaction(func(tx storage.Storage) error {
		if err := tx.DeleteComplaintRelations(c.ID); err != nil {
			return apperr.Storage(err, "delete complaint relations")
		}
		if err := tx.DeleteComplaint(c.ID); err != nil {
			return apperr.Storage(err, "delete complaint")
		}
		if role.Staff() && callerID != c.ClientID {
			n, err := notify.Create(tx, c.ClientID,
				fmt.Sprintf("Your complaint %q was removed", c.Title),
				models.NotifyComplaintDeleted,
				notify.DeletionMeta{ComplaintID: c.ID})
			if err != nil {
				return err
			}
			pushed = n
		}
		return nil
	})
	if err != nil {
		return err
	}

	// Best-effort cleanup outside the transaction.
	if err := s.Storage.DeleteNotificationsForComplaint(c.ID); err != nil {
		log.Printf("ERROR: Failed to clean notifications for complaint %s: %v", c.ID, err)
	}
	if s.Blob != nil {
		for _, url := range c.Attachments {
			if err := s.Blob.Remove(url); err != nil {
				log.Printf("ERROR: Failed to remove attachment %s: %v", url, err)
			}
		}
	}

	s.pushAll(pushed)
	return nil
}

func validatePatch(p Patch) error {
	switch {
	case p.Title != nil && (*p.Title == "" || len(*p.Title) > config.MaxTitleLen):
		return apperr.Validation("title must be 1-%d characters", config.MaxTitleLen)
	case p.Description != nil && (*p.Description == "" || len(*p.Description) > config.MaxDescriptionLen):
		return apperr.Validation("description must be 1-%d characters", config.MaxDescriptionLen)
	case p.Category != nil && !p.Category.Valid():
		return apperr.Validation("invalid category %q", *p.Category)
	case p.Priority != nil && !p.Priority.Valid():
		return apperr.Validation("invalid priority %q", *p.Priority)
	case p.Status != nil && !p.Status.Valid():
		return apperr.Validation("invalid status %q", *p.Status)
	}
	return nil
}

func applyPatch(c *models.Complaint, p Patch) {
	if p.Title != nil {
		c.Title = *p.Title
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	if p.Category != nil {
		c.Category = *p.Category
	}
	if p.Priority != nil {
		c.Priority = *p.Priority
	}
	if p.Status != nil {
		c.Status = *p.Status
	}
	if p.AssigneeID != nil {
		c.AssigneeID = p.AssigneeID
	}
}

// staffUser loads a user and verifies they are assignable staff.
func (s *Service) staffUser(id string) (*models.User, error) {
	user, err := s.Storage.GetUserByID(id)
	if err != nil {
		return nil, apperr.Storage(err, "get user")
	}
	if user == nil {
		return nil, apperr.NotFound("user %s not found", id)
	}
	if !user.Role.Staff() {
		return nil, apperr.Validation("user %s has role %s and cannot be assigned complaints", id, user.Role)
	}
	return user, nil
}
