// Package assignment routes complaints to staff: manual assignment by an
// admin or support manager, workload listing, and bulk round-robin
// balancing of unassigned complaints.
package assignment

import (
	"fmt"
	"log"
	"sort"

	"projectpulse/backend/internal/apperr"
	"projectpulse/backend/internal/mailer"
	"projectpulse/backend/internal/models"
	"projectpulse/backend/internal/notify"
	"projectpulse/backend/internal/storage"
)

// Pusher delivers a committed notification to the real-time channel.
type Pusher interface {
	Push(n *models.Notification)
}

// Service implements the assignment policy.
type Service struct {
	Storage storage.Storage
	Push    Pusher
	Mail    mailer.Gateway
}

func NewService(s storage.Storage) *Service {
	return &Service{Storage: s}
}

// StaffWorkload is one row of the workload listing.
type StaffWorkload struct {
	UserID             string      `json:"user_id"`
	Name               string      `json:"name"`
	Role               models.Role `json:"role"`
	ActiveComplaints   int64       `json:"active_complaints"`
	WorkloadPercentage float64     `json:"workload_percentage"`
}

// BalanceResult reports how many complaints a balancing run assigned.
type BalanceResult struct {
	AssignmentsCount int `json:"assignments_count"`
}

func canManage(role models.Role) error {
	if role == models.RoleAdmin || role == models.RoleSupportManager {
		return nil
	}
	return apperr.Forbidden("only admins and support managers may manage assignments")
}

// Assign sets the assignee of one complaint. A PENDING complaint moves to
// IN_PROGRESS with a history row; the new assignee, the client, and any
// prior assignee are notified. All writes share one transaction.
func (s *Service) Assign(complaintID, assigneeID, callerID string, role models.Role) (*models.Complaint, error) {
	if err := canManage(role); err != nil {
		return nil, err
	}

	c, err := s.Storage.GetComplaintByID(complaintID)
	if err != nil {
		return nil, apperr.Storage(err, "get complaint")
	}
	if c == nil {
		return nil, apperr.NotFound("complaint %s not found", complaintID)
	}
	if c.Status.Terminal() {
		return nil, apperr.Conflict("complaint %s is %s and cannot be assigned", c.ID, c.Status)
	}

	assignee, err := s.Storage.GetUserByID(assigneeID)
	if err != nil {
		return nil, apperr.Storage(err, "get user")
	}
	if assignee == nil {
		return nil, apperr.NotFound("user %s not found", assigneeID)
	}
	if !assignee.Role.Staff() {
		return nil, apperr.Validation("user %s has role %s and cannot be assigned complaints", assigneeID, assignee.Role)
	}

	var prior string
	if c.AssigneeID != nil {
		prior = *c.AssigneeID
	}
	oldStatus := c.Status
	c.AssigneeID = &assignee.ID
	if c.Status == models.StatusPending {
		c.Status = models.StatusInProgress
	}

	pushed, err := s.assignTx(c, assignee, callerID, oldStatus, prior, models.AuditMethodManual)
	if err != nil {
		return nil, err
	}

	s.pushAll(pushed)
	s.sendAssignedMail(assignee, c)
	return c, nil
}

// ListStaffWorkloads returns all assignable staff with their open complaint
// counts and share of the total open load, least loaded first.
func (s *Service) ListStaffWorkloads(role models.Role) ([]StaffWorkload, error) {
	if err := canManage(role); err != nil {
		return nil, err
	}

	staff, err := s.Storage.ListStaffByRoles(models.RoleAdmin, models.RoleSupport, models.RoleSupportManager)
	if err != nil {
		return nil, apperr.Storage(err, "list staff")
	}
	counts, err := s.Storage.OpenCountsByAssignee()
	if err != nil {
		return nil, apperr.Storage(err, "count open complaints")
	}

	var total int64
	for _, u := range staff {
		total += counts[u.ID]
	}

	out := make([]StaffWorkload, 0, len(staff))
	for _, u := range staff {
		w := StaffWorkload{
			UserID:           u.ID,
			Name:             u.Name,
			Role:             u.Role,
			ActiveComplaints: counts[u.ID],
		}
		if total > 0 {
			w.WorkloadPercentage = float64(w.ActiveComplaints) / float64(total) * 100
		}
		out = append(out, w)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ActiveComplaints < out[j].ActiveComplaints
	})
	return out, nil
}

// Balance distributes all unassigned PENDING complaints (oldest first)
// across SUPPORT staff (id order) round-robin. Each assignment is its own
// transaction; one failure is logged and skipped, earlier assignments stay
// committed. Empty input on either side is a no-op, not an error.
func (s *Service) Balance(callerID string, role models.Role) (BalanceResult, error) {
	if err := canManage(role); err != nil {
		return BalanceResult{}, err
	}

	complaints, err := s.Storage.ListUnassignedPending()
	if err != nil {
		return BalanceResult{}, apperr.Storage(err, "list unassigned complaints")
	}
	staff, err := s.Storage.ListStaffByRoles(models.RoleSupport)
	if err != nil {
		return BalanceResult{}, apperr.Storage(err, "list support staff")
	}
	if len(complaints) == 0 || len(staff) == 0 {
		return BalanceResult{}, nil
	}

	assigned := 0
	for i := range complaints {
		c := &complaints[i]
		assignee := staff[i%len(staff)]

		oldStatus := c.Status
		c.AssigneeID = &assignee.ID
		c.Status = models.StatusInProgress

		pushed, err := s.assignTx(c, &assignee, callerID, oldStatus, "", models.AuditMethodBalancing)
		if err != nil {
			log.Printf("ERROR: Failed to assign complaint %s to %s: %v", c.ID, assignee.ID, err)
			continue
		}
		assigned++
		s.pushAll(pushed)
		s.sendAssignedMail(&assignee, c)
	}
	return BalanceResult{AssignmentsCount: assigned}, nil
}

// assignTx commits one assignment: the complaint mutation, a history row
// when the status changed, notifications, and the audit entry.
func (s *Service) assignTx(c *models.Complaint, assignee *models.User, callerID string, oldStatus models.Status, prior, method string) ([]*models.Notification, error) {
	var pushed []*models.Notification
	err := s.Storage.Transaction(func(tx storage.Storage) error {
		if err := tx.SaveComplaint(c); err != nil {
			return apperr.Storage(err, "save complaint")
		}
		if c.Status != oldStatus {
			if err := tx.CreateHistory(&models.ComplaintHistory{
				ComplaintID: c.ID,
				Status:      c.Status,
				Message:     fmt.Sprintf("Assigned to %s, status changed from %s to %s", assignee.Name, oldStatus, c.Status),
				UserID:      callerID,
			}); err != nil {
				return apperr.Storage(err, "create history")
			}
		}

		n, err := notify.Create(tx, assignee.ID,
			fmt.Sprintf("Complaint %q was assigned to you", c.Title),
			models.NotifyAssigned,
			notify.AssignmentMeta{ComplaintID: c.ID, AssigneeID: assignee.ID})
		if err != nil {
			return err
		}
		pushed = append(pushed, n)

		n, err = notify.Create(tx, c.ClientID,
			fmt.Sprintf("Your complaint %q is now %s", c.Title, c.Status),
			models.NotifyStatusUpdated,
			notify.StatusChangeMeta{ComplaintID: c.ID, From: oldStatus, To: c.Status})
		if err != nil {
			return err
		}
		pushed = append(pushed, n)

		if prior != "" && prior != assignee.ID {
			n, err = notify.Create(tx, prior,
				fmt.Sprintf("Complaint %q was reassigned to %s", c.Title, assignee.Name),
				models.NotifyAssigned,
				notify.AssignmentMeta{ComplaintID: c.ID, AssigneeID: assignee.ID})
			if err != nil {
				return err
			}
			pushed = append(pushed, n)
		}

		if err := tx.CreateAuditEntry(&models.AuditLog{
			ActorID: callerID,
			Action:  models.AuditActionAssign,
			Method:  method,
			Detail:  fmt.Sprintf("complaint %s -> %s", c.ID, assignee.ID),
		}); err != nil {
			return apperr.Storage(err, "create audit entry")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pushed, nil
}

func (s *Service) pushAll(ns []*models.Notification) {
	if s.Push == nil {
		return
	}
	for _, n := range ns {
		s.Push.Push(n)
	}
}

func (s *Service) sendAssignedMail(assignee *models.User, c *models.Complaint) {
	if s.Mail == nil || assignee.Email == "" {
		return
	}
	go func(email, name, title string) {
		err := s.Mail.Send(mailer.TemplateAssigned, email, map[string]string{
			"Name": name, "Title": title,
		})
		if err != nil {
			log.Printf("ERROR: Failed to send assignment email to %s: %v", email, err)
		}
	}(assignee.Email, assignee.Name, c.Title)
}
