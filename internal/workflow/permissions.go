package workflow

import (
	"projectpulse/backend/internal/apperr"
	"projectpulse/backend/internal/models"
)

// Authorization for every lifecycle operation lives here, expressed against
// the closed role enum. The route layer never makes these decisions.

// canUpdate enforces the edit guards: the owning client may edit fields only
// while PENDING; staff may edit fields in any open state and may override
// the status of any non-terminal complaint. Clients never touch status or
// assignee.
func canUpdate(c *models.Complaint, callerID string, role models.Role, p Patch) error {
	if role.Staff() {
		if p.touchesFields() && !c.Open() {
			return apperr.Conflict("complaint %s is %s and no longer editable", c.ID, c.Status)
		}
		if (p.Status != nil || p.AssigneeID != nil) && c.Status.Terminal() {
			return apperr.Conflict("complaint %s is in terminal state %s", c.ID, c.Status)
		}
		return nil
	}

	if c.ClientID != callerID {
		return apperr.Forbidden("only the owning client or staff may update a complaint")
	}
	if p.Status != nil || p.AssigneeID != nil {
		return apperr.Forbidden("clients may not change status or assignee")
	}
	if c.Status != models.StatusPending {
		return apperr.Conflict("complaint %s is already %s; clients may edit only while PENDING", c.ID, c.Status)
	}
	return nil
}

// canResolve allows the current assignee or an admin. An unassigned
// complaint can be resolved only by an admin, who becomes its assignee.
func canResolve(c *models.Complaint, callerID string, role models.Role) error {
	if role == models.RoleAdmin {
		return nil
	}
	if c.AssigneeID != nil && *c.AssigneeID == callerID {
		return nil
	}
	return apperr.Forbidden("only the assignee or an admin may resolve this complaint")
}

// canRespond allows only the owning client to approve or reject a resolution.
func canRespond(c *models.Complaint, callerID string) error {
	if c.ClientID != callerID {
		return apperr.Forbidden("only the owning client may respond to a resolution")
	}
	return nil
}

// canDelete allows an admin unconditionally, and the owning client while
// the complaint is still PENDING.
func canDelete(c *models.Complaint, callerID string, role models.Role) error {
	if role == models.RoleAdmin {
		return nil
	}
	if c.ClientID == callerID {
		if c.Status != models.StatusPending {
			return apperr.Conflict("complaint %s is %s; clients may withdraw only while PENDING", c.ID, c.Status)
		}
		return nil
	}
	return apperr.Forbidden("only the owning client or an admin may delete a complaint")
}
