package storage

import (
	"errors"
	"log"

	"projectpulse/backend/internal/models"

	"gorm.io/gorm"
)

// CreateComplaint inserts a new complaint row.
func (s *Service) CreateComplaint(c *models.Complaint) error {
	if c.Status == "" {
		c.Status = models.StatusPending
	}
	if err := s.DB.Create(c).Error; err != nil {
		log.Printf("ERROR: Failed to create complaint for project %s: %v", c.ProjectID, err)
		return err
	}
	return nil
}

// GetComplaintByID returns the complaint or nil when it does not exist.
func (s *Service) GetComplaintByID(id string) (*models.Complaint, error) {
	var c models.Complaint
	err := s.DB.Where("id = ?", id).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		log.Printf("ERROR: Failed to get complaint %s: %v", id, err)
		return nil, err
	}
	return &c, nil
}

// SaveComplaint persists all fields of an existing complaint.
func (s *Service) SaveComplaint(c *models.Complaint) error {
	return s.DB.Save(c).Error
}

// DeleteComplaint removes the complaint row itself. Related history,
// responses and notifications are removed via DeleteComplaintRelations.
func (s *Service) DeleteComplaint(id string) error {
	return s.DB.Where("id = ?", id).Delete(&models.Complaint{}).Error
}

// ListComplaints returns complaints matching the filter, newest first.
func (s *Service) ListComplaints(filter ComplaintFilter) ([]models.Complaint, error) {
	q := s.DB.Model(&models.Complaint{})
	if filter.ClientID != "" {
		q = q.Where("client_id = ?", filter.ClientID)
	}
	if filter.AssigneeID != "" {
		q = q.Where("assignee_id = ?", filter.AssigneeID)
	}
	if filter.ProjectID != "" {
		q = q.Where("project_id = ?", filter.ProjectID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	var out []models.Complaint
	if err := q.Order("created_at desc").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ListUnassignedPending returns PENDING complaints without an assignee,
// oldest first — the order the workload balancer consumes them in.
func (s *Service) ListUnassignedPending() ([]models.Complaint, error) {
	var out []models.Complaint
	err := s.DB.Where("status = ? AND assignee_id IS NULL", models.StatusPending).
		Order("created_at asc").
		Find(&out).Error
	if err != nil {
		log.Printf("ERROR: Failed to list unassigned pending complaints: %v", err)
		return nil, err
	}
	return out, nil
}

// OpenCountsByAssignee returns the number of open (PENDING or IN_PROGRESS)
// complaints per assignee.
func (s *Service) OpenCountsByAssignee() (map[string]int64, error) {
	rows := []struct {
		AssigneeID string
		Total      int64
	}{}
	err := s.DB.Model(&models.Complaint{}).
		Select("assignee_id, count(*) as total").
		Where("assignee_id IS NOT NULL AND status IN ?", []models.Status{models.StatusPending, models.StatusInProgress}).
		Group("assignee_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.AssigneeID] = r.Total
	}
	return counts, nil
}

// CreateHistory appends one audit entry. Entries are never updated.
func (s *Service) CreateHistory(h *models.ComplaintHistory) error {
	return s.DB.Create(h).Error
}

// CreateResponse appends one timeline message.
func (s *Service) CreateResponse(r *models.Response) error {
	return s.DB.Create(r).Error
}

// GetComplaintHistory returns the audit trail oldest first.
func (s *Service) GetComplaintHistory(complaintID string) ([]models.ComplaintHistory, error) {
	var out []models.ComplaintHistory
	if err := s.DB.Where("complaint_id = ?", complaintID).Order("created_at asc").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// GetComplaintResponses returns the timeline oldest first.
func (s *Service) GetComplaintResponses(complaintID string) ([]models.Response, error) {
	var out []models.Response
	if err := s.DB.Where("complaint_id = ?", complaintID).Order("created_at asc").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteComplaintRelations removes history and response rows belonging to a
// complaint. Used by the delete cascade inside the same transaction.
func (s *Service) DeleteComplaintRelations(complaintID string) error {
	if err := s.DB.Where("complaint_id = ?", complaintID).Delete(&models.ComplaintHistory{}).Error; err != nil {
		return err
	}
	return s.DB.Where("complaint_id = ?", complaintID).Delete(&models.Response{}).Error
}
