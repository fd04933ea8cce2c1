package assignment_test

import (
	"errors"
	"sort"
	"time"

	"projectpulse/backend/internal/models"
	"projectpulse/backend/internal/storage"
)

// assignStore is an in-memory storage.Storage that preserves insertion
// order for complaints and sorts staff by id, matching the ordering
// guarantees the balancer relies on. failComplaint makes SaveComplaint fail
// for one complaint id, to exercise best-effort batch semantics.
type assignStore struct {
	complaints    []models.Complaint
	users         map[string]models.User
	histories     []models.ComplaintHistory
	responses     []models.Response
	notifications []models.Notification
	audits        []models.AuditLog

	nextID        uint
	failComplaint string
}

func newAssignStore() *assignStore {
	return &assignStore{users: make(map[string]models.User)}
}

func (m *assignStore) addUser(id string, role models.Role) {
	m.users[id] = models.User{ID: id, Email: id + "@example.com", Name: id, Role: role}
}

func (m *assignStore) addComplaint(id, clientID string, status models.Status, assignee *string) {
	m.complaints = append(m.complaints, models.Complaint{
		ID:          id,
		ProjectID:   "proj-1",
		ClientID:    clientID,
		AssigneeID:  assignee,
		Title:       "complaint " + id,
		Description: "d",
		Category:    models.CategoryOther,
		Priority:    models.PriorityMedium,
		Status:      status,
		CreatedAt:   time.Now(),
	})
}

func (m *assignStore) Transaction(fn func(storage.Storage) error) error {
	saved := *m
	saved.complaints = append([]models.Complaint(nil), m.complaints...)
	saved.histories = append([]models.ComplaintHistory(nil), m.histories...)
	saved.notifications = append([]models.Notification(nil), m.notifications...)
	saved.audits = append([]models.AuditLog(nil), m.audits...)
	if err := fn(m); err != nil {
		*m = saved
		return err
	}
	return nil
}

func (m *assignStore) CreateComplaint(c *models.Complaint) error {
	m.complaints = append(m.complaints, *c)
	return nil
}

func (m *assignStore) GetComplaintByID(id string) (*models.Complaint, error) {
	for _, c := range m.complaints {
		if c.ID == id {
			cp := c
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *assignStore) SaveComplaint(c *models.Complaint) error {
	if c.ID == m.failComplaint {
		return errors.New("injected failure")
	}
	for i := range m.complaints {
		if m.complaints[i].ID == c.ID {
			m.complaints[i] = *c
			return nil
		}
	}
	m.complaints = append(m.complaints, *c)
	return nil
}

func (m *assignStore) DeleteComplaint(id string) error { return nil }

func (m *assignStore) ListComplaints(filter storage.ComplaintFilter) ([]models.Complaint, error) {
	return m.complaints, nil
}

func (m *assignStore) ListUnassignedPending() ([]models.Complaint, error) {
	var out []models.Complaint
	for _, c := range m.complaints {
		if c.Status == models.StatusPending && c.AssigneeID == nil {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *assignStore) OpenCountsByAssignee() (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, c := range m.complaints {
		if c.AssigneeID != nil && c.Open() {
			counts[*c.AssigneeID]++
		}
	}
	return counts, nil
}

func (m *assignStore) CreateHistory(h *models.ComplaintHistory) error {
	m.nextID++
	h.ID = m.nextID
	m.histories = append(m.histories, *h)
	return nil
}

func (m *assignStore) CreateResponse(r *models.Response) error {
	m.responses = append(m.responses, *r)
	return nil
}

func (m *assignStore) GetComplaintHistory(complaintID string) ([]models.ComplaintHistory, error) {
	var out []models.ComplaintHistory
	for _, h := range m.histories {
		if h.ComplaintID == complaintID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (m *assignStore) GetComplaintResponses(complaintID string) ([]models.Response, error) {
	return nil, nil
}

func (m *assignStore) DeleteComplaintRelations(complaintID string) error { return nil }

func (m *assignStore) CreateNotification(n *models.Notification) error {
	m.nextID++
	n.ID = m.nextID
	m.notifications = append(m.notifications, *n)
	return nil
}

func (m *assignStore) GetNotificationByID(id uint) (*models.Notification, error) { return nil, nil }

func (m *assignStore) ListNotificationsForUser(userID string, unreadOnly bool) ([]models.Notification, error) {
	var out []models.Notification
	for _, n := range m.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (m *assignStore) SaveNotification(n *models.Notification) error { return nil }

func (m *assignStore) DeleteNotification(id uint) error { return nil }

func (m *assignStore) DeleteNotificationsForComplaint(complaintID string) error { return nil }

func (m *assignStore) GetUserByID(id string) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	cp := u
	return &cp, nil
}

func (m *assignStore) ListStaffByRoles(roles ...models.Role) ([]models.User, error) {
	var out []models.User
	for _, u := range m.users {
		for _, r := range roles {
			if u.Role == r {
				out = append(out, u)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *assignStore) CreateAuditEntry(a *models.AuditLog) error {
	m.audits = append(m.audits, *a)
	return nil
}

func (m *assignStore) CountComplaints() (int64, error) { return int64(len(m.complaints)), nil }

func (m *assignStore) CountComplaintsGroupedBy(column string) (map[string]int64, error) {
	return nil, nil
}

func (m *assignStore) AverageResolutionHours() (float64, error) { return 0, nil }

func (m *assignStore) PublishPushEvent(ev models.PushEvent) error { return nil }

func (m *assignStore) CacheGet(key string) (string, error) { return "", nil }

func (m *assignStore) CacheSet(key, value string, ttl time.Duration) error { return nil }
