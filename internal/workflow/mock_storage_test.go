package workflow_test

import (
	"errors"
	"strings"
	"time"

	"projectpulse/backend/internal/models"
	"projectpulse/backend/internal/storage"

	"github.com/google/uuid"
)

// memStore is an in-memory storage.Storage. Transaction snapshots the state
// and restores it when fn fails, so tests can assert all-or-nothing
// semantics. failOn makes the named method return an error, which is how
// tests inject a fault mid-transaction.
type memStore struct {
	complaints    map[string]models.Complaint
	histories     []models.ComplaintHistory
	responses     []models.Response
	notifications []models.Notification
	audits        []models.AuditLog
	users         map[string]models.User

	nextID uint
	failOn string
}

func newMemStore() *memStore {
	return &memStore{
		complaints: make(map[string]models.Complaint),
		users:      make(map[string]models.User),
	}
}

func (m *memStore) fail(method string) error {
	if m.failOn == method {
		return errors.New("injected failure: " + method)
	}
	return nil
}

func (m *memStore) snapshot() *memStore {
	cp := &memStore{
		complaints:    make(map[string]models.Complaint, len(m.complaints)),
		histories:     append([]models.ComplaintHistory(nil), m.histories...),
		responses:     append([]models.Response(nil), m.responses...),
		notifications: append([]models.Notification(nil), m.notifications...),
		audits:        append([]models.AuditLog(nil), m.audits...),
		users:         make(map[string]models.User, len(m.users)),
		nextID:        m.nextID,
	}
	for k, v := range m.complaints {
		cp.complaints[k] = v
	}
	for k, v := range m.users {
		cp.users[k] = v
	}
	return cp
}

func (m *memStore) restore(s *memStore) {
	m.complaints = s.complaints
	m.histories = s.histories
	m.responses = s.responses
	m.notifications = s.notifications
	m.audits = s.audits
	m.users = s.users
	m.nextID = s.nextID
}

func (m *memStore) Transaction(fn func(storage.Storage) error) error {
	saved := m.snapshot()
	if err := fn(m); err != nil {
		m.restore(saved)
		return err
	}
	return nil
}

func (m *memStore) CreateComplaint(c *models.Complaint) error {
	if err := m.fail("CreateComplaint"); err != nil {
		return err
	}
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	m.complaints[c.ID] = *c
	return nil
}

func (m *memStore) GetComplaintByID(id string) (*models.Complaint, error) {
	if err := m.fail("GetComplaintByID"); err != nil {
		return nil, err
	}
	c, ok := m.complaints[id]
	if !ok {
		return nil, nil
	}
	cp := c
	return &cp, nil
}

func (m *memStore) SaveComplaint(c *models.Complaint) error {
	if err := m.fail("SaveComplaint"); err != nil {
		return err
	}
	m.complaints[c.ID] = *c
	return nil
}

func (m *memStore) DeleteComplaint(id string) error {
	if err := m.fail("DeleteComplaint"); err != nil {
		return err
	}
	delete(m.complaints, id)
	return nil
}

func (m *memStore) ListComplaints(filter storage.ComplaintFilter) ([]models.Complaint, error) {
	var out []models.Complaint
	for _, c := range m.complaints {
		if filter.ClientID != "" && c.ClientID != filter.ClientID {
			continue
		}
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (m *memStore) ListUnassignedPending() ([]models.Complaint, error) {
	var out []models.Complaint
	for _, c := range m.complaints {
		if c.Status == models.StatusPending && c.AssigneeID == nil {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memStore) OpenCountsByAssignee() (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, c := range m.complaints {
		if c.AssigneeID != nil && c.Open() {
			counts[*c.AssigneeID]++
		}
	}
	return counts, nil
}

func (m *memStore) CreateHistory(h *models.ComplaintHistory) error {
	if err := m.fail("CreateHistory"); err != nil {
		return err
	}
	m.nextID++
	h.ID = m.nextID
	h.CreatedAt = time.Now()
	m.histories = append(m.histories, *h)
	return nil
}

func (m *memStore) CreateResponse(r *models.Response) error {
	if err := m.fail("CreateResponse"); err != nil {
		return err
	}
	m.nextID++
	r.ID = m.nextID
	r.CreatedAt = time.Now()
	m.responses = append(m.responses, *r)
	return nil
}

func (m *memStore) GetComplaintHistory(complaintID string) ([]models.ComplaintHistory, error) {
	var out []models.ComplaintHistory
	for _, h := range m.histories {
		if h.ComplaintID == complaintID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (m *memStore) GetComplaintResponses(complaintID string) ([]models.Response, error) {
	var out []models.Response
	for _, r := range m.responses {
		if r.ComplaintID == complaintID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memStore) DeleteComplaintRelations(complaintID string) error {
	if err := m.fail("DeleteComplaintRelations"); err != nil {
		return err
	}
	var hs []models.ComplaintHistory
	for _, h := range m.histories {
		if h.ComplaintID != complaintID {
			hs = append(hs, h)
		}
	}
	m.histories = hs
	var rs []models.Response
	for _, r := range m.responses {
		if r.ComplaintID != complaintID {
			rs = append(rs, r)
		}
	}
	m.responses = rs
	return nil
}

func (m *memStore) CreateNotification(n *models.Notification) error {
	if err := m.fail("CreateNotification"); err != nil {
		return err
	}
	m.nextID++
	n.ID = m.nextID
	n.CreatedAt = time.Now()
	m.notifications = append(m.notifications, *n)
	return nil
}

func (m *memStore) GetNotificationByID(id uint) (*models.Notification, error) {
	for _, n := range m.notifications {
		if n.ID == id {
			cp := n
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) ListNotificationsForUser(userID string, unreadOnly bool) ([]models.Notification, error) {
	var out []models.Notification
	for _, n := range m.notifications {
		if n.UserID != userID {
			continue
		}
		if unreadOnly && n.IsRead {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func (m *memStore) SaveNotification(n *models.Notification) error {
	for i := range m.notifications {
		if m.notifications[i].ID == n.ID {
			m.notifications[i] = *n
		}
	}
	return nil
}

func (m *memStore) DeleteNotification(id uint) error {
	var out []models.Notification
	for _, n := range m.notifications {
		if n.ID != id {
			out = append(out, n)
		}
	}
	m.notifications = out
	return nil
}

func (m *memStore) DeleteNotificationsForComplaint(complaintID string) error {
	if err := m.fail("DeleteNotificationsForComplaint"); err != nil {
		return err
	}
	var out []models.Notification
	for _, n := range m.notifications {
		if n.Type == models.NotifyComplaintDeleted ||
			!strings.Contains(n.Metadata, `"complaint_id":"`+complaintID+`"`) {
			out = append(out, n)
		}
	}
	m.notifications = out
	return nil
}

func (m *memStore) GetUserByID(id string) (*models.User, error) {
	if err := m.fail("GetUserByID"); err != nil {
		return nil, err
	}
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	cp := u
	return &cp, nil
}

func (m *memStore) ListStaffByRoles(roles ...models.Role) ([]models.User, error) {
	var out []models.User
	for _, u := range m.users {
		for _, r := range roles {
			if u.Role == r {
				out = append(out, u)
				break
			}
		}
	}
	return out, nil
}

func (m *memStore) CreateAuditEntry(a *models.AuditLog) error {
	m.nextID++
	a.ID = m.nextID
	m.audits = append(m.audits, *a)
	return nil
}

func (m *memStore) CountComplaints() (int64, error) {
	return int64(len(m.complaints)), nil
}

func (m *memStore) CountComplaintsGroupedBy(column string) (map[string]int64, error) {
	out := make(map[string]int64)
	for _, c := range m.complaints {
		switch column {
		case "status":
			out[string(c.Status)]++
		case "category":
			out[string(c.Category)]++
		case "priority":
			out[string(c.Priority)]++
		}
	}
	return out, nil
}

func (m *memStore) AverageResolutionHours() (float64, error) { return 0, nil }

func (m *memStore) PublishPushEvent(ev models.PushEvent) error { return nil }

func (m *memStore) CacheGet(key string) (string, error) { return "", nil }

func (m *memStore) CacheSet(key, value string, ttl time.Duration) error { return nil }

// notificationsOfType filters the store's notifications for assertions.
func (m *memStore) notificationsOfType(t models.NotificationType) []models.Notification {
	var out []models.Notification
	for _, n := range m.notifications {
		if n.Type == t {
			out = append(out, n)
		}
	}
	return out
}

// addUser seeds one user and returns its id.
func (m *memStore) addUser(id string, role models.Role) string {
	m.users[id] = models.User{ID: id, Email: id + "@example.com", Name: id, Role: role}
	return id
}
