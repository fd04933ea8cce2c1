package storage

import (
	"context"
	"time"

	"projectpulse/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Storage is the data-access boundary consumed by the workflow, assignment,
// notify and dashboard services. Transaction returns a Storage bound to one
// database transaction; every multi-row lifecycle operation runs inside it.
type Storage interface {
	Transaction(fn func(Storage) error) error

	// Complaints
	CreateComplaint(c *models.Complaint) error
	GetComplaintByID(id string) (*models.Complaint, error)
	SaveComplaint(c *models.Complaint) error
	DeleteComplaint(id string) error
	ListComplaints(filter ComplaintFilter) ([]models.Complaint, error)
	ListUnassignedPending() ([]models.Complaint, error)
	OpenCountsByAssignee() (map[string]int64, error)

	// History and responses (append-only)
	CreateHistory(h *models.ComplaintHistory) error
	CreateResponse(r *models.Response) error
	GetComplaintHistory(complaintID string) ([]models.ComplaintHistory, error)
	GetComplaintResponses(complaintID string) ([]models.Response, error)
	DeleteComplaintRelations(complaintID string) error

	// Notifications
	CreateNotification(n *models.Notification) error
	GetNotificationByID(id uint) (*models.Notification, error)
	ListNotificationsForUser(userID string, unreadOnly bool) ([]models.Notification, error)
	SaveNotification(n *models.Notification) error
	DeleteNotification(id uint) error
	DeleteNotificationsForComplaint(complaintID string) error

	// Users and audit
	GetUserByID(id string) (*models.User, error)
	ListStaffByRoles(roles ...models.Role) ([]models.User, error)
	CreateAuditEntry(a *models.AuditLog) error

	// Dashboard aggregation
	CountComplaints() (int64, error)
	CountComplaintsGroupedBy(column string) (map[string]int64, error)
	AverageResolutionHours() (float64, error)

	// Redis-backed fast paths
	PublishPushEvent(ev models.PushEvent) error
	CacheGet(key string) (string, error)
	CacheSet(key, value string, ttl time.Duration) error
}

// ComplaintFilter narrows ListComplaints. Zero values mean "no constraint".
type ComplaintFilter struct {
	ClientID   string
	AssigneeID string
	ProjectID  string
	Status     models.Status
}

// Service implements Storage over PostgreSQL (gorm) and Redis.
type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
	Ctx   context.Context
}

// NewStorageService Constructor
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
		Ctx:   context.Background(),
	}
}

// Transaction runs fn against a Service bound to a single database
// transaction. Redis operations inside fn are NOT transactional; callers
// publish push events only after a successful commit.
func (s *Service) Transaction(fn func(Storage) error) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		return fn(&Service{DB: tx, Redis: s.Redis, Ctx: s.Ctx})
	})
}
