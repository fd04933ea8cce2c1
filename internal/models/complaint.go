package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq" // needed for pq.StringArray
	"gorm.io/gorm"
)

// Status enumerates complaint lifecycle states. Transitions between them
// are enforced by the workflow engine, not the model.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusInProgress Status = "IN_PROGRESS"
	StatusResolved   Status = "RESOLVED"
	StatusClosed     Status = "CLOSED"
	StatusWithdrawn  Status = "WITHDRAWN"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusResolved, StatusClosed, StatusWithdrawn:
		return true
	}
	return false
}

// Terminal reports whether no further transitions are allowed from s.
func (s Status) Terminal() bool {
	return s == StatusClosed || s == StatusWithdrawn
}

// Category enumerates complaint categories.
type Category string

const (
	CategoryBug           Category = "BUG"
	CategoryDelay         Category = "DELAY"
	CategoryQuality       Category = "QUALITY"
	CategoryCommunication Category = "COMMUNICATION"
	CategoryOther         Category = "OTHER"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryBug, CategoryDelay, CategoryQuality, CategoryCommunication, CategoryOther:
		return true
	}
	return false
}

// Priority enumerates urgency levels.
type Priority string

const (
	PriorityLow      Priority = "LOW"
	PriorityMedium   Priority = "MEDIUM"
	PriorityHigh     Priority = "HIGH"
	PriorityCritical Priority = "CRITICAL"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// Complaint is a ticket raised by a client against a project. It is the
// aggregate root for history and response rows, which are written together
// with the complaint inside one transaction on every transition.
type Complaint struct {
	ID          string         `gorm:"primaryKey" json:"id"`
	ProjectID   string         `gorm:"type:text;not null;index" json:"project_id"`
	ClientID    string         `gorm:"type:text;not null;index" json:"client_id"`
	AssigneeID  *string        `gorm:"index" json:"assignee_id"`
	Title       string         `gorm:"type:text;not null" json:"title"`
	Description string         `gorm:"type:text;not null" json:"description"`
	Category    Category       `gorm:"type:text;not null" json:"category"`
	Priority    Priority       `gorm:"type:text;not null;default:MEDIUM" json:"priority"`
	Status      Status         `gorm:"type:text;not null;default:PENDING;index" json:"status"`
	Attachments pq.StringArray `gorm:"type:text[]" json:"attachments"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// Open reports whether the complaint still accepts staff work on it.
func (c *Complaint) Open() bool {
	return c.Status == StatusPending || c.Status == StatusInProgress
}

// BeforeCreate generates a UUID when the ID is not set yet.
func (c *Complaint) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return
}
