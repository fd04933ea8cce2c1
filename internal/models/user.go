package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the closed set of user roles. Permission checks compare against
// these constants only, never raw strings from the request.
type Role string

const (
	RoleClient         Role = "CLIENT"
	RoleAdmin          Role = "ADMIN"
	RoleSupport        Role = "SUPPORT"
	RoleSupportManager Role = "SUPPORT_MANAGER"
)

// Valid reports whether the role is one of the known constants.
func (r Role) Valid() bool {
	switch r {
	case RoleClient, RoleAdmin, RoleSupport, RoleSupportManager:
		return true
	}
	return false
}

// Staff reports whether the role is eligible for complaint assignment.
func (r Role) Staff() bool {
	return r == RoleAdmin || r == RoleSupport || r == RoleSupportManager
}

// User is a system account. The lifecycle core only reads ID and Role;
// profile fields belong to the identity service.
type User struct {
	ID    string `gorm:"primaryKey" json:"id"`
	Email string `gorm:"uniqueIndex;not null" json:"email"`
	Name  string `json:"name"`
	Role  Role   `gorm:"type:text;not null;default:CLIENT" json:"role"`
}

// BeforeCreate generates a UUID when the ID is not set yet.
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return
}
