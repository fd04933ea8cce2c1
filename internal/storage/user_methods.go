package storage

import (
	"errors"
	"log"

	"projectpulse/backend/internal/models"

	"gorm.io/gorm"
)

// GetUserByID returns the user or nil when absent.
func (s *Service) GetUserByID(id string) (*models.User, error) {
	var user models.User
	err := s.DB.Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		log.Printf("ERROR: Failed to get user %s: %v", id, err)
		return nil, err
	}
	return &user, nil
}

// ListStaffByRoles returns users holding any of the given roles, ordered by
// id ascending. The balancer depends on this ordering for deterministic
// round-robin assignment.
func (s *Service) ListStaffByRoles(roles ...models.Role) ([]models.User, error) {
	var out []models.User
	err := s.DB.Where("role IN ?", roles).Order("id asc").Find(&out).Error
	if err != nil {
		log.Printf("ERROR: Failed to list staff: %v", err)
		return nil, err
	}
	return out, nil
}

func (s *Service) CreateAuditEntry(a *models.AuditLog) error {
	return s.DB.Create(a).Error
}
