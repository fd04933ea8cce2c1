package storage

import (
	"errors"
	"log"

	"projectpulse/backend/internal/models"

	"gorm.io/gorm"
)

func (s *Service) CreateNotification(n *models.Notification) error {
	if err := s.DB.Create(n).Error; err != nil {
		log.Printf("ERROR: Failed to create notification for user %s: %v", n.UserID, err)
		return err
	}
	return nil
}

// GetNotificationByID returns the notification or nil when absent.
func (s *Service) GetNotificationByID(id uint) (*models.Notification, error) {
	var n models.Notification
	err := s.DB.First(&n, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// ListNotificationsForUser returns a user's inbox, newest first.
func (s *Service) ListNotificationsForUser(userID string, unreadOnly bool) ([]models.Notification, error) {
	q := s.DB.Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}
	var out []models.Notification
	if err := q.Order("created_at desc").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) SaveNotification(n *models.Notification) error {
	return s.DB.Save(n).Error
}

func (s *Service) DeleteNotification(id uint) error {
	return s.DB.Delete(&models.Notification{}, id).Error
}

// DeleteNotificationsForComplaint removes notifications whose metadata points
// at the given complaint, sparing the deletion notice itself. Best effort:
// the caller tolerates a failure here without aborting the surrounding delete.
func (s *Service) DeleteNotificationsForComplaint(complaintID string) error {
	return s.DB.Where("metadata::jsonb ->> 'complaint_id' = ? AND type <> ?", complaintID, models.NotifyComplaintDeleted).
		Delete(&models.Notification{}).Error
}
