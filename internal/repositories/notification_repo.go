package repositories

import "tunazugba/internal/models"

// NotificationRepository defines the interface for in-app notification
// records.
type NotificationRepository interface {
	Create(n *models.Notification) error
	ListForUser(userID string, limit int) ([]models.Notification, error)
	MarkRead(userID, id string) error
}
