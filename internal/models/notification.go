package models

import "gorm.io/gorm"

// Notification types.
const (
	NotificationOrder   = "order"
	NotificationPayment = "payment"
)

// Notification is an in-app notification record shown in the user's feed.
type Notification struct {
	ID      string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID  string `json:"user_id" gorm:"type:varchar(36);index"`
	Title   string `json:"title" gorm:"type:varchar(100)"`
	Message string `json:"message" gorm:"type:varchar(500)"`
	Type    string `json:"type" gorm:"type:varchar(20)"`
	IsRead  bool   `json:"is_read"`
	gorm.Model
}
