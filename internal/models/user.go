package models

import "gorm.io/gorm"

// User represents a customer of the store.
type User struct {
	ID          string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string `json:"name" gorm:"type:varchar(100)" validate:"required,min=2,max=100"`
	Email       string `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	PhoneNumber string `json:"phone_number" gorm:"type:varchar(20)" validate:"omitempty,max=20"`
	Password    string `gorm:"type:varchar(255)" validate:"required,min=6"` // No json tag for security
	gorm.Model         // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// UserContext carries the authenticated user's identity through core
// operations. It is always passed explicitly as a parameter rather than read
// from ambient request state. A nil *UserContext means a guest.
type UserContext struct {
	ID          string
	Name        string
	Email       string
	PhoneNumber string
}
