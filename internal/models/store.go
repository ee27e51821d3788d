package models

import "gorm.io/gorm"

// StoreSetting holds the store's operating policy. A single row is expected;
// OpeningTime and ClosingTime use the "HH:MM" wall-clock format interpreted
// in Timezone.
type StoreSetting struct {
	ID          string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	IsOpen      bool   `json:"is_open"`
	OpeningTime string `json:"opening_time" gorm:"type:varchar(5)"`
	ClosingTime string `json:"closing_time" gorm:"type:varchar(5)"`
	ClosedDay   string `json:"closed_day" gorm:"type:varchar(10)"`
	Timezone    string `json:"timezone" gorm:"type:varchar(50)"`
	gorm.Model
}
