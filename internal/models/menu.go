package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MenuItem represents a dish on the menu. Stock is the authoritative count
// used by the inventory ledger; SalesCount feeds the bestseller ranking and
// is only incremented by order-driven stock decrements.
type MenuItem struct {
	ID          string          `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string          `json:"name" gorm:"type:varchar(100)" validate:"required,min=2,max=100"`
	Category    string          `json:"category" gorm:"type:varchar(50);index" validate:"omitempty,max=50"`
	Description string          `json:"description" gorm:"type:varchar(500)" validate:"omitempty,max=500"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(10,2)" validate:"required"`
	Stock       int             `json:"stock" validate:"gte=0"`
	ImageURL    string          `json:"image_url" gorm:"type:varchar(255)"`
	IsNew       bool            `json:"is_new"`
	SalesCount  int             `json:"sales_count"`
	Addons      []Addon         `json:"addons,omitempty" gorm:"many2many:addon_menu_items"`
	gorm.Model
}

// Available reports whether the item can still be ordered.
func (m *MenuItem) Available() bool {
	return m.Stock > 0
}

// Addon is an optional, separately priced and stocked modifier that can be
// attached to a menu item line. When its stock reaches zero it flips to
// unavailable and is excluded from future cart additions.
type Addon struct {
	ID          string          `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string          `json:"name" gorm:"type:varchar(100)" validate:"required,min=2,max=100"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(10,2)" validate:"required"`
	Stock       int             `json:"stock" validate:"gte=0"`
	IsAvailable bool            `json:"is_available"`
	gorm.Model
}

// Available reports whether the addon can still be added to a cart line.
func (a *Addon) Available() bool {
	return a.IsAvailable && a.Stock > 0
}
