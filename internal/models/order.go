package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Order statuses.
const (
	OrderPending   = "pending"
	OrderPreparing = "preparing"
	OrderReady     = "ready"
	OrderCompleted = "completed"
	OrderCancelled = "cancelled"
)

// Order types.
const (
	OrderDineIn  = "dine-in"
	OrderTakeOut = "take-out"
	OrderPickup  = "pickup"
)

// Order is the permanent record materialized from a confirmed payment.
// Exactly one order exists per successful payment.
type Order struct {
	ID          string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID      string          `json:"user_id" gorm:"type:varchar(36);index"`
	OrderType   string          `json:"order_type" gorm:"type:varchar(20)"`
	PickupTime  *time.Time      `json:"pickup_time,omitempty"`
	Notes       string          `json:"notes" gorm:"type:varchar(255)"`
	TotalAmount decimal.Decimal `json:"total_amount" gorm:"type:decimal(10,2)"`
	Status      string          `json:"status" gorm:"type:varchar(20);index"`
	Items       []OrderItem     `json:"items" gorm:"foreignKey:OrderID"`
	Deals       []OrderDeal     `json:"deals" gorm:"foreignKey:OrderID"`
	gorm.Model
}

// OrderItem is one snapshot line persisted onto an order. Price is the unit
// price carried over from the cart snapshot, not the live menu price.
type OrderItem struct {
	ID         string           `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID    string           `json:"order_id" gorm:"type:varchar(36);index"`
	MenuItemID string           `json:"menu_item_id" gorm:"type:varchar(36)"`
	Quantity   int              `json:"quantity"`
	Price      decimal.Decimal  `json:"price" gorm:"type:decimal(10,2)"`
	Addons     []OrderItemAddon `json:"addons" gorm:"foreignKey:OrderItemID"`
	gorm.Model
}

// OrderItemAddon records one addon honored on an order item.
type OrderItemAddon struct {
	ID          string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderItemID string          `json:"order_item_id" gorm:"type:varchar(36);index"`
	AddonID     string          `json:"addon_id" gorm:"type:varchar(36)"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(10,2)"`
	gorm.Model
}

// OrderDeal records a promo that was actually honored on the order, after
// re-validation at materialization time. Promos from the deals snapshot that
// no longer qualify never produce a row.
type OrderDeal struct {
	ID             string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID        string          `json:"order_id" gorm:"type:varchar(36);index"`
	DealID         string          `json:"deal_id" gorm:"type:varchar(36)"`
	Code           string          `json:"code" gorm:"type:varchar(50)"`
	DiscountType   string          `json:"discount_type" gorm:"type:varchar(10)"`
	DiscountAmount decimal.Decimal `json:"discount_amount" gorm:"type:decimal(10,2)"`
	gorm.Model
}
