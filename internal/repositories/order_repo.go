package repositories

import (
	"tunazugba/internal/models"

	"gorm.io/gorm"
)

// OrderRepository defines the interface for order data access. Creation
// methods take a *gorm.DB so the materializer can group them into a single
// transaction.
type OrderRepository interface {
	CreateOrder(tx *gorm.DB, order *models.Order) error
	CreateOrderItem(tx *gorm.DB, item *models.OrderItem) error
	CreateOrderItemAddon(tx *gorm.DB, addon *models.OrderItemAddon) error
	CreateOrderDeal(tx *gorm.DB, deal *models.OrderDeal) error

	// CountByUser returns how many orders the user has placed, read within tx
	// so promo conditions see a consistent count during materialization.
	CountByUser(tx *gorm.DB, userID string) (int64, error)

	GetByID(id string) (*models.Order, error)
	GetForUser(userID, orderID string) (*models.Order, error)
	ListForUser(userID string, limit int) ([]models.Order, error)
	UpdateStatus(id string, status string) error
}
