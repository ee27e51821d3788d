package repositories

import (
	"fmt"
	"tunazugba/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

// CreateOrder creates the order header within tx.
func (r *GORMOrderRepository) CreateOrder(tx *gorm.DB, order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	// Associations are inserted individually by the materializer.
	if err := tx.Omit("Items", "Deals").Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// CreateOrderItem creates one order item within tx.
func (r *GORMOrderRepository) CreateOrderItem(tx *gorm.DB, item *models.OrderItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if err := tx.Omit("Addons").Create(item).Error; err != nil {
		return fmt.Errorf("failed to create order item: %w", err)
	}
	return nil
}

// CreateOrderItemAddon records one honored addon within tx.
func (r *GORMOrderRepository) CreateOrderItemAddon(tx *gorm.DB, addon *models.OrderItemAddon) error {
	if addon.ID == "" {
		addon.ID = uuid.New().String()
	}
	if err := tx.Create(addon).Error; err != nil {
		return fmt.Errorf("failed to create order item addon: %w", err)
	}
	return nil
}

// CreateOrderDeal records one honored promo within tx.
func (r *GORMOrderRepository) CreateOrderDeal(tx *gorm.DB, deal *models.OrderDeal) error {
	if deal.ID == "" {
		deal.ID = uuid.New().String()
	}
	if err := tx.Create(deal).Error; err != nil {
		return fmt.Errorf("failed to create order deal: %w", err)
	}
	return nil
}

// CountByUser counts the user's orders within tx.
func (r *GORMOrderRepository) CountByUser(tx *gorm.DB, userID string) (int64, error) {
	var count int64
	if err := tx.Model(&models.Order{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count orders for user %s: %w", userID, err)
	}
	return count, nil
}

// GetByID retrieves an order with its items, item addons, and deals.
func (r *GORMOrderRepository) GetByID(id string) (*models.Order, error) {
	var order models.Order
	err := r.db.Preload("Items.Addons").Preload("Deals").First(&order, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("order with ID %s not found: %w", id, err)
		}
		return nil, fmt.Errorf("failed to get order %s: %w", id, err)
	}
	return &order, nil
}

// GetForUser retrieves an order scoped to its owner.
func (r *GORMOrderRepository) GetForUser(userID, orderID string) (*models.Order, error) {
	var order models.Order
	err := r.db.Preload("Items.Addons").Preload("Deals").
		First(&order, "id = ? AND user_id = ?", orderID, userID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("order with ID %s not found: %w", orderID, err)
		}
		return nil, fmt.Errorf("failed to get order %s: %w", orderID, err)
	}
	return &order, nil
}

// ListForUser retrieves the user's most recent orders.
func (r *GORMOrderRepository) ListForUser(userID string, limit int) ([]models.Order, error) {
	var orders []models.Order
	q := r.db.Preload("Items").Where("user_id = ?", userID).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders for user %s: %w", userID, err)
	}
	return orders, nil
}

// UpdateStatus updates the status of an order.
func (r *GORMOrderRepository) UpdateStatus(id string, status string) error {
	res := r.db.Model(&models.Order{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("failed to update status for order %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order with ID %s not found for status update", id)
	}
	return nil
}
