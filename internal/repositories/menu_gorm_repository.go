package repositories

import (
	"fmt"
	"tunazugba/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMMenuRepository is a GORM implementation of MenuRepository.
type GORMMenuRepository struct {
	db *gorm.DB
}

// NewGORMMenuRepository creates a new instance of GORMMenuRepository.
func NewGORMMenuRepository(db *gorm.DB) *GORMMenuRepository {
	return &GORMMenuRepository{
		db: db,
	}
}

// GetItem retrieves a single menu item with its addons.
func (r *GORMMenuRepository) GetItem(id string) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := r.db.Preload("Addons").First(&item, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("menu item with ID %s not found: %w", id, err)
		}
		return nil, fmt.Errorf("failed to get menu item %s: %w", id, err)
	}
	return &item, nil
}

// GetItemsAvailable retrieves all menu items with stock remaining.
func (r *GORMMenuRepository) GetItemsAvailable() ([]models.MenuItem, error) {
	var items []models.MenuItem
	if err := r.db.Preload("Addons").Where("stock > 0").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list available menu items: %w", err)
	}
	return items, nil
}

// GetItemsByCategory retrieves available menu items in a category.
func (r *GORMMenuRepository) GetItemsByCategory(category string) ([]models.MenuItem, error) {
	var items []models.MenuItem
	if err := r.db.Preload("Addons").Where("stock > 0 AND category = ?", category).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list menu items in category %s: %w", category, err)
	}
	return items, nil
}

// GetBestsellers retrieves the top items ranked by sales count.
func (r *GORMMenuRepository) GetBestsellers(limit int) ([]models.MenuItem, error) {
	var items []models.MenuItem
	if err := r.db.Order("sales_count DESC").Limit(limit).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list bestsellers: %w", err)
	}
	return items, nil
}

// GetNewest retrieves the most recently added available items.
func (r *GORMMenuRepository) GetNewest(limit int) ([]models.MenuItem, error) {
	var items []models.MenuItem
	if err := r.db.Where("stock > 0").Order("created_at DESC").Limit(limit).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list newest menu items: %w", err)
	}
	return items, nil
}

// CreateItem creates a new menu item.
func (r *GORMMenuRepository) CreateItem(item *models.MenuItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if err := r.db.Create(item).Error; err != nil {
		return fmt.Errorf("failed to create menu item: %w", err)
	}
	return nil
}

// GetAddon retrieves a single addon by its ID.
func (r *GORMMenuRepository) GetAddon(id string) (*models.Addon, error) {
	var addon models.Addon
	if err := r.db.First(&addon, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("addon with ID %s not found: %w", id, err)
		}
		return nil, fmt.Errorf("failed to get addon %s: %w", id, err)
	}
	return &addon, nil
}

// GetAddons retrieves addons by their IDs.
func (r *GORMMenuRepository) GetAddons(ids []string) ([]models.Addon, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var addons []models.Addon
	if err := r.db.Where("id IN ?", ids).Find(&addons).Error; err != nil {
		return nil, fmt.Errorf("failed to get addons: %w", err)
	}
	return addons, nil
}

// CreateAddon creates a new addon.
func (r *GORMMenuRepository) CreateAddon(addon *models.Addon) error {
	if addon.ID == "" {
		addon.ID = uuid.New().String()
	}
	if err := r.db.Create(addon).Error; err != nil {
		return fmt.Errorf("failed to create addon: %w", err)
	}
	return nil
}

// TryDecrementItem performs the conditional decrement that prevents
// overselling: the UPDATE only matches while stock still covers qty, so two
// concurrent checkouts can never both drain the same units. The sales count
// moves in the same statement because it must track order-driven decrements
// only.
func (r *GORMMenuRepository) TryDecrementItem(tx *gorm.DB, id string, qty int) (bool, error) {
	res := tx.Model(&models.MenuItem{}).
		Where("id = ? AND stock >= ?", id, qty).
		Updates(map[string]interface{}{
			"stock":       gorm.Expr("stock - ?", qty),
			"sales_count": gorm.Expr("sales_count + ?", qty),
		})
	if res.Error != nil {
		return false, fmt.Errorf("failed to decrement stock for item %s: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// DecrementAddonStock deducts the ordered quantity from an addon, never going
// below zero, then marks the addon unavailable once its stock is depleted so
// it is excluded from future cart additions.
func (r *GORMMenuRepository) DecrementAddonStock(tx *gorm.DB, id string, qty int) error {
	res := tx.Model(&models.Addon{}).
		Where("id = ?", id).
		Update("stock", gorm.Expr("CASE WHEN stock >= ? THEN stock - ? ELSE 0 END", qty, qty))
	if res.Error != nil {
		return fmt.Errorf("failed to decrement stock for addon %s: %w", id, res.Error)
	}

	res = tx.Model(&models.Addon{}).
		Where("id = ? AND stock <= 0", id).
		Update("is_available", false)
	if res.Error != nil {
		return fmt.Errorf("failed to update availability for addon %s: %w", id, res.Error)
	}
	return nil
}

// ItemStock reads an item's current stock under a row lock, so the count
// stays stable for the remainder of the transaction.
func (r *GORMMenuRepository) ItemStock(tx *gorm.DB, id string) (int, error) {
	var item models.MenuItem
	err := forUpdate(tx).
		Select("id", "stock").
		First(&item, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, fmt.Errorf("menu item with ID %s not found: %w", id, err)
		}
		return 0, fmt.Errorf("failed to read stock for item %s: %w", id, err)
	}
	return item.Stock, nil
}
