package repositories

import (
	"fmt"
	"tunazugba/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMCartRepository is a GORM implementation of CartRepository.
type GORMCartRepository struct {
	db *gorm.DB
}

// NewGORMCartRepository creates a new instance of GORMCartRepository.
func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{
		db: db,
	}
}

// GetByUser retrieves all of a user's cart lines with menu items and addons.
func (r *GORMCartRepository) GetByUser(userID string) ([]models.CartLine, error) {
	var lines []models.CartLine
	err := r.db.Preload("MenuItem").Preload("Addons.Addon").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&lines).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get cart for user %s: %w", userID, err)
	}
	return lines, nil
}

// GetSelectedByUser retrieves only the lines marked for checkout.
func (r *GORMCartRepository) GetSelectedByUser(userID string) ([]models.CartLine, error) {
	var lines []models.CartLine
	err := r.db.Preload("MenuItem").Preload("Addons.Addon").
		Where("user_id = ? AND is_selected = ?", userID, true).
		Order("created_at ASC").
		Find(&lines).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get selected cart lines for user %s: %w", userID, err)
	}
	return lines, nil
}

// GetLineForUser retrieves one cart line, scoped to its owner.
func (r *GORMCartRepository) GetLineForUser(userID, lineID string) (*models.CartLine, error) {
	var line models.CartLine
	err := r.db.Preload("MenuItem").Preload("Addons").
		First(&line, "id = ? AND user_id = ?", lineID, userID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("cart line with ID %s not found: %w", lineID, err)
		}
		return nil, fmt.Errorf("failed to get cart line %s: %w", lineID, err)
	}
	return &line, nil
}

// FindBySignature looks up the line holding an identical item+addon
// combination, if any. Returns (nil, nil) when no such line exists.
func (r *GORMCartRepository) FindBySignature(userID, menuItemID, signature string) (*models.CartLine, error) {
	var line models.CartLine
	err := r.db.First(&line, "user_id = ? AND menu_item_id = ? AND addon_signature = ?",
		userID, menuItemID, signature).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find cart line by signature: %w", err)
	}
	return &line, nil
}

// Create creates a cart line together with its addon rows.
func (r *GORMCartRepository) Create(line *models.CartLine) error {
	if line.ID == "" {
		line.ID = uuid.New().String()
	}
	for i := range line.Addons {
		if line.Addons[i].ID == "" {
			line.Addons[i].ID = uuid.New().String()
		}
	}
	if err := r.db.Create(line).Error; err != nil {
		return fmt.Errorf("failed to create cart line: %w", err)
	}
	return nil
}

// UpdateQuantity sets a line's quantity.
func (r *GORMCartRepository) UpdateQuantity(lineID string, quantity int) error {
	res := r.db.Model(&models.CartLine{}).Where("id = ?", lineID).Update("quantity", quantity)
	if res.Error != nil {
		return fmt.Errorf("failed to update quantity for cart line %s: %w", lineID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cart line with ID %s not found for update", lineID)
	}
	return nil
}

// UpdateSelection sets a line's checkout selection flag.
func (r *GORMCartRepository) UpdateSelection(lineID string, selected bool) error {
	res := r.db.Model(&models.CartLine{}).Where("id = ?", lineID).Update("is_selected", selected)
	if res.Error != nil {
		return fmt.Errorf("failed to update selection for cart line %s: %w", lineID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cart line with ID %s not found for update", lineID)
	}
	return nil
}

// SelectAll sets the selection flag on every line of the user's cart.
func (r *GORMCartRepository) SelectAll(userID string, selected bool) error {
	err := r.db.Model(&models.CartLine{}).Where("user_id = ?", userID).
		Update("is_selected", selected).Error
	if err != nil {
		return fmt.Errorf("failed to update selection for user %s: %w", userID, err)
	}
	return nil
}

// ReplaceAddons swaps a line's addon rows for a new set.
func (r *GORMCartRepository) ReplaceAddons(lineID string, addons []models.CartAddon) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("cart_line_id = ?", lineID).Delete(&models.CartAddon{}).Error; err != nil {
			return fmt.Errorf("failed to clear addons for cart line %s: %w", lineID, err)
		}
		for i := range addons {
			addons[i].CartLineID = lineID
			if addons[i].ID == "" {
				addons[i].ID = uuid.New().String()
			}
			if err := tx.Create(&addons[i]).Error; err != nil {
				return fmt.Errorf("failed to attach addon to cart line %s: %w", lineID, err)
			}
		}
		return nil
	})
}

// Delete removes a cart line and its addon rows.
func (r *GORMCartRepository) Delete(lineID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("cart_line_id = ?", lineID).Delete(&models.CartAddon{}).Error; err != nil {
			return fmt.Errorf("failed to delete addons for cart line %s: %w", lineID, err)
		}
		res := tx.Unscoped().Delete(&models.CartLine{}, "id = ?", lineID)
		if res.Error != nil {
			return fmt.Errorf("failed to delete cart line %s: %w", lineID, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("cart line with ID %s not found for deletion", lineID)
		}
		return nil
	})
}

// DeleteByUser clears the user's whole cart inside the caller's transaction.
func (r *GORMCartRepository) DeleteByUser(tx *gorm.DB, userID string) error {
	err := tx.Unscoped().Where("cart_line_id IN (?)",
		tx.Model(&models.CartLine{}).Select("id").Where("user_id = ?", userID),
	).Delete(&models.CartAddon{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete cart addons for user %s: %w", userID, err)
	}
	if err := tx.Unscoped().Where("user_id = ?", userID).Delete(&models.CartLine{}).Error; err != nil {
		return fmt.Errorf("failed to delete cart for user %s: %w", userID, err)
	}
	return nil
}

// PruneUnavailable removes addons that went unavailable and lines whose menu
// item ran out of stock since they were added.
func (r *GORMCartRepository) PruneUnavailable(userID string) (int64, error) {
	var removed int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		// Addons first: a line can survive losing an addon.
		err := tx.Unscoped().Where("addon_id IN (?)",
			tx.Model(&models.Addon{}).Select("id").Where("is_available = ?", false),
		).Where("cart_line_id IN (?)",
			tx.Model(&models.CartLine{}).Select("id").Where("user_id = ?", userID),
		).Delete(&models.CartAddon{}).Error
		if err != nil {
			return fmt.Errorf("failed to prune unavailable cart addons: %w", err)
		}

		var lineIDs []string
		err = tx.Model(&models.CartLine{}).Select("cart_lines.id").
			Joins("JOIN menu_items ON menu_items.id = cart_lines.menu_item_id").
			Where("cart_lines.user_id = ? AND menu_items.stock <= 0", userID).
			Scan(&lineIDs).Error
		if err != nil {
			return fmt.Errorf("failed to find out-of-stock cart lines: %w", err)
		}
		if len(lineIDs) == 0 {
			return nil
		}

		if err := tx.Unscoped().Where("cart_line_id IN ?", lineIDs).Delete(&models.CartAddon{}).Error; err != nil {
			return fmt.Errorf("failed to prune addons of out-of-stock lines: %w", err)
		}
		res := tx.Unscoped().Where("id IN ?", lineIDs).Delete(&models.CartLine{})
		if res.Error != nil {
			return fmt.Errorf("failed to prune out-of-stock cart lines: %w", res.Error)
		}
		removed = res.RowsAffected
		return nil
	})
	return removed, err
}
