package repositories

import (
	"tunazugba/internal/models"

	"gorm.io/gorm"
)

// CartRepository defines the interface for cart data access.
type CartRepository interface {
	GetByUser(userID string) ([]models.CartLine, error)
	GetSelectedByUser(userID string) ([]models.CartLine, error)
	GetLineForUser(userID, lineID string) (*models.CartLine, error)
	FindBySignature(userID, menuItemID, signature string) (*models.CartLine, error)

	Create(line *models.CartLine) error
	UpdateQuantity(lineID string, quantity int) error
	UpdateSelection(lineID string, selected bool) error
	SelectAll(userID string, selected bool) error
	ReplaceAddons(lineID string, addons []models.CartAddon) error
	Delete(lineID string) error

	// DeleteByUser removes all of a user's cart lines and their addons within
	// the given transaction (used by checkout cleanup).
	DeleteByUser(tx *gorm.DB, userID string) error

	// PruneUnavailable drops cart lines whose menu item is out of stock and
	// cart addons whose addon is no longer available. Returns how many lines
	// were removed.
	PruneUnavailable(userID string) (int64, error)
}
