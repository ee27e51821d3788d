package repositories

import (
	"tunazugba/internal/models"

	"gorm.io/gorm"
)

// MenuRepository defines the interface for menu item and addon data access,
// including the inventory ledger operations. Methods taking a *gorm.DB run
// against that transaction so callers can group them atomically.
type MenuRepository interface {
	GetItem(id string) (*models.MenuItem, error)
	GetItemsAvailable() ([]models.MenuItem, error)
	GetItemsByCategory(category string) ([]models.MenuItem, error)
	GetBestsellers(limit int) ([]models.MenuItem, error)
	GetNewest(limit int) ([]models.MenuItem, error)
	CreateItem(item *models.MenuItem) error

	GetAddon(id string) (*models.Addon, error)
	GetAddons(ids []string) ([]models.Addon, error)
	CreateAddon(addon *models.Addon) error

	// TryDecrementItem atomically decrements stock and increments sales_count
	// when stock covers qty. Returns false without side effects otherwise.
	TryDecrementItem(tx *gorm.DB, id string, qty int) (bool, error)

	// DecrementAddonStock deducts up to qty from the addon's stock, clamping
	// at zero, and flips the addon to unavailable once depleted.
	DecrementAddonStock(tx *gorm.DB, id string, qty int) error

	// ItemStock reads the current stock within tx, locking the row.
	ItemStock(tx *gorm.DB, id string) (int, error)
}
