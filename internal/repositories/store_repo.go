package repositories

import "tunazugba/internal/models"

// StoreRepository defines the interface for store settings access.
type StoreRepository interface {
	Get() (*models.StoreSetting, error)
	Save(setting *models.StoreSetting) error
}
