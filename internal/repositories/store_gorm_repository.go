package repositories

import (
	"fmt"
	"tunazugba/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMStoreRepository is a GORM implementation of StoreRepository.
type GORMStoreRepository struct {
	db *gorm.DB
}

// NewGORMStoreRepository creates a new instance of GORMStoreRepository.
func NewGORMStoreRepository(db *gorm.DB) *GORMStoreRepository {
	return &GORMStoreRepository{
		db: db,
	}
}

// Get retrieves the store settings row.
func (r *GORMStoreRepository) Get() (*models.StoreSetting, error) {
	var setting models.StoreSetting
	if err := r.db.First(&setting).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("store settings not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get store settings: %w", err)
	}
	return &setting, nil
}

// Save creates or updates the store settings row.
func (r *GORMStoreRepository) Save(setting *models.StoreSetting) error {
	if setting.ID == "" {
		setting.ID = uuid.New().String()
	}
	if err := r.db.Save(setting).Error; err != nil {
		return fmt.Errorf("failed to save store settings: %w", err)
	}
	return nil
}
