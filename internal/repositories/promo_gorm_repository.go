package repositories

import (
	"fmt"
	"tunazugba/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMPromoRepository is a GORM implementation of PromoRepository.
type GORMPromoRepository struct {
	db *gorm.DB
}

// NewGORMPromoRepository creates a new instance of GORMPromoRepository.
func NewGORMPromoRepository(db *gorm.DB) *GORMPromoRepository {
	return &GORMPromoRepository{
		db: db,
	}
}

// GetByID retrieves a single promo by its ID.
func (r *GORMPromoRepository) GetByID(id string) (*models.Promo, error) {
	var promo models.Promo
	if err := r.db.First(&promo, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("promo with ID %s not found: %w", id, err)
		}
		return nil, fmt.Errorf("failed to get promo %s: %w", id, err)
	}
	return &promo, nil
}

// GetByIDs retrieves promos by their IDs. Unknown IDs are simply absent from
// the result.
func (r *GORMPromoRepository) GetByIDs(ids []string) ([]models.Promo, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var promos []models.Promo
	if err := r.db.Where("id IN ?", ids).Find(&promos).Error; err != nil {
		return nil, fmt.Errorf("failed to get promos: %w", err)
	}
	return promos, nil
}

// ListActive retrieves all promos currently flagged active.
func (r *GORMPromoRepository) ListActive() ([]models.Promo, error) {
	var promos []models.Promo
	if err := r.db.Where("is_active = ?", true).Find(&promos).Error; err != nil {
		return nil, fmt.Errorf("failed to list active promos: %w", err)
	}
	return promos, nil
}

// Create creates a new promo.
func (r *GORMPromoRepository) Create(promo *models.Promo) error {
	if promo.ID == "" {
		promo.ID = uuid.New().String()
	}
	if err := r.db.Create(promo).Error; err != nil {
		return fmt.Errorf("failed to create promo: %w", err)
	}
	return nil
}

// Update updates an existing promo.
func (r *GORMPromoRepository) Update(promo *models.Promo) error {
	res := r.db.Save(promo)
	if res.Error != nil {
		return fmt.Errorf("failed to update promo: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("promo with ID %s not found for update", promo.ID)
	}
	return nil
}
