package repositories

import "tunazugba/internal/models"

// PromoRepository defines the interface for promo data access.
type PromoRepository interface {
	GetByID(id string) (*models.Promo, error)
	GetByIDs(ids []string) ([]models.Promo, error)
	ListActive() ([]models.Promo, error)
	Create(promo *models.Promo) error
	Update(promo *models.Promo) error
}
