package services

import (
	"tunazugba/internal/models"
	"tunazugba/internal/repositories"
)

// MenuService handles business logic related to the menu catalog.
type MenuService struct {
	repo repositories.MenuRepository
}

// NewMenuService creates a new MenuService.
func NewMenuService(repo repositories.MenuRepository) *MenuService {
	return &MenuService{
		repo: repo,
	}
}

// ListAvailable retrieves all menu items currently in stock.
func (s *MenuService) ListAvailable() ([]models.MenuItem, error) {
	return s.repo.GetItemsAvailable()
}

// ListByCategory retrieves menu items in the given category.
func (s *MenuService) ListByCategory(category string) ([]models.MenuItem, error) {
	return s.repo.GetItemsByCategory(category)
}

// Bestsellers retrieves the top items ranked by lifetime sales count.
func (s *MenuService) Bestsellers(limit int) ([]models.MenuItem, error) {
	if limit <= 0 || limit > 20 {
		limit = 5
	}
	return s.repo.GetBestsellers(limit)
}

// NewItems retrieves the most recently added items still in stock.
func (s *MenuService) NewItems(limit int) ([]models.MenuItem, error) {
	if limit <= 0 || limit > 20 {
		limit = 5
	}
	return s.repo.GetNewest(limit)
}

// GetItem retrieves a single menu item with its addons.
func (s *MenuService) GetItem(id string) (*models.MenuItem, error) {
	return s.repo.GetItem(id)
}

// CreateItem creates a new menu item.
func (s *MenuService) CreateItem(item *models.MenuItem) error {
	return s.repo.CreateItem(item)
}

// CreateAddon creates a new addon.
func (s *MenuService) CreateAddon(addon *models.Addon) error {
	return s.repo.CreateAddon(addon)
}
