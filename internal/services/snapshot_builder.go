package services

import (
	"log"

	"tunazugba/internal/models"
	"tunazugba/internal/repositories"
)

// SnapshotBuilder captures a user's selected cart lines into an immutable
// snapshot at payment-initiation time. The snapshot, not the live cart, is
// what the order materializer consumes at webhook time.
type SnapshotBuilder struct {
	cartRepo repositories.CartRepository
	menuRepo repositories.MenuRepository
}

// NewSnapshotBuilder creates a new SnapshotBuilder.
func NewSnapshotBuilder(cartRepo repositories.CartRepository, menuRepo repositories.MenuRepository) *SnapshotBuilder {
	return &SnapshotBuilder{
		cartRepo: cartRepo,
		menuRepo: menuRepo,
	}
}

// Build reads the user's selected cart lines and resolves each line's addons
// from the live addon table, capturing name, price, and stock at this
// instant. Lines referencing a since-deleted menu item are skipped with a
// warning rather than failing the whole checkout. An empty result is
// ErrCartEmpty.
func (b *SnapshotBuilder) Build(userID string) (*models.CartSnapshot, error) {
	lines, err := b.cartRepo.GetSelectedByUser(userID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrCartEmpty
	}

	snapshot := &models.CartSnapshot{
		Version: models.CartSnapshotVersion,
	}

	for _, line := range lines {
		item, err := b.menuRepo.GetItem(line.MenuItemID)
		if err != nil {
			log.Printf("Skipping cart line %s: menu item %s unavailable: %v",
				line.ID, line.MenuItemID, err)
			continue
		}

		sl := models.SnapshotLine{
			CartLineID: line.ID,
			MenuItemID: line.MenuItemID,
			Name:       item.Name,
			Quantity:   line.Quantity,
			UnitPrice:  line.UnitPrice,
		}

		addonIDs := make([]string, 0, len(line.Addons))
		for _, a := range line.Addons {
			addonIDs = append(addonIDs, a.AddonID)
		}
		addons, err := b.menuRepo.GetAddons(addonIDs)
		if err != nil {
			return nil, err
		}
		for _, a := range addons {
			sl.Addons = append(sl.Addons, models.SnapshotAddon{
				AddonID: a.ID,
				Name:    a.Name,
				Price:   a.Price,
				Stock:   a.Stock,
			})
		}

		snapshot.Lines = append(snapshot.Lines, sl)
	}

	if len(snapshot.Lines) == 0 {
		return nil, ErrCartEmpty
	}
	return snapshot, nil
}
