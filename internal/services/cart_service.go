package services

import (
	"fmt"
	"log"

	"tunazugba/internal/models"
	"tunazugba/internal/repositories"

	"gorm.io/gorm"
)

// CartService handles business logic for the shopping cart.
type CartService struct {
	db       *gorm.DB
	cartRepo repositories.CartRepository
	menuRepo repositories.MenuRepository
}

// NewCartService creates a new CartService.
func NewCartService(db *gorm.DB, cartRepo repositories.CartRepository, menuRepo repositories.MenuRepository) *CartService {
	return &CartService{
		db:       db,
		cartRepo: cartRepo,
		menuRepo: menuRepo,
	}
}

// AddRequest is the input for adding an item to the cart.
type AddRequest struct {
	MenuItemID string   `json:"menu_item_id" validate:"required,uuid"`
	Quantity   int      `json:"quantity" validate:"required,gte=1"`
	AddonIDs   []string `json:"addons" validate:"omitempty,dive,uuid"`
}

// CartView is the cart listing with the selected-lines total.
type CartView struct {
	Lines  []models.CartLine `json:"lines"`
	Totals OrderTotals       `json:"totals"`
}

// List prunes unavailable items, then returns the user's cart with the total
// over selected lines.
func (s *CartService) List(user models.UserContext) (*CartView, error) {
	if removed, err := s.cartRepo.PruneUnavailable(user.ID); err != nil {
		log.Printf("Failed to prune cart for user %s: %v", user.ID, err)
	} else if removed > 0 {
		log.Printf("Pruned %d out-of-stock cart lines for user %s", removed, user.ID)
	}

	lines, err := s.cartRepo.GetByUser(user.ID)
	if err != nil {
		return nil, err
	}

	selected := make([]models.CartLine, 0, len(lines))
	for _, l := range lines {
		if l.IsSelected {
			selected = append(selected, l)
		}
	}

	return &CartView{
		Lines:  lines,
		Totals: ComputeOrderTotals(models.SnapshotLinesFromCart(selected), nil),
	}, nil
}

// Add puts an item+addon combination in the cart. An identical combination
// (same item, same addon set) merges by summing quantities instead of
// creating a second line. The item's current price is snapshotted onto the
// line.
func (s *CartService) Add(user models.UserContext, req AddRequest) (*models.CartLine, error) {
	item, err := s.menuRepo.GetItem(req.MenuItemID)
	if err != nil {
		return nil, err
	}
	if item.Stock < req.Quantity {
		return nil, &InsufficientStockError{
			Name:      item.Name,
			Requested: req.Quantity,
			Available: item.Stock,
		}
	}

	addons, err := s.menuRepo.GetAddons(req.AddonIDs)
	if err != nil {
		return nil, err
	}
	if len(addons) != len(uniqueIDs(req.AddonIDs)) {
		return nil, fmt.Errorf("one or more addons not found")
	}
	for _, a := range addons {
		if !a.Available() {
			return nil, fmt.Errorf("add-on '%s' is currently out of stock", a.Name)
		}
		if a.Stock < req.Quantity {
			return nil, &InsufficientStockError{
				Name:      a.Name,
				Requested: req.Quantity,
				Available: a.Stock,
			}
		}
	}

	signature := models.AddonSignature(req.AddonIDs)

	existing, err := s.cartRepo.FindBySignature(user.ID, item.ID, signature)
	if err != nil {
		return nil, err
	}

	cartAddons := make([]models.CartAddon, 0, len(addons))
	for _, a := range addons {
		cartAddons = append(cartAddons, models.CartAddon{
			AddonID: a.ID,
			Price:   a.Price,
		})
	}

	if existing != nil {
		newQty := existing.Quantity + req.Quantity
		if newQty > item.Stock {
			return nil, &InsufficientStockError{
				Name:      item.Name,
				Requested: newQty,
				Available: item.Stock,
			}
		}
		if err := s.cartRepo.UpdateQuantity(existing.ID, newQty); err != nil {
			return nil, err
		}
		if err := s.cartRepo.ReplaceAddons(existing.ID, cartAddons); err != nil {
			return nil, err
		}
		return s.cartRepo.GetLineForUser(user.ID, existing.ID)
	}

	line := &models.CartLine{
		UserID:         user.ID,
		MenuItemID:     item.ID,
		Quantity:       req.Quantity,
		UnitPrice:      item.Price,
		AddonSignature: signature,
		IsSelected:     true,
		Addons:         cartAddons,
	}
	if err := s.cartRepo.Create(line); err != nil {
		return nil, err
	}
	return line, nil
}

// UpdateQuantity changes how many units a line holds, re-checking stock.
func (s *CartService) UpdateQuantity(user models.UserContext, lineID string, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("quantity must be at least 1")
	}
	line, err := s.cartRepo.GetLineForUser(user.ID, lineID)
	if err != nil {
		return err
	}

	item, err := s.menuRepo.GetItem(line.MenuItemID)
	if err != nil {
		return err
	}
	if item.Stock < quantity {
		return &InsufficientStockError{
			Name:      item.Name,
			Requested: quantity,
			Available: item.Stock,
		}
	}

	return s.cartRepo.UpdateQuantity(lineID, quantity)
}

// ToggleSelection flips a line's checkout selection.
func (s *CartService) ToggleSelection(user models.UserContext, lineID string) (*models.CartLine, error) {
	line, err := s.cartRepo.GetLineForUser(user.ID, lineID)
	if err != nil {
		return nil, err
	}
	if err := s.cartRepo.UpdateSelection(lineID, !line.IsSelected); err != nil {
		return nil, err
	}
	return s.cartRepo.GetLineForUser(user.ID, lineID)
}

// ToggleAll sets the selection flag on every line of the cart.
func (s *CartService) ToggleAll(user models.UserContext, selected bool) error {
	return s.cartRepo.SelectAll(user.ID, selected)
}

// Remove deletes one line from the cart.
func (s *CartService) Remove(user models.UserContext, lineID string) error {
	if _, err := s.cartRepo.GetLineForUser(user.ID, lineID); err != nil {
		return err
	}
	return s.cartRepo.Delete(lineID)
}

// Clear empties the user's cart.
func (s *CartService) Clear(user models.UserContext) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return s.cartRepo.DeleteByUser(tx, user.ID)
	})
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
