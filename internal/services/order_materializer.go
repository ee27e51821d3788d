package services

import (
	"log"
	"time"

	"tunazugba/internal/models"
	"tunazugba/internal/repositories"

	"gorm.io/gorm"
)

// OrderMaterializer converts a confirmed payment into permanent order records
// with inventory effects. Materialize runs entirely inside the caller's
// transaction: either the order, its items, the stock decrements, the deal
// records, the cart cleanup, and the payment transition all commit, or none
// of them do.
type OrderMaterializer struct {
	menuRepo    repositories.MenuRepository
	orderRepo   repositories.OrderRepository
	cartRepo    repositories.CartRepository
	paymentRepo repositories.PaymentRepository
	promoRepo   repositories.PromoRepository
	userRepo    repositories.UserRepository
}

// NewOrderMaterializer creates a new OrderMaterializer.
func NewOrderMaterializer(
	menuRepo repositories.MenuRepository,
	orderRepo repositories.OrderRepository,
	cartRepo repositories.CartRepository,
	paymentRepo repositories.PaymentRepository,
	promoRepo repositories.PromoRepository,
	userRepo repositories.UserRepository,
) *OrderMaterializer {
	return &OrderMaterializer{
		menuRepo:    menuRepo,
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		paymentRepo: paymentRepo,
		promoRepo:   promoRepo,
		userRepo:    userRepo,
	}
}

// Materialize builds the order from the payment's snapshot. The live cart is
// never consulted for order contents; it is only deleted at the end.
func (m *OrderMaterializer) Materialize(tx *gorm.DB, payment *models.Payment, transactionID string, now time.Time) (*models.Order, error) {
	snapshot, err := models.DecodeCartSnapshot(payment.CartSnapshot)
	if err != nil {
		return nil, err
	}

	// Re-validate the deals snapshot before the order exists, so the order
	// being placed does not count toward its own promo conditions.
	honored, err := m.revalidateDeals(tx, payment, snapshot, now)
	if err != nil {
		return nil, err
	}

	// Authoritative stock check: the conditional decrement fails exactly when
	// stock no longer covers the line, in which case the whole transaction
	// aborts and no partial order survives.
	for _, line := range snapshot.Lines {
		ok, err := m.menuRepo.TryDecrementItem(tx, line.MenuItemID, line.Quantity)
		if err != nil {
			return nil, err
		}
		if !ok {
			available, stockErr := m.menuRepo.ItemStock(tx, line.MenuItemID)
			if stockErr != nil {
				available = 0
			}
			return nil, &InsufficientStockError{
				Name:      line.Name,
				Requested: line.Quantity,
				Available: available,
			}
		}
	}

	order := &models.Order{
		UserID:      payment.UserID,
		OrderType:   payment.OrderType,
		PickupTime:  payment.PickupTime,
		Notes:       payment.Notes,
		TotalAmount: payment.Amount,
		Status:      models.OrderPending,
	}
	if err := m.orderRepo.CreateOrder(tx, order); err != nil {
		return nil, err
	}

	for _, line := range snapshot.Lines {
		item := &models.OrderItem{
			OrderID:    order.ID,
			MenuItemID: line.MenuItemID,
			Quantity:   line.Quantity,
			Price:      line.UnitPrice,
		}
		if err := m.orderRepo.CreateOrderItem(tx, item); err != nil {
			return nil, err
		}

		for _, addon := range line.Addons {
			if err := m.orderRepo.CreateOrderItemAddon(tx, &models.OrderItemAddon{
				OrderItemID: item.ID,
				AddonID:     addon.AddonID,
				Price:       addon.Price,
			}); err != nil {
				return nil, err
			}
			// Addon stock follows the ordered quantity of the main item.
			if err := m.menuRepo.DecrementAddonStock(tx, addon.AddonID, line.Quantity); err != nil {
				return nil, err
			}
		}
	}

	for i := range honored {
		honored[i].OrderID = order.ID
		if err := m.orderRepo.CreateOrderDeal(tx, &honored[i]); err != nil {
			return nil, err
		}
	}

	if err := m.cartRepo.DeleteByUser(tx, payment.UserID); err != nil {
		return nil, err
	}

	if err := m.paymentRepo.MarkSuccess(tx, payment.ID, order.ID, transactionID); err != nil {
		return nil, err
	}

	return order, nil
}

// revalidateDeals re-runs every promo recorded at initiation through the
// evaluator against the snapshot's total. A promo that stopped qualifying
// (deactivated, or the user is no longer first-time because another order
// slipped in) is dropped and logged, never blocking order creation.
func (m *OrderMaterializer) revalidateDeals(tx *gorm.DB, payment *models.Payment, snapshot *models.CartSnapshot, now time.Time) ([]models.OrderDeal, error) {
	refs, err := models.DecodeDealsSnapshot(payment.DealsSnapshot)
	if err != nil {
		log.Printf("Failed to decode deals snapshot for payment %s: %v", payment.ID, err)
		return nil, nil
	}
	if len(refs) == 0 {
		return nil, nil
	}

	var userCtx *models.UserContext
	if user, err := m.userRepo.GetByID(payment.UserID); err == nil {
		userCtx = &models.UserContext{
			ID:          user.ID,
			Name:        user.Name,
			Email:       user.Email,
			PhoneNumber: user.PhoneNumber,
		}
	}

	priorOrders, err := m.orderRepo.CountByUser(tx, payment.UserID)
	if err != nil {
		return nil, err
	}

	cartTotal := ComputeOrderTotals(snapshot.Lines, nil).Subtotal

	deals := make([]models.OrderDeal, 0, len(refs))
	for _, ref := range refs {
		promo, err := m.promoRepo.GetByID(ref.ID)
		if err != nil {
			log.Printf("Skipping promo %s: %v", ref.ID, err)
			continue
		}
		if !AppliesWithCount(*promo, userCtx, priorOrders, cartTotal, now) {
			log.Printf("Skipping promo %s for payment %s: conditions no longer met",
				promo.Code, payment.ID)
			continue
		}
		deals = append(deals, models.OrderDeal{
			DealID:         promo.ID,
			Code:           promo.Code,
			DiscountType:   promo.DiscountType,
			DiscountAmount: DiscountAmount(*promo, cartTotal),
		})
	}
	return deals, nil
}
