package services

import (
	"errors"
	"fmt"

	"tunazugba/internal/models"
	"tunazugba/internal/repositories"

	"gorm.io/gorm"
)

// OrderService handles business logic for viewing and progressing orders.
type OrderService struct {
	orderRepo   repositories.OrderRepository
	paymentRepo repositories.PaymentRepository
}

// NewOrderService creates a new OrderService.
func NewOrderService(orderRepo repositories.OrderRepository, paymentRepo repositories.PaymentRepository) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		paymentRepo: paymentRepo,
	}
}

// ListForUser retrieves the user's order history, newest first.
func (s *OrderService) ListForUser(user models.UserContext, limit int) ([]models.Order, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.orderRepo.ListForUser(user.ID, limit)
}

// DetailForUser retrieves one of the user's orders with its items, addons
// and honored deals.
func (s *OrderService) DetailForUser(user models.UserContext, orderID string) (*models.Order, error) {
	order, err := s.orderRepo.GetForUser(user.ID, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccessDenied
		}
		return nil, err
	}
	return order, nil
}

// PaymentStatusResult is what the client polls after being redirected back
// from the gateway checkout page.
type PaymentStatusResult struct {
	PaymentID string  `json:"payment_id"`
	Status    string  `json:"status"`
	OrderID   *string `json:"order_id,omitempty"`
}

// PaymentStatus reports the state of one of the user's payments. OrderID is
// set only once the webhook has materialized the order.
func (s *OrderService) PaymentStatus(user models.UserContext, paymentID string) (*PaymentStatusResult, error) {
	payment, err := s.paymentRepo.GetByIDForUser(paymentID, user.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return &PaymentStatusResult{
		PaymentID: payment.ID,
		Status:    payment.Status,
		OrderID:   payment.OrderID,
	}, nil
}

var validOrderStatuses = map[string]bool{
	models.OrderPending:   true,
	models.OrderPreparing: true,
	models.OrderReady:     true,
	models.OrderCompleted: true,
	models.OrderCancelled: true,
}

// UpdateStatus moves an order to a new kitchen status.
func (s *OrderService) UpdateStatus(orderID, status string) error {
	if !validOrderStatuses[status] {
		return fmt.Errorf("invalid order status: %s", status)
	}
	if _, err := s.orderRepo.GetByID(orderID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("order %s not found", orderID)
		}
		return err
	}
	return s.orderRepo.UpdateStatus(orderID, status)
}
