package services

import (
	"errors"
	"fmt"
	"log"

	"tunazugba/internal/models"
	"tunazugba/internal/notify"
	"tunazugba/internal/repositories"

	"gorm.io/gorm"
)

// NotificationService fans a paid order out to email, SMS and the in-app
// feed. It runs on the queue consumer, never on the webhook path.
type NotificationService struct {
	orderRepo        repositories.OrderRepository
	userRepo         repositories.UserRepository
	notificationRepo repositories.NotificationRepository
	mailer           notify.Mailer
	sms              notify.SMSSender
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(
	orderRepo repositories.OrderRepository,
	userRepo repositories.UserRepository,
	notificationRepo repositories.NotificationRepository,
	mailer notify.Mailer,
	sms notify.SMSSender,
) *NotificationService {
	return &NotificationService{
		orderRepo:        orderRepo,
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		mailer:           mailer,
		sms:              sms,
	}
}

// HandleOrderPaid sends the order confirmation over every channel. Email and
// SMS failures are logged and swallowed so one provider outage cannot block
// the others; only a failure to write the in-app record returns an error,
// which requeues the event.
func (s *NotificationService) HandleOrderPaid(orderID string) error {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// The event outlived the order; retrying will never help.
			log.Printf("Order %s not found, dropping notification", orderID)
			return nil
		}
		return fmt.Errorf("failed to load order %s: %w", orderID, err)
	}

	user, err := s.userRepo.GetByID(order.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("User %s not found for order %s, dropping notification", order.UserID, orderID)
			return nil
		}
		return fmt.Errorf("failed to load user %s: %w", order.UserID, err)
	}

	title := "Order confirmed"
	message := fmt.Sprintf("Hi %s, your order %s has been paid and is now being prepared. Total: ₱%s.",
		user.Name, shortOrderRef(order.ID), order.TotalAmount.StringFixed(2))

	if s.mailer != nil && user.Email != "" {
		if err := s.mailer.Send(user.Email, title, message); err != nil {
			log.Printf("Failed to send confirmation email for order %s: %v", orderID, err)
		}
	}

	if s.sms != nil && user.PhoneNumber != "" {
		if err := s.sms.Send(notify.NormalizeNumber(user.PhoneNumber), message); err != nil {
			log.Printf("Failed to send confirmation SMS for order %s: %v", orderID, err)
		}
	}

	if err := s.notificationRepo.Create(&models.Notification{
		UserID:  user.ID,
		Title:   title,
		Message: message,
		Type:    models.NotificationOrder,
	}); err != nil {
		return fmt.Errorf("failed to record notification for order %s: %w", orderID, err)
	}
	return nil
}

// ListForUser returns the user's notification feed, newest first.
func (s *NotificationService) ListForUser(user models.UserContext, limit int) ([]models.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.notificationRepo.ListForUser(user.ID, limit)
}

// MarkRead marks one of the user's notifications as read.
func (s *NotificationService) MarkRead(user models.UserContext, id string) error {
	return s.notificationRepo.MarkRead(user.ID, id)
}

// shortOrderRef shows the first id segment, enough for a human reference.
func shortOrderRef(id string) string {
	if len(id) > 8 {
		return "#" + id[:8]
	}
	return "#" + id
}
