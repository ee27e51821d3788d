package repositories

import (
	"tunazugba/internal/models"

	"gorm.io/gorm"
)

// PaymentRepository defines the interface for payment data access.
type PaymentRepository interface {
	Create(payment *models.Payment) error
	GetByID(id string) (*models.Payment, error)
	GetByIDForUser(id, userID string) (*models.Payment, error)

	// FindByReferenceForUpdate looks a payment up by invoice or transaction id
	// inside tx, holding a row lock so concurrent webhook deliveries serialize
	// on the status check. Returns (nil, nil) when no payment matches.
	FindByReferenceForUpdate(tx *gorm.DB, invoiceID, transactionID string) (*models.Payment, error)

	// UpdateStatus transitions a payment's status outside any transaction
	// (used to record gateway failures).
	UpdateStatus(id, status string) error

	// SaveReferences stores the gateway transaction and invoice ids after a
	// charge is created.
	SaveReferences(id, transactionID, invoiceID string) error

	// MarkSuccess finalizes the payment within tx, attaching the order.
	MarkSuccess(tx *gorm.DB, id, orderID, transactionID string) error
}
