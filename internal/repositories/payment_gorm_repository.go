package repositories

import (
	"fmt"
	"tunazugba/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMPaymentRepository is a GORM implementation of PaymentRepository.
type GORMPaymentRepository struct {
	db *gorm.DB
}

// NewGORMPaymentRepository creates a new instance of GORMPaymentRepository.
func NewGORMPaymentRepository(db *gorm.DB) *GORMPaymentRepository {
	return &GORMPaymentRepository{
		db: db,
	}
}

// Create creates a new payment row.
func (r *GORMPaymentRepository) Create(payment *models.Payment) error {
	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}
	if err := r.db.Create(payment).Error; err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

// GetByID retrieves a payment by its ID.
func (r *GORMPaymentRepository) GetByID(id string) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.First(&payment, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("payment with ID %s not found: %w", id, err)
		}
		return nil, fmt.Errorf("failed to get payment %s: %w", id, err)
	}
	return &payment, nil
}

// GetByIDForUser retrieves a payment scoped to its owner, for status polling.
func (r *GORMPaymentRepository) GetByIDForUser(id, userID string) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.First(&payment, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("payment with ID %s not found: %w", id, err)
		}
		return nil, fmt.Errorf("failed to get payment %s: %w", id, err)
	}
	return &payment, nil
}

// FindByReferenceForUpdate locks and returns the payment matching either
// reference. The lock is what makes duplicate webhook deliveries safe: the
// second delivery blocks here until the first commits, then sees the
// already-success status.
func (r *GORMPaymentRepository) FindByReferenceForUpdate(tx *gorm.DB, invoiceID, transactionID string) (*models.Payment, error) {
	q := forUpdate(tx)
	switch {
	case invoiceID != "" && transactionID != "":
		q = q.Where("invoice_id = ? OR transaction_id = ?", invoiceID, transactionID)
	case invoiceID != "":
		q = q.Where("invoice_id = ?", invoiceID)
	default:
		// Never match rows whose references are still empty.
		q = q.Where("transaction_id = ? AND transaction_id <> ''", transactionID)
	}

	var payment models.Payment
	err := q.First(&payment).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up payment by reference %s: %w", invoiceID, err)
	}
	return &payment, nil
}

// UpdateStatus transitions a payment's status.
func (r *GORMPaymentRepository) UpdateStatus(id, status string) error {
	res := r.db.Model(&models.Payment{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("failed to update status for payment %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("payment with ID %s not found for update", id)
	}
	return nil
}

// SaveReferences stores the gateway references on the pending payment.
func (r *GORMPaymentRepository) SaveReferences(id, transactionID, invoiceID string) error {
	err := r.db.Model(&models.Payment{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"transaction_id": transactionID,
			"invoice_id":     invoiceID,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to save references for payment %s: %w", id, err)
	}
	return nil
}

// MarkSuccess finalizes the payment inside the materialization transaction.
func (r *GORMPaymentRepository) MarkSuccess(tx *gorm.DB, id, orderID, transactionID string) error {
	updates := map[string]interface{}{
		"status":   models.PaymentSuccess,
		"order_id": orderID,
	}
	if transactionID != "" {
		updates["transaction_id"] = transactionID
	}
	err := tx.Model(&models.Payment{}).Where("id = ?", id).Updates(updates).Error
	if err != nil {
		return fmt.Errorf("failed to mark payment %s successful: %w", id, err)
	}
	return nil
}
