package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Payment statuses. A payment starts pending and transitions exactly once to
// success or failed; both are terminal.
const (
	PaymentPending = "pending"
	PaymentSuccess = "success"
	PaymentFailed  = "failed"
)

// Payment methods accepted by the gateway.
const (
	MethodGCash   = "gcash"
	MethodPayMaya = "paymaya"
)

// Payment tracks one attempt to pay for the cart through the e-wallet
// gateway. CartSnapshot and DealsSnapshot are serialized at initiation time
// and are the sole source of truth for order construction at webhook time;
// the live cart is never re-read.
type Payment struct {
	ID        string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string          `json:"user_id" gorm:"type:varchar(36);index"`
	Method    string          `json:"method" gorm:"type:varchar(20)"`
	Amount    decimal.Decimal `json:"amount" gorm:"type:decimal(10,2)"`
	Status    string          `json:"status" gorm:"type:varchar(10);index"`
	OrderType string          `json:"order_type" gorm:"type:varchar(20)"`

	PickupTime *time.Time `json:"pickup_time,omitempty"`
	Notes      string     `json:"notes" gorm:"type:varchar(255)"`

	CartSnapshot  string `json:"-" gorm:"type:text"`
	DealsSnapshot string `json:"-" gorm:"type:text"`

	TransactionID string  `json:"transaction_id" gorm:"type:varchar(100);index"`
	InvoiceID     string  `json:"invoice_id" gorm:"type:varchar(100);index"`
	OrderID       *string `json:"order_id,omitempty" gorm:"type:varchar(36)"`
	gorm.Model
}
