package services

import (
	"errors"
	"fmt"
)

// Business-rule rejections surfaced to callers. Handlers map these onto HTTP
// statuses.
var (
	ErrCartEmpty         = errors.New("cart is empty")
	ErrStoreClosed       = errors.New("store is currently closed")
	ErrInvalidPickupTime = errors.New("invalid pickup time")
	ErrAccessDenied      = errors.New("access denied")
	ErrPaymentNotFound   = errors.New("payment not found")
	ErrUnsupportedMethod = errors.New("unsupported payment method")
	ErrInvalidOrderType  = errors.New("invalid order type")
)

// InsufficientStockError reports a stock shortfall for a menu item, either
// advisory at initiation or binding at materialization.
type InsufficientStockError struct {
	Name      string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s (requested: %d, available: %d)",
		e.Name, e.Requested, e.Available)
}

// GatewayError wraps a failure from the external payment provider. The
// associated payment has already been marked failed; the user must restart
// checkout.
type GatewayError struct {
	Err error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("payment gateway error: %v", e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}
