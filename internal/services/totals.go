package services

import (
	"tunazugba/internal/models"

	"github.com/shopspring/decimal"
)

// OrderTotals is the single normalized breakdown of an order's pricing.
type OrderTotals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`
}

// ComputeOrderTotals computes subtotal, discount, and final total from
// snapshot lines and the promos being honored. Every place that needs an
// order total goes through this function so listing, checkout, and
// materialization can never drift apart.
//
// Discounts are additive across promos; each promo is individually capped at
// the subtotal but the aggregate is not, so the final total is floored at
// zero rather than each discount being reduced.
func ComputeOrderTotals(lines []models.SnapshotLine, promos []models.Promo) OrderTotals {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.Subtotal())
	}

	discount := decimal.Zero
	for _, p := range promos {
		discount = discount.Add(DiscountAmount(p, subtotal))
	}

	total := subtotal.Sub(discount)
	if total.IsNegative() {
		total = decimal.Zero
	}

	return OrderTotals{
		Subtotal: subtotal,
		Discount: discount,
		Total:    total,
	}
}

// DiscountAmount computes a single promo's discount against a cart total.
// Percent promos take value% of the total; fixed promos take the value
// directly, capped so one promo can never exceed the total it applies to.
func DiscountAmount(p models.Promo, cartTotal decimal.Decimal) decimal.Decimal {
	var d decimal.Decimal
	switch p.DiscountType {
	case models.DiscountPercent:
		d = cartTotal.Mul(p.DiscountValue).Div(decimal.NewFromInt(100))
	case models.DiscountFixed:
		d = p.DiscountValue
	default:
		return decimal.Zero
	}

	if d.IsNegative() {
		return decimal.Zero
	}
	if d.GreaterThan(cartTotal) {
		return cartTotal
	}
	return d
}
