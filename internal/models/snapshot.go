package models

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// CartSnapshotVersion is the current snapshot schema version. Old pending
// payments keep the version they were serialized with, so a shape change
// bumps the version instead of silently corrupting them.
const CartSnapshotVersion = 1

// CartSnapshot is the immutable copy of a user's selected cart lines taken at
// payment-initiation time. Once serialized onto a Payment it is never
// rewritten; subsequent cart mutations do not affect a payment in flight.
type CartSnapshot struct {
	Version int            `json:"version"`
	Lines   []SnapshotLine `json:"lines"`
}

// SnapshotLine is one cart line frozen into a snapshot. UnitPrice is the
// add-to-cart price; addon prices and stock are resolved from the live addon
// table at snapshot time.
type SnapshotLine struct {
	CartLineID string          `json:"cart_line_id"`
	MenuItemID string          `json:"menu_item_id"`
	Name       string          `json:"name"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Addons     []SnapshotAddon `json:"addons"`
}

// Subtotal is (unit price + addon prices) * quantity.
func (l SnapshotLine) Subtotal() decimal.Decimal {
	addonTotal := decimal.Zero
	for _, a := range l.Addons {
		addonTotal = addonTotal.Add(a.Price)
	}
	return l.UnitPrice.Add(addonTotal).Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// SnapshotAddon is an addon resolved at snapshot time.
type SnapshotAddon struct {
	AddonID string          `json:"addon_id"`
	Name    string          `json:"name"`
	Price   decimal.Decimal `json:"price"`
	Stock   int             `json:"stock"`
}

// DealRef identifies one promo considered at initiation time. The promo is
// re-validated at materialization; the reference is never trusted blindly.
type DealRef struct {
	ID   string `json:"id"`
	Code string `json:"code"`
}

// EncodeCartSnapshot serializes a snapshot for storage on a Payment.
func EncodeCartSnapshot(s *CartSnapshot) (string, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("failed to encode cart snapshot: %w", err)
	}
	return string(b), nil
}

// DecodeCartSnapshot parses a stored snapshot and rejects unknown versions.
func DecodeCartSnapshot(raw string) (*CartSnapshot, error) {
	var s CartSnapshot
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, fmt.Errorf("failed to decode cart snapshot: %w", err)
	}
	if s.Version != CartSnapshotVersion {
		return nil, fmt.Errorf("unsupported cart snapshot version %d", s.Version)
	}
	return &s, nil
}

// EncodeDealsSnapshot serializes the promo references considered at initiation.
func EncodeDealsSnapshot(deals []DealRef) (string, error) {
	b, err := json.Marshal(deals)
	if err != nil {
		return "", fmt.Errorf("failed to encode deals snapshot: %w", err)
	}
	return string(b), nil
}

// DecodeDealsSnapshot parses stored promo references. An empty value decodes
// to no deals.
func DecodeDealsSnapshot(raw string) ([]DealRef, error) {
	if raw == "" {
		return nil, nil
	}
	var deals []DealRef
	if err := json.Unmarshal([]byte(raw), &deals); err != nil {
		return nil, fmt.Errorf("failed to decode deals snapshot: %w", err)
	}
	return deals, nil
}

// SnapshotLinesFromCart converts live cart lines into snapshot lines using
// the prices already stored on the cart rows. The snapshot builder uses live
// addon resolution instead; this conversion serves cart total display so both
// run through the same totals computation.
func SnapshotLinesFromCart(lines []CartLine) []SnapshotLine {
	out := make([]SnapshotLine, 0, len(lines))
	for _, l := range lines {
		sl := SnapshotLine{
			CartLineID: l.ID,
			MenuItemID: l.MenuItemID,
			Quantity:   l.Quantity,
			UnitPrice:  l.UnitPrice,
		}
		if l.MenuItem != nil {
			sl.Name = l.MenuItem.Name
		}
		for _, a := range l.Addons {
			sl.Addons = append(sl.Addons, SnapshotAddon{
				AddonID: a.AddonID,
				Price:   a.Price,
			})
		}
		out = append(out, sl)
	}
	return out
}
