package models

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"sort"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CartLine is one item+addon combination in a user's cart. UnitPrice is a
// snapshot of the menu item's price at add-to-cart time. Lines are unique per
// (user, menu item, addon signature); adding an identical combination merges
// by summing quantity instead of creating a duplicate row.
type CartLine struct {
	ID             string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID         string          `json:"user_id" gorm:"type:varchar(36);index:idx_cart_combo,unique,priority:1"`
	MenuItemID     string          `json:"menu_item_id" gorm:"type:varchar(36);index:idx_cart_combo,unique,priority:2"`
	Quantity       int             `json:"quantity" validate:"required,gte=1"`
	UnitPrice      decimal.Decimal `json:"unit_price" gorm:"type:decimal(10,2)"`
	AddonSignature string          `json:"addon_signature" gorm:"type:varchar(32);index:idx_cart_combo,unique,priority:3"`
	IsSelected     bool            `json:"is_selected"`
	MenuItem       *MenuItem       `json:"menu_item,omitempty" gorm:"foreignKey:MenuItemID"`
	Addons         []CartAddon     `json:"addons" gorm:"foreignKey:CartLineID"`
	gorm.Model
}

// Subtotal is (unit price + addon prices) * quantity.
func (l *CartLine) Subtotal() decimal.Decimal {
	addonTotal := decimal.Zero
	for _, a := range l.Addons {
		addonTotal = addonTotal.Add(a.Price)
	}
	return l.UnitPrice.Add(addonTotal).Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// CartAddon attaches one addon to a cart line, with the addon's price
// captured at attach time.
type CartAddon struct {
	ID         string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CartLineID string          `json:"cart_line_id" gorm:"type:varchar(36);index"`
	AddonID    string          `json:"addon_id" gorm:"type:varchar(36)"`
	Price      decimal.Decimal `json:"price" gorm:"type:decimal(10,2)"`
	Addon      *Addon          `json:"addon,omitempty" gorm:"foreignKey:AddonID"`
	gorm.Model
}

// AddonSignature returns a stable hash of an addon-id set. IDs are
// de-duplicated and sorted first, so the signature does not depend on the
// order the client sent them in.
func AddonSignature(addonIDs []string) string {
	seen := make(map[string]bool, len(addonIDs))
	ids := make([]string, 0, len(addonIDs))
	for _, id := range addonIDs {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	encoded, _ := json.Marshal(ids)
	sum := md5.Sum(encoded)
	return hex.EncodeToString(sum[:])
}
