package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Discount types.
const (
	DiscountPercent = "percent"
	DiscountFixed   = "fixed"
)

// Day conditions. Besides these, DayCondition may hold a specific weekday
// name ("Monday" ... "Sunday") which matches only that day.
const (
	DayAll     = "All"
	DayWeekday = "Weekday"
	DayWeekend = "Weekend"
)

// User/time conditions dispatched on Promo.ConditionType.
const (
	ConditionNone       = "none"
	ConditionFirstTime  = "first_time"
	ConditionOrderCount = "order_count"
	ConditionTimeRange  = "time_range"
)

// Promo is stateless reference data describing a promotional discount. It is
// evaluated per-request by the promo evaluator and never mutated by checkout.
type Promo struct {
	ID            string           `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Code          string           `json:"code" gorm:"uniqueIndex;type:varchar(50)" validate:"required,min=2,max=50"`
	Description   string           `json:"description" gorm:"type:varchar(255)" validate:"omitempty,max=255"`
	DiscountType  string           `json:"discount_type" gorm:"type:varchar(10)" validate:"required,oneof=percent fixed"`
	DiscountValue decimal.Decimal  `json:"discount_value" gorm:"type:decimal(10,2)" validate:"required"`
	MinOrderTotal *decimal.Decimal `json:"min_order_total,omitempty" gorm:"type:decimal(10,2)"`
	DayCondition  string           `json:"day_condition" gorm:"type:varchar(20)"`
	ConditionType string           `json:"condition_type" gorm:"type:varchar(20)" validate:"omitempty,oneof=none first_time order_count time_range"`
	// ConditionValue is interpreted per ConditionType: the N of every-Nth-order
	// for order_count, or an "HH:MM-HH:MM" window for time_range.
	ConditionValue string     `json:"condition_value" gorm:"type:varchar(50)"`
	ValidFrom      *time.Time `json:"valid_from,omitempty"`
	ValidUntil     *time.Time `json:"valid_until,omitempty"`
	IsActive       bool       `json:"is_active"`
	gorm.Model
}
