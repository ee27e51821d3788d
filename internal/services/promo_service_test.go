package services_test

import (
	"testing"
	"time"

	"tunazugba/internal/models"
	"tunazugba/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var (
	// A Wednesday at 14:30 Manila time.
	wednesdayAfternoon = time.Date(2026, 8, 26, 14, 30, 0, 0, time.UTC)
	// A Saturday at 09:00.
	saturdayMorning = time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)
)

func activePromo() models.Promo {
	return models.Promo{
		ID:            "promo-1",
		Code:          "TENOFF",
		DiscountType:  models.DiscountPercent,
		DiscountValue: decimal.NewFromInt(10),
		IsActive:      true,
	}
}

func testUser() *models.UserContext {
	return &models.UserContext{ID: "user-1", Name: "Juan"}
}

func TestApplies_InactivePromoFails(t *testing.T) {
	promo := activePromo()
	promo.IsActive = false

	assert.False(t, services.AppliesWithCount(promo, testUser(), 0, decimal.NewFromInt(500), wednesdayAfternoon))
}

func TestApplies_ValidityWindow(t *testing.T) {
	promo := activePromo()
	from := wednesdayAfternoon.Add(time.Hour)
	promo.ValidFrom = &from
	assert.False(t, services.AppliesWithCount(promo, testUser(), 0, decimal.NewFromInt(500), wednesdayAfternoon),
		"promo not yet valid must fail")

	promo = activePromo()
	until := wednesdayAfternoon.Add(-time.Hour)
	promo.ValidUntil = &until
	assert.False(t, services.AppliesWithCount(promo, testUser(), 0, decimal.NewFromInt(500), wednesdayAfternoon),
		"expired promo must fail")

	promo = activePromo()
	from = wednesdayAfternoon.Add(-time.Hour)
	until = wednesdayAfternoon.Add(time.Hour)
	promo.ValidFrom = &from
	promo.ValidUntil = &until
	assert.True(t, services.AppliesWithCount(promo, testUser(), 0, decimal.NewFromInt(500), wednesdayAfternoon))
}

func TestApplies_DayConditions(t *testing.T) {
	cases := []struct {
		name      string
		condition string
		now       time.Time
		want      bool
	}{
		{"all matches weekday", models.DayAll, wednesdayAfternoon, true},
		{"empty behaves like all", "", saturdayMorning, true},
		{"weekday on wednesday", models.DayWeekday, wednesdayAfternoon, true},
		{"weekday on saturday", models.DayWeekday, saturdayMorning, false},
		{"weekend on saturday", models.DayWeekend, saturdayMorning, true},
		{"weekend on wednesday", models.DayWeekend, wednesdayAfternoon, false},
		{"named day matches", "Wednesday", wednesdayAfternoon, true},
		{"named day case-insensitive", "wednesday", wednesdayAfternoon, true},
		{"named day mismatch", "Monday", wednesdayAfternoon, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			promo := activePromo()
			promo.DayCondition = tc.condition
			got := services.AppliesWithCount(promo, testUser(), 0, decimal.NewFromInt(500), tc.now)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestApplies_MinOrderTotal(t *testing.T) {
	promo := activePromo()
	min := decimal.NewFromInt(300)
	promo.MinOrderTotal = &min

	assert.False(t, services.AppliesWithCount(promo, testUser(), 0, decimal.NewFromInt(299), wednesdayAfternoon))
	assert.True(t, services.AppliesWithCount(promo, testUser(), 0, decimal.NewFromInt(300), wednesdayAfternoon),
		"minimum is inclusive")
}

func TestApplies_FirstTime(t *testing.T) {
	promo := activePromo()
	promo.ConditionType = models.ConditionFirstTime

	assert.True(t, services.AppliesWithCount(promo, testUser(), 0, decimal.NewFromInt(500), wednesdayAfternoon))
	assert.False(t, services.AppliesWithCount(promo, testUser(), 1, decimal.NewFromInt(500), wednesdayAfternoon),
		"a single prior order disqualifies first-time")
	assert.False(t, services.AppliesWithCount(promo, nil, 0, decimal.NewFromInt(500), wednesdayAfternoon),
		"guests are never first-time")
}

func TestApplies_OrderCount(t *testing.T) {
	promo := activePromo()
	promo.ConditionType = models.ConditionOrderCount
	promo.ConditionValue = "5"

	// The order being placed counts: with 4 priors this is the 5th order.
	assert.True(t, services.AppliesWithCount(promo, testUser(), 4, decimal.NewFromInt(500), wednesdayAfternoon))
	assert.False(t, services.AppliesWithCount(promo, testUser(), 3, decimal.NewFromInt(500), wednesdayAfternoon))
	assert.True(t, services.AppliesWithCount(promo, testUser(), 9, decimal.NewFromInt(500), wednesdayAfternoon),
		"every 5th order qualifies, not just the first")

	promo.ConditionValue = "not-a-number"
	assert.False(t, services.AppliesWithCount(promo, testUser(), 4, decimal.NewFromInt(500), wednesdayAfternoon))

	promo.ConditionValue = "0"
	assert.False(t, services.AppliesWithCount(promo, testUser(), 4, decimal.NewFromInt(500), wednesdayAfternoon))
}

func TestApplies_TimeRange(t *testing.T) {
	promo := activePromo()
	promo.ConditionType = models.ConditionTimeRange
	promo.ConditionValue = "14:00-17:00"

	assert.True(t, services.AppliesWithCount(promo, testUser(), 0, decimal.NewFromInt(500), wednesdayAfternoon))
	assert.False(t, services.AppliesWithCount(promo, testUser(), 0, decimal.NewFromInt(500), saturdayMorning))

	// Boundaries are inclusive.
	twoPM := time.Date(2026, 8, 26, 14, 0, 0, 0, time.UTC)
	fivePM := time.Date(2026, 8, 26, 17, 0, 0, 0, time.UTC)
	assert.True(t, services.AppliesWithCount(promo, testUser(), 0, decimal.NewFromInt(500), twoPM))
	assert.True(t, services.AppliesWithCount(promo, testUser(), 0, decimal.NewFromInt(500), fivePM))

	promo.ConditionValue = "garbage"
	assert.False(t, services.AppliesWithCount(promo, testUser(), 0, decimal.NewFromInt(500), wednesdayAfternoon))
}

func TestFilterApplicable_DropsFailures(t *testing.T) {
	good := activePromo()
	bad := activePromo()
	bad.ID = "promo-2"
	bad.Code = "DEAD"
	bad.IsActive = false

	kept := services.FilterApplicable([]models.Promo{good, bad}, testUser(), 0, decimal.NewFromInt(500), wednesdayAfternoon)

	assert.Len(t, kept, 1)
	assert.Equal(t, "TENOFF", kept[0].Code)
}
