package services

import (
	"log"
	"strconv"
	"strings"
	"time"

	"tunazugba/internal/models"
	"tunazugba/internal/repositories"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PromoService evaluates whether promos apply to a user/cart/time
// combination. Evaluation is read-only: promos are reference data and are
// never mutated by checkout.
type PromoService struct {
	db        *gorm.DB
	promoRepo repositories.PromoRepository
	orderRepo repositories.OrderRepository
}

// NewPromoService creates a new PromoService.
func NewPromoService(db *gorm.DB, promoRepo repositories.PromoRepository, orderRepo repositories.OrderRepository) *PromoService {
	return &PromoService{
		db:        db,
		promoRepo: promoRepo,
		orderRepo: orderRepo,
	}
}

// ListActive returns the promos currently flagged active, for storefront
// display.
func (s *PromoService) ListActive() ([]models.Promo, error) {
	return s.promoRepo.ListActive()
}

// GetByIDs resolves promo references to rows; unknown IDs are dropped.
func (s *PromoService) GetByIDs(ids []string) ([]models.Promo, error) {
	return s.promoRepo.GetByIDs(ids)
}

// Applies reports whether the promo qualifies for this user, cart total, and
// moment. The user's prior order count is read fresh from the database.
func (s *PromoService) Applies(promo models.Promo, user *models.UserContext, cartTotal decimal.Decimal, now time.Time) (bool, error) {
	var priorOrders int64
	if user != nil {
		var err error
		priorOrders, err = s.orderRepo.CountByUser(s.db, user.ID)
		if err != nil {
			return false, err
		}
	}
	return AppliesWithCount(promo, user, priorOrders, cartTotal, now), nil
}

// AppliesWithCount evaluates a promo with the prior order count supplied by
// the caller. The order materializer uses this with a transaction-scoped
// count so the order being placed does not count toward its own conditions.
//
// Every gate must pass: active flag, validity window, day condition, minimum
// order total, then the user/time condition.
func AppliesWithCount(promo models.Promo, user *models.UserContext, priorOrders int64, cartTotal decimal.Decimal, now time.Time) bool {
	if !promo.IsActive {
		return false
	}
	if promo.ValidFrom != nil && now.Before(*promo.ValidFrom) {
		return false
	}
	if promo.ValidUntil != nil && now.After(*promo.ValidUntil) {
		return false
	}
	if !dayConditionMatches(promo.DayCondition, now.Weekday()) {
		return false
	}
	if promo.MinOrderTotal != nil && cartTotal.LessThan(*promo.MinOrderTotal) {
		return false
	}

	switch promo.ConditionType {
	case models.ConditionFirstTime:
		// Guests can never prove they are first-timers.
		return user != nil && priorOrders == 0

	case models.ConditionOrderCount:
		if user == nil {
			return false
		}
		required, err := strconv.Atoi(strings.TrimSpace(promo.ConditionValue))
		if err != nil || required <= 0 {
			return false
		}
		// Every Nth order, counting the one about to be placed.
		return (priorOrders+1)%int64(required) == 0

	case models.ConditionTimeRange:
		return timeRangeContains(promo.ConditionValue, now)

	default:
		// none, or an unset condition type.
		return true
	}
}

// dayConditionMatches checks the promo's day rule against a weekday.
// An empty condition behaves like All.
func dayConditionMatches(condition string, day time.Weekday) bool {
	switch strings.ToLower(strings.TrimSpace(condition)) {
	case "", strings.ToLower(models.DayAll):
		return true
	case strings.ToLower(models.DayWeekend):
		return day == time.Saturday || day == time.Sunday
	case strings.ToLower(models.DayWeekday):
		return day >= time.Monday && day <= time.Friday
	default:
		return strings.EqualFold(condition, day.String())
	}
}

// timeRangeContains parses an "HH:MM-HH:MM" window and checks whether now
// falls within it, inclusive on both ends. A missing or malformed value is
// simply non-applicable.
func timeRangeContains(value string, now time.Time) bool {
	parts := strings.SplitN(strings.TrimSpace(value), "-", 2)
	if len(parts) != 2 {
		return false
	}
	start := strings.TrimSpace(parts[0])
	end := strings.TrimSpace(parts[1])
	if _, err := time.Parse("15:04", start); err != nil {
		return false
	}
	if _, err := time.Parse("15:04", end); err != nil {
		return false
	}

	// Zero-padded HH:MM strings order lexicographically.
	current := now.Format("15:04")
	return current >= start && current <= end
}

// FilterApplicable evaluates each promo and returns only those that qualify,
// logging the ones that are dropped. Used both at initiation and when
// re-validating the deals snapshot at materialization time.
func FilterApplicable(promos []models.Promo, user *models.UserContext, priorOrders int64, cartTotal decimal.Decimal, now time.Time) []models.Promo {
	applicable := make([]models.Promo, 0, len(promos))
	for _, p := range promos {
		if !AppliesWithCount(p, user, priorOrders, cartTotal, now) {
			log.Printf("Skipping promo %s: conditions not met", p.Code)
			continue
		}
		applicable = append(applicable, p)
	}
	return applicable
}
