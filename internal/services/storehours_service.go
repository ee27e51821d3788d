package services

import (
	"fmt"
	"log"
	"strings"
	"time"

	"tunazugba/internal/models"
	"tunazugba/internal/repositories"
)

// Pickup scheduling constraints.
const (
	minPickupLeadTime   = 15 * time.Minute
	pickupClosingCutoff = 30 * time.Minute
	defaultStoreTZ      = "Asia/Manila"
)

// StoreHoursService answers the store-is-open and pickup-time questions for
// checkout.
type StoreHoursService struct {
	repo repositories.StoreRepository
}

// NewStoreHoursService creates a new StoreHoursService.
func NewStoreHoursService(repo repositories.StoreRepository) *StoreHoursService {
	return &StoreHoursService{
		repo: repo,
	}
}

// Settings returns the current store settings.
func (s *StoreHoursService) Settings() (*models.StoreSetting, error) {
	return s.repo.Get()
}

// Save persists updated store settings.
func (s *StoreHoursService) Save(setting *models.StoreSetting) error {
	return s.repo.Save(setting)
}

// Location resolves the store's timezone, falling back to the default when
// the configured zone is missing or invalid.
func (s *StoreHoursService) Location() *time.Location {
	setting, err := s.repo.Get()
	tz := defaultStoreTZ
	if err == nil && setting.Timezone != "" {
		tz = setting.Timezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("Invalid store timezone %q, falling back to UTC: %v", tz, err)
		return time.UTC
	}
	return loc
}

// IsOpen reports whether the store accepts orders at the given moment.
func (s *StoreHoursService) IsOpen(now time.Time) (bool, error) {
	setting, err := s.repo.Get()
	if err != nil {
		return false, err
	}
	if !setting.IsOpen {
		return false, nil
	}
	if setting.ClosedDay != "" && strings.EqualFold(setting.ClosedDay, now.Weekday().String()) {
		return false, nil
	}
	return true, nil
}

// ClosingTime resolves the store's closing time on the given day.
func (s *StoreHoursService) ClosingTime(now time.Time) (time.Time, error) {
	setting, err := s.repo.Get()
	if err != nil {
		return time.Time{}, err
	}
	parsed, err := time.Parse("15:04", setting.ClosingTime)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid closing time %q: %w", setting.ClosingTime, err)
	}
	return time.Date(now.Year(), now.Month(), now.Day(),
		parsed.Hour(), parsed.Minute(), 0, 0, now.Location()), nil
}

// ValidatePickup enforces the pickup scheduling rules: a pickup order needs a
// time at least 15 minutes out and no later than 30 minutes before closing.
func (s *StoreHoursService) ValidatePickup(orderType string, pickup *time.Time, now time.Time) error {
	if orderType != models.OrderPickup {
		return nil
	}
	if pickup == nil {
		return ErrInvalidPickupTime
	}

	closing, err := s.ClosingTime(now)
	if err != nil {
		return err
	}

	t := pickup.In(now.Location())
	if t.Before(now.Add(minPickupLeadTime)) || t.After(closing.Add(-pickupClosingCutoff)) {
		return ErrInvalidPickupTime
	}
	return nil
}
