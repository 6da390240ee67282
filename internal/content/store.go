// Package content provides the row-oriented settings, price-list, and
// stylist-roster storage backing the booking engine.
package content

import (
	"context"
	"errors"
)

// SettingOpeningHours is the settings key holding the weekly schedule text.
const SettingOpeningHours = "opening_hours"

// DefaultServiceDuration is assumed for services without a price-list row.
const DefaultServiceDuration = 60

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("content: not found")

// Stylist is one bookable staff member.
type Stylist struct {
	Name       string `json:"name"`
	Role       string `json:"role"`
	ImageURL   string `json:"img"`
	CalendarID string `json:"calendar_id"`
}

// Service is one price-list row. Only the duration matters to the booking
// flow; pricing display stays with the site.
type Service struct {
	Name            string `json:"name"`
	DurationMinutes int    `json:"duration_minutes"`
}

// Store is the content persistence contract.
type Store interface {
	// Setting returns the value for a settings key, or ErrNotFound.
	Setting(ctx context.Context, key string) (string, error)
	// UpsertSetting creates or replaces a settings key.
	UpsertSetting(ctx context.Context, key, value string) error
	// ServiceDurations returns service name to duration minutes for every
	// price-list row, substituting DefaultServiceDuration for rows without
	// a usable duration.
	ServiceDurations(ctx context.Context) (map[string]int, error)
	// UpsertService creates or replaces a price-list row.
	UpsertService(ctx context.Context, svc Service) error
	// Stylists returns the bookable staff roster.
	Stylists(ctx context.Context) ([]Stylist, error)
	// UpsertStylist creates or replaces a roster row keyed by name.
	UpsertStylist(ctx context.Context, s Stylist) error
}

// OpeningHours reads the schedule text, mapping a missing row to the empty
// string so callers get the fail-open default.
func OpeningHours(ctx context.Context, store Store) (string, error) {
	value, err := store.Setting(ctx, SettingOpeningHours)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	return value, err
}
