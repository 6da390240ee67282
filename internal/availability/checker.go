// Package availability decides whether the salon is open on a given date and
// resolves which time slots are bookable.
package availability

import (
	"context"
	"strings"
	"time"

	"github.com/salonos/booking-engine/internal/observability/metrics"
	"github.com/salonos/booking-engine/internal/schedule"
	"github.com/salonos/booking-engine/pkg/logging"
)

// DefaultSlots is served when the scheduling backend is unreachable so the
// booking flow stays usable on unprovisioned environments.
var DefaultSlots = []string{"09:00", "10:00", "11:00", "13:00", "14:00", "15:00", "16:00", "17:00"}

// ClosedMessage is surfaced when the requested date falls outside opening hours.
const ClosedMessage = "Sorry, we are closed on this day. Please select another date."

// IsOpenOnDate reports whether any schedule clause covers the date's weekday.
// An empty schedule text never blocks bookings: the salon is treated as open.
func IsOpenOnDate(scheduleText string, date time.Time) bool {
	if strings.TrimSpace(scheduleText) == "" {
		return true
	}
	return schedule.CoversDay(scheduleText, date.Weekday())
}

// DateDisabled reports whether the calendar picker should disable a date:
// dates before today always, and — only when a schedule text is configured —
// weekdays whose parsed grid has no open buckets at all.
func DateDisabled(scheduleText string, today, date time.Time) bool {
	if truncateDay(date).Before(truncateDay(today)) {
		return true
	}
	if strings.TrimSpace(scheduleText) == "" {
		return false
	}
	grid := schedule.Parse(scheduleText)
	return !grid.DayOpen(schedule.DayAbbrev(date.Weekday()))
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SlotSource queries the scheduling backend for bookable times.
type SlotSource interface {
	Slots(ctx context.Context, date time.Time, stylist string) ([]string, error)
}

// Result is the slot resolution for one (date, stylist) pair.
type Result struct {
	Slots   []string `json:"slots"`
	Closed  bool     `json:"closed"`
	Message string   `json:"message,omitempty"`
}

// Checker resolves bookable slots, masking backend failures behind the
// default slot set.
type Checker struct {
	source  SlotSource
	metrics *metrics.BookingMetrics
	logger  *logging.Logger
}

// NewChecker creates a slot checker.
func NewChecker(source SlotSource, m *metrics.BookingMetrics, logger *logging.Logger) *Checker {
	if logger == nil {
		logger = logging.Default()
	}
	return &Checker{source: source, metrics: m, logger: logger}
}

// SlotsForDate resolves the bookable slots for a date. Closed days skip the
// backend entirely and carry a user-facing message; backend failures degrade
// to DefaultSlots rather than surfacing an error.
func (c *Checker) SlotsForDate(ctx context.Context, scheduleText string, date time.Time, stylist string) Result {
	if !IsOpenOnDate(scheduleText, date) {
		c.metrics.ObserveSlotFetch("closed")
		return Result{Slots: []string{}, Closed: true, Message: ClosedMessage}
	}

	slots, err := c.source.Slots(ctx, date, stylist)
	if err != nil {
		c.logger.Warn("availability: backend unavailable, serving default slots",
			"date", date.Format("2006-01-02"),
			"stylist", stylist,
			"error", err,
		)
		c.metrics.ObserveSlotFetch("fallback")
		return Result{Slots: append([]string(nil), DefaultSlots...)}
	}
	if slots == nil {
		slots = []string{}
	}
	c.metrics.ObserveSlotFetch("ok")
	return Result{Slots: slots}
}
