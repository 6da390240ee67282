package availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const weekSchedule = "Mon-Fri: 9 AM - 6 PM, Sat: 10 AM - 4 PM"

// 2026-09-07 is a Monday.
var (
	monday   = time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	saturday = time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)
	sunday   = time.Date(2026, 9, 13, 0, 0, 0, 0, time.UTC)
)

type stubSource struct {
	slots []string
	err   error

	gotDate    time.Time
	gotStylist string
	calls      int
}

func (s *stubSource) Slots(ctx context.Context, date time.Time, stylist string) ([]string, error) {
	s.calls++
	s.gotDate = date
	s.gotStylist = stylist
	return s.slots, s.err
}

func TestIsOpenOnDate(t *testing.T) {
	assert.True(t, IsOpenOnDate(weekSchedule, monday))
	assert.True(t, IsOpenOnDate(weekSchedule, saturday))
	assert.False(t, IsOpenOnDate(weekSchedule, sunday))
}

func TestIsOpenOnDateFailOpen(t *testing.T) {
	assert.True(t, IsOpenOnDate("", sunday))
	assert.True(t, IsOpenOnDate("   ", sunday))
}

func TestIsOpenOnDateClosedText(t *testing.T) {
	// "closed" has no valid clause, so no day is covered.
	assert.False(t, IsOpenOnDate("closed", monday))
}

func TestDateDisabledPastDates(t *testing.T) {
	yesterday := monday.AddDate(0, 0, -1)
	assert.True(t, DateDisabled("", monday, yesterday))
	// Time of day is zeroed for the comparison.
	assert.False(t, DateDisabled("", monday.Add(23*time.Hour), monday))
}

func TestDateDisabledClosedWeekday(t *testing.T) {
	assert.False(t, DateDisabled(weekSchedule, monday, saturday))
	assert.True(t, DateDisabled(weekSchedule, monday, sunday))
}

func TestDateDisabledNoScheduleNeverDisablesFuture(t *testing.T) {
	assert.False(t, DateDisabled("", monday, sunday))
}

func TestDateDisabledUnparseableHours(t *testing.T) {
	// Day-spec matches but every time range fails to parse: day-level check
	// says open, the picker still excludes the date.
	const text = "Sun: whenever"
	assert.True(t, IsOpenOnDate(text, sunday))
	assert.True(t, DateDisabled(text, monday, sunday))
}

func TestSlotsForDateBackendOK(t *testing.T) {
	source := &stubSource{slots: []string{"10:00", "11:30"}}
	checker := NewChecker(source, nil, nil)

	result := checker.SlotsForDate(context.Background(), weekSchedule, monday, "Amelia Hart")
	assert.Equal(t, []string{"10:00", "11:30"}, result.Slots)
	assert.False(t, result.Closed)
	assert.Empty(t, result.Message)
	assert.Equal(t, "Amelia Hart", source.gotStylist)
	assert.Equal(t, monday, source.gotDate)
}

func TestSlotsForDateBackendFailureFallsBack(t *testing.T) {
	source := &stubSource{err: errors.New("connection refused")}
	checker := NewChecker(source, nil, nil)

	result := checker.SlotsForDate(context.Background(), weekSchedule, monday, "")
	assert.Equal(t, DefaultSlots, result.Slots)
	assert.False(t, result.Closed)
}

func TestSlotsForDateClosedSkipsBackend(t *testing.T) {
	source := &stubSource{slots: []string{"10:00"}}
	checker := NewChecker(source, nil, nil)

	result := checker.SlotsForDate(context.Background(), weekSchedule, sunday, "")
	require.True(t, result.Closed)
	assert.Empty(t, result.Slots)
	assert.Equal(t, ClosedMessage, result.Message)
	assert.Zero(t, source.calls, "closed days must not hit the backend")
}

func TestSlotsForDateNilSlotsNormalized(t *testing.T) {
	source := &stubSource{}
	checker := NewChecker(source, nil, nil)

	result := checker.SlotsForDate(context.Background(), "", monday, "")
	assert.NotNil(t, result.Slots)
	assert.Empty(t, result.Slots)
}
