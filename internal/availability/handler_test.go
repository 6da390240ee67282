package availability

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salonos/booking-engine/internal/content"
)

func newTestHandler(t *testing.T, scheduleText string, source SlotSource) *Handler {
	t.Helper()
	store := content.NewMemoryStore()
	if scheduleText != "" {
		require.NoError(t, store.UpsertSetting(context.Background(), content.SettingOpeningHours, scheduleText))
	}
	h := NewHandler(store, NewChecker(source, nil, nil), nil)
	h.now = func() time.Time { return monday }
	return h
}

func TestGetSlots(t *testing.T) {
	h := newTestHandler(t, weekSchedule, &stubSource{slots: []string{"09:00"}})

	req := httptest.NewRequest(http.MethodGet, "/api/availability/slots?date=2026-09-07&stylist=Amelia", nil)
	rec := httptest.NewRecorder()
	h.GetSlots(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var result Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, []string{"09:00"}, result.Slots)
	assert.False(t, result.Closed)
}

func TestGetSlotsClosedDay(t *testing.T) {
	source := &stubSource{slots: []string{"09:00"}}
	h := newTestHandler(t, weekSchedule, source)

	req := httptest.NewRequest(http.MethodGet, "/api/availability/slots?date=2026-09-13", nil)
	rec := httptest.NewRecorder()
	h.GetSlots(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var result Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Closed)
	assert.Equal(t, ClosedMessage, result.Message)
	assert.Zero(t, source.calls)
}

func TestGetSlotsBadDate(t *testing.T) {
	h := newTestHandler(t, "", &stubSource{})

	req := httptest.NewRequest(http.MethodGet, "/api/availability/slots?date=tomorrow", nil)
	rec := httptest.NewRecorder()
	h.GetSlots(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetDisabledDates(t *testing.T) {
	h := newTestHandler(t, "Mon-Fri: 9 AM - 6 PM", &stubSource{})

	req := httptest.NewRequest(http.MethodGet, "/api/availability/disabled?from=2026-09-07&days=7", nil)
	rec := httptest.NewRecorder()
	h.GetDisabledDates(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var out struct {
		Disabled []string `json:"disabled"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	// The following Saturday and Sunday are the only closed days in range.
	assert.Equal(t, []string{"2026-09-12", "2026-09-13"}, out.Disabled)
}

func TestGetDisabledDatesIncludesPast(t *testing.T) {
	h := newTestHandler(t, "", &stubSource{})

	req := httptest.NewRequest(http.MethodGet, "/api/availability/disabled?from=2026-09-06&days=2", nil)
	rec := httptest.NewRecorder()
	h.GetDisabledDates(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var out struct {
		Disabled []string `json:"disabled"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, []string{"2026-09-06"}, out.Disabled, "yesterday is disabled even with no schedule")
}

func TestGetDisabledDatesBadParams(t *testing.T) {
	h := newTestHandler(t, "", &stubSource{})

	for _, target := range []string{
		"/api/availability/disabled?from=soon",
		"/api/availability/disabled?days=0",
		"/api/availability/disabled?days=x",
	} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rec := httptest.NewRecorder()
		h.GetDisabledDates(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}
