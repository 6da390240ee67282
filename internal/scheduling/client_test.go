package scheduling

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlots(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		_ = json.NewEncoder(w).Encode(map[string][]string{"slots": {"09:00", "10:00"}})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	date := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

	slots, err := client.Slots(context.Background(), date, "Amelia Hart")
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "10:00"}, slots)
	assert.Equal(t, "/api/availability", gotPath)
	assert.Equal(t, "date=2026-09-07&stylist=Amelia+Hart", gotQuery)
}

func TestSlotsOmitsEmptyStylist(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.False(t, r.URL.Query().Has("stylist"))
		_ = json.NewEncoder(w).Encode(map[string][]string{"slots": {}})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	slots, err := client.Slots(context.Background(), time.Now(), "  ")
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestSlotsNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "calendar offline", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	_, err := client.Slots(context.Background(), time.Now(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
}

func TestSlotsMissingBaseURL(t *testing.T) {
	client := NewClient("", nil)
	_, err := client.Slots(context.Background(), time.Now(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing base url")
}

func TestBook(t *testing.T) {
	var got BookingRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/book", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(BookingResult{Success: true})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	result, err := client.Book(context.Background(), BookingRequest{
		Stylist:         &Stylist{Name: "Amelia Hart", CalendarID: "cal-1"},
		Service:         "Wash & cut",
		Date:            "2026-09-07",
		Time:            "10:00",
		DurationMinutes: 45,
		Name:            "Jo Customer",
		Phone:           "07700900000",
	})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "Wash & cut", got.Service)
	require.NotNil(t, got.Stylist)
	assert.Equal(t, "cal-1", got.Stylist.CalendarID)
}

func TestBookBackendRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(BookingResult{Success: false, Error: "slot already taken"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	result, err := client.Book(context.Background(), BookingRequest{})
	require.NoError(t, err, "a 2xx rejection is not a transport error")
	assert.False(t, result.Success)
	assert.Equal(t, "slot already taken", result.Error)
}

func TestBookTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused

	client := NewClient(srv.URL, nil)
	_, err := client.Book(context.Background(), BookingRequest{})
	require.Error(t, err)
}
