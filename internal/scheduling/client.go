// Package scheduling talks to the external scheduling backend that owns
// calendar state and persists finalized bookings.
package scheduling

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/salonos/booking-engine/pkg/logging"
)

const defaultTimeout = 20 * time.Second

// Stylist is the staff payload carried on a booking submission.
type Stylist struct {
	Name       string `json:"name"`
	Role       string `json:"role"`
	ImageURL   string `json:"img"`
	CalendarID string `json:"calendar_id"`
}

// BookingRequest is the serialized draft sent to the backend.
type BookingRequest struct {
	Stylist         *Stylist `json:"stylist"`
	Service         string   `json:"service"`
	Date            string   `json:"date"`
	Time            string   `json:"time"`
	DurationMinutes int      `json:"duration_minutes"`
	Name            string   `json:"name"`
	Email           string   `json:"email"`
	Phone           string   `json:"phone"`
}

// BookingResult mirrors the backend's response envelope. Success false with
// an error string is a backend-reported rejection, not a transport failure.
type BookingResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Client is a lightweight HTTP client for the scheduling backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logging.Logger
}

// NewClient creates a scheduling backend client.
func NewClient(baseURL string, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger,
	}
}

// Slots fetches bookable times for a date. The stylist parameter is omitted
// from the query when empty.
func (c *Client) Slots(ctx context.Context, date time.Time, stylist string) ([]string, error) {
	if strings.TrimSpace(c.baseURL) == "" {
		return nil, fmt.Errorf("scheduling: missing base url")
	}

	q := url.Values{}
	q.Set("date", date.Format("2006-01-02"))
	if strings.TrimSpace(stylist) != "" {
		q.Set("stylist", stylist)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/availability?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("scheduling: create request: %w", err)
	}

	var out struct {
		Slots []string `json:"slots"`
	}
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return out.Slots, nil
}

// Book submits a finalized booking. Transport and non-2xx failures return an
// error; a 2xx with success=false is returned as-is for the caller to surface.
func (c *Client) Book(ctx context.Context, booking BookingRequest) (*BookingResult, error) {
	if strings.TrimSpace(c.baseURL) == "" {
		return nil, fmt.Errorf("scheduling: missing base url")
	}

	body, err := json.Marshal(booking)
	if err != nil {
		return nil, fmt.Errorf("scheduling: marshal booking: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/book", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("scheduling: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var out BookingResult
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("scheduling: http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("scheduling: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := string(respBody)
		if len(msg) > 300 {
			msg = msg[:300]
		}
		return fmt.Errorf("scheduling: status %d: %s", resp.StatusCode, msg)
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("scheduling: unmarshal response: %w", err)
	}
	return nil
}
