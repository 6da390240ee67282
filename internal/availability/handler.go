package availability

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/salonos/booking-engine/internal/content"
	"github.com/salonos/booking-engine/pkg/logging"
)

const dateLayout = "2006-01-02"

// Handler serves the availability endpoints consumed by the booking UI.
type Handler struct {
	store   content.Store
	checker *Checker
	logger  *logging.Logger
	now     func() time.Time
}

// NewHandler creates an availability handler.
func NewHandler(store content.Store, checker *Checker, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{store: store, checker: checker, logger: logger, now: time.Now}
}

// GetSlots resolves bookable slots for ?date=YYYY-MM-DD[&stylist=name].
func (h *Handler) GetSlots(w http.ResponseWriter, r *http.Request) {
	date, err := time.Parse(dateLayout, r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	text, err := content.OpeningHours(r.Context(), h.store)
	if err != nil {
		h.logger.Error("availability: failed to load opening hours", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load opening hours")
		return
	}

	result := h.checker.SlotsForDate(r.Context(), text, date, r.URL.Query().Get("stylist"))
	writeJSON(w, http.StatusOK, result)
}

// GetDisabledDates returns the picker-exclusion list for a date range:
// ?from=YYYY-MM-DD&days=N (from defaults to today, days to 31, capped at 92).
func (h *Handler) GetDisabledDates(w http.ResponseWriter, r *http.Request) {
	today := h.now()

	from := today
	if raw := r.URL.Query().Get("from"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "from must be YYYY-MM-DD")
			return
		}
		from = parsed
	}

	days := 31
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "days must be a positive integer")
			return
		}
		days = parsed
	}
	if days > 92 {
		days = 92
	}

	text, err := content.OpeningHours(r.Context(), h.store)
	if err != nil {
		h.logger.Error("availability: failed to load opening hours", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load opening hours")
		return
	}

	disabled := make([]string, 0)
	for i := 0; i < days; i++ {
		date := from.AddDate(0, 0, i)
		if DateDisabled(text, today, date) {
			disabled = append(disabled, date.Format(dateLayout))
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"disabled": disabled})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
