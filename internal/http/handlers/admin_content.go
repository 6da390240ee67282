// Package handlers holds the admin HTTP handlers for managing the content
// that drives the booking flow.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/salonos/booking-engine/internal/content"
	"github.com/salonos/booking-engine/pkg/logging"
)

// AdminContent manages site settings, the price list, and the stylist roster.
type AdminContent struct {
	store  content.Store
	logger *logging.Logger
}

// NewAdminContent creates the admin content handler.
func NewAdminContent(store content.Store, logger *logging.Logger) *AdminContent {
	if store == nil {
		panic("handlers: content store cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &AdminContent{store: store, logger: logger}
}

// Routes returns the admin content route tree.
func (h *AdminContent) Routes() chi.Router {
	r := chi.NewRouter()
	r.Put("/settings/{key}", h.PutSetting)
	r.Put("/services", h.PutService)
	r.Put("/stylists", h.PutStylist)
	return r
}

// PutSetting creates or replaces a settings row, most importantly the
// opening-hours text.
func (h *AdminContent) PutSetting(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if key == "" {
		writeError(w, http.StatusBadRequest, "setting key is required")
		return
	}

	var body struct {
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.store.UpsertSetting(r.Context(), key, body.Value); err != nil {
		h.logger.Error("admin: failed to save setting", "key", key, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save setting")
		return
	}
	h.logger.Info("admin: setting updated", "key", key)
	writeJSON(w, http.StatusOK, map[string]string{"key": key, "value": body.Value})
}

// PutService creates or replaces a price-list row.
func (h *AdminContent) PutService(w http.ResponseWriter, r *http.Request) {
	var svc content.Service
	if err := json.NewDecoder(r.Body).Decode(&svc); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if svc.Name == "" {
		writeError(w, http.StatusBadRequest, "service name is required")
		return
	}

	if err := h.store.UpsertService(r.Context(), svc); err != nil {
		h.logger.Error("admin: failed to save service", "service", svc.Name, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save service")
		return
	}
	h.logger.Info("admin: service updated", "service", svc.Name, "duration_minutes", svc.DurationMinutes)
	writeJSON(w, http.StatusOK, svc)
}

// PutStylist creates or replaces a roster row.
func (h *AdminContent) PutStylist(w http.ResponseWriter, r *http.Request) {
	var st content.Stylist
	if err := json.NewDecoder(r.Body).Decode(&st); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if st.Name == "" {
		writeError(w, http.StatusBadRequest, "stylist name is required")
		return
	}

	if err := h.store.UpsertStylist(r.Context(), st); err != nil {
		h.logger.Error("admin: failed to save stylist", "stylist", st.Name, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save stylist")
		return
	}
	h.logger.Info("admin: stylist updated", "stylist", st.Name)
	writeJSON(w, http.StatusOK, st)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
