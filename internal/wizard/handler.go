package wizard

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/salonos/booking-engine/pkg/logging"
)

// Handler exposes the wizard events over HTTP.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a wizard HTTP handler.
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// Routes returns the wizard route tree, mounted under /api/wizard.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Start)
	r.Route("/{sessionID}", func(r chi.Router) {
		r.Get("/", h.GetState)
		r.Post("/stylist", h.SelectStylist)
		r.Post("/skip", h.Skip)
		r.Post("/service", h.SelectService)
		r.Post("/date", h.SelectDate)
		r.Post("/time", h.SelectTime)
		r.Post("/contact", h.SetContact)
		r.Post("/next", h.Next)
		r.Post("/back", h.Back)
		r.Post("/submit", h.Submit)
		r.Post("/restart", h.Restart)
	})
	return r
}

// Start opens a new wizard session.
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	sess, err := h.service.Start(r.Context())
	if err != nil {
		h.logger.Error("wizard: failed to start session", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to start session")
		return
	}
	writeJSON(w, http.StatusCreated, sess.View())
}

// GetState returns the current wizard view.
func (h *Handler) GetState(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.View())
}

func (h *Handler) SelectStylist(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if !decode(w, r, &body) {
		return
	}
	h.apply(w, r, func(sess *Session) error {
		return sess.SelectStylist(r.Context(), body.Name)
	})
}

func (h *Handler) Skip(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, func(sess *Session) error { return sess.Skip() })
}

func (h *Handler) SelectService(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if !decode(w, r, &body) {
		return
	}
	h.apply(w, r, func(sess *Session) error { return sess.SelectService(body.Name) })
}

func (h *Handler) SelectDate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Date string `json:"date"`
	}
	if !decode(w, r, &body) {
		return
	}
	h.apply(w, r, func(sess *Session) error {
		return sess.SelectDate(r.Context(), body.Date)
	})
}

func (h *Handler) SelectTime(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Time string `json:"time"`
	}
	if !decode(w, r, &body) {
		return
	}
	h.apply(w, r, func(sess *Session) error { return sess.SelectTime(body.Time) })
}

func (h *Handler) SetContact(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name  string `json:"name"`
		Email string `json:"email"`
		Phone string `json:"phone"`
	}
	if !decode(w, r, &body) {
		return
	}
	h.apply(w, r, func(sess *Session) error {
		return sess.SetContact(body.Name, body.Email, body.Phone)
	})
}

func (h *Handler) Next(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, func(sess *Session) error { return sess.Next() })
}

func (h *Handler) Back(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, func(sess *Session) error { return sess.Back() })
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, func(sess *Session) error { return sess.Submit(r.Context()) })
}

func (h *Handler) Restart(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, func(sess *Session) error { return sess.Restart() })
}

// apply runs one wizard event and responds with the refreshed view.
func (h *Handler) apply(w http.ResponseWriter, r *http.Request, event func(*Session) error) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := event(sess); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	h.service.Persist(r.Context(), sess)
	writeJSON(w, http.StatusOK, sess.View())
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	id := chi.URLParam(r, "sessionID")
	sess, err := h.service.Get(r.Context(), id)
	if err != nil {
		if IsNotFound(err) {
			writeError(w, http.StatusNotFound, "unknown session")
			return nil, false
		}
		h.logger.Error("wizard: failed to load session", "session_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load session")
		return nil, false
	}
	return sess, true
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrBadDate):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnknownStylist), errors.Is(err, ErrUnknownSlot):
		return http.StatusUnprocessableEntity
	default:
		// Transition gates: the action conflicts with the current state.
		return http.StatusConflict
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
