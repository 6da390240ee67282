// Package router assembles the HTTP surface of the booking engine.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/salonos/booking-engine/internal/availability"
	"github.com/salonos/booking-engine/internal/http/handlers"
	httpmiddleware "github.com/salonos/booking-engine/internal/http/middleware"
	"github.com/salonos/booking-engine/internal/wizard"
	"github.com/salonos/booking-engine/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger              *logging.Logger
	AvailabilityHandler *availability.Handler
	WizardHandler       *wizard.Handler
	AdminContent        *handlers.AdminContent
	MetricsHandler      http.Handler
	AdminAuthSecret     string
	CORSAllowedOrigins  []string
}

// New creates the chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints used by the booking widget.
	r.Group(func(public chi.Router) {
		public.Get("/health", healthCheck)
		if cfg.AvailabilityHandler != nil {
			public.Route("/api/availability", func(r chi.Router) {
				r.Get("/slots", cfg.AvailabilityHandler.GetSlots)
				r.Get("/disabled", cfg.AvailabilityHandler.GetDisabledDates)
			})
		}
		if cfg.WizardHandler != nil {
			public.Mount("/api/wizard", cfg.WizardHandler.Routes())
		}
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
	})

	// Admin content management, JWT-gated.
	if cfg.AdminContent != nil {
		r.Group(func(admin chi.Router) {
			admin.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))
			admin.Mount("/admin", cfg.AdminContent.Routes())
		})
	}

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
