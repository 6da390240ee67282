package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/salonos/booking-engine/internal/api/router"
	"github.com/salonos/booking-engine/internal/availability"
	appconfig "github.com/salonos/booking-engine/internal/config"
	"github.com/salonos/booking-engine/internal/content"
	"github.com/salonos/booking-engine/internal/http/handlers"
	"github.com/salonos/booking-engine/internal/observability/metrics"
	"github.com/salonos/booking-engine/internal/scheduling"
	"github.com/salonos/booking-engine/internal/wizard"
	"github.com/salonos/booking-engine/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting booking-engine API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	// Content storage: postgres when configured, in-memory otherwise so the
	// widget works on unprovisioned environments.
	var store content.Store
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to create postgres pool", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		store = content.NewPostgresStore(pool)
		logger.Info("content store: postgres")
	} else {
		store = content.NewMemoryStore()
		logger.Warn("content store: in-memory, DATABASE_URL not set")
	}

	// Session drafts survive restarts only when redis is configured.
	var drafts *wizard.DraftStore
	if cfg.RedisAddr != "" {
		opts := &redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		client := redis.NewClient(opts)
		defer client.Close()
		drafts = wizard.NewDraftStore(client, cfg.SessionTTL, nil)
		logger.Info("session drafts: redis", "addr", cfg.RedisAddr)
	} else {
		logger.Warn("session drafts: disabled, REDIS_ADDR not set")
	}

	bookingMetrics := metrics.NewBookingMetrics(prometheus.DefaultRegisterer)
	schedulingClient := scheduling.NewClient(cfg.SchedulingBaseURL, logger)
	checker := availability.NewChecker(schedulingClient, bookingMetrics, logger)

	wizardService := wizard.NewService(wizard.Config{
		Content:        store,
		Fetcher:        checker,
		Booker:         schedulingClient,
		Drafts:         drafts,
		Metrics:        bookingMetrics,
		Logger:         logger,
		AllowSimulated: cfg.AllowSimulatedBookings,
		SimulateDelay:  cfg.SimulatedBookingDelay,
	})

	r := router.New(&router.Config{
		Logger:              logger,
		AvailabilityHandler: availability.NewHandler(store, checker, logger),
		WizardHandler:       wizard.NewHandler(wizardService, logger),
		AdminContent:        handlers.NewAdminContent(store, logger),
		MetricsHandler:      promhttp.Handler(),
		AdminAuthSecret:     cfg.AdminJWTSecret,
		CORSAllowedOrigins:  cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
