package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/oakpoint-health/intake-scheduler/cmd/mainconfig"
	"github.com/oakpoint-health/intake-scheduler/internal/api/router"
	appconfig "github.com/oakpoint-health/intake-scheduler/internal/config"
	"github.com/oakpoint-health/intake-scheduler/internal/directory"
	"github.com/oakpoint-health/intake-scheduler/internal/http/handlers"
	"github.com/oakpoint-health/intake-scheduler/internal/notify"
	"github.com/oakpoint-health/intake-scheduler/internal/observability/metrics"
	"github.com/oakpoint-health/intake-scheduler/internal/schedule"
	"github.com/oakpoint-health/intake-scheduler/internal/session"
	"github.com/oakpoint-health/intake-scheduler/pkg/logging"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting intake-scheduler API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Error("invalid timezone", "timezone", cfg.Timezone, "error", err)
		os.Exit(1)
	}

	// Physician roster
	roster := directory.DefaultRoster()
	if cfg.RosterJSON != "" {
		roster, err = directory.ParseRoster([]byte(cfg.RosterJSON))
		if err != nil {
			logger.Error("failed to parse roster", "error", err)
			os.Exit(1)
		}
	}
	dir := directory.New(roster, cfg.MatchThreshold)
	logger.Info("physician roster loaded", "physicians", len(roster))

	// Scheduler with the configured workday window
	workday := schedule.Workday{
		StartHour:    cfg.WorkdayStartHour,
		EndHour:      cfg.WorkdayEndHour,
		SlotDuration: cfg.SlotDuration,
	}
	sched := schedule.NewScheduler(workday, logger)

	// Notification pipeline
	emailSender := buildEmailSender(cfg, logger)
	notifier := notify.NewService(emailSender, cfg.NotifyRecipients, logger)

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	bookingMetrics := metrics.NewBookingMetrics(registry)

	manager := session.NewManager(session.ManagerConfig{
		Directory: dir,
		Scheduler: sched,
		Notifier:  notifier,
		Metrics:   bookingMetrics,
		Logger:    logger,
		Location:  loc,
	})

	// Setup router
	routerCfg := &router.Config{
		Logger:             logger,
		SessionHandler:     handlers.NewSessionHandler(manager, logger),
		PhysicianHandler:   handlers.NewPhysicianHandler(dir, sched, loc, logger),
		MetricsHandler:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	}
	r := router.New(routerCfg)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

// buildEmailSender picks the confirmation email transport from config. The
// stub sender keeps the pipeline exercised in development.
func buildEmailSender(cfg *appconfig.Config, logger *logging.Logger) notify.EmailSender {
	switch cfg.EmailProvider {
	case "sendgrid":
		sender := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger)
		if sender == nil {
			logger.Warn("sendgrid selected but no API key set, falling back to stub sender")
			return notify.NewStubEmailSender(logger)
		}
		return sender
	case "ses":
		awsCfg, err := mainconfig.LoadAWSConfig(context.Background(), cfg)
		if err != nil {
			logger.Error("failed to load AWS config", "error", err)
			os.Exit(1)
		}
		return notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail: cfg.SESFromEmail,
			FromName:  cfg.SESFromName,
		}, logger)
	default:
		return notify.NewStubEmailSender(logger)
	}
}
