package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/oakpoint-health/intake-scheduler/internal/http/handlers"
	httpmiddleware "github.com/oakpoint-health/intake-scheduler/internal/http/middleware"
	"github.com/oakpoint-health/intake-scheduler/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	SessionHandler     *handlers.SessionHandler
	PhysicianHandler   *handlers.PhysicianHandler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`)) //nolint:errcheck
	})
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	// Read-only roster helpers
	r.Route("/physicians", func(r chi.Router) {
		r.Get("/", cfg.PhysicianHandler.List)
		r.Get("/{physicianID}/slots", cfg.PhysicianHandler.AvailableSlots)
	})

	// Booking session operations, invoked by the dialogue driver
	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", cfg.SessionHandler.Create)
		r.Route("/{sessionID}", func(r chi.Router) {
			r.Patch("/patient", cfg.SessionHandler.UpdatePatient)
			r.Put("/physician", cfg.SessionHandler.SelectPhysician)
			r.Get("/slots", cfg.SessionHandler.AvailableSlots)
			r.Post("/slots/check", cfg.SessionHandler.CheckSlot)
			r.Put("/slot", cfg.SessionHandler.SelectSlot)
			r.Post("/confirm", cfg.SessionHandler.Confirm)
			r.Post("/book", cfg.SessionHandler.Book)
			r.Delete("/", cfg.SessionHandler.End)
		})
	})

	return r
}
