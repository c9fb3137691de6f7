package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MohammedSameer10/Automated-laundy-booking-system-2/internal/bookings"
	"github.com/MohammedSameer10/Automated-laundy-booking-system-2/internal/catalog"
	httpmiddleware "github.com/MohammedSameer10/Automated-laundy-booking-system-2/internal/http/middleware"
	"github.com/MohammedSameer10/Automated-laundy-booking-system-2/internal/slots"
	"github.com/MohammedSameer10/Automated-laundy-booking-system-2/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger          *logging.Logger
	BookingsHandler *bookings.Handler
	CatalogHandler  *catalog.Handler
	SlotsHandler    *slots.Handler

	JWTSecret          string
	CORSAllowedOrigins []string
	MetricsHandler     http.Handler
	RateLimitPerMinute int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
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
	if cfg.RateLimitPerMinute > 0 {
		r.Use(httpmiddleware.RateLimit(float64(cfg.RateLimitPerMinute)/60.0, cfg.RateLimitPerMinute))
	}

	// Public endpoints
	r.Group(func(public chi.Router) {
		public.Get("/health", healthCheck)
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}

		if cfg.CatalogHandler != nil {
			public.Route("/api/services", func(r chi.Router) {
				r.Get("/", cfg.CatalogHandler.ListServices)
				r.Get("/category/{category}", cfg.CatalogHandler.ListByCategory)
				if cfg.SlotsHandler != nil {
					r.Get("/slots/available", cfg.SlotsHandler.ListAvailable)
					r.Get("/slots/range", cfg.SlotsHandler.ListRange)
				}
				r.Get("/{id}", cfg.CatalogHandler.GetService)
			})
		}

		// Dry-run parsing needs no account; it books nothing.
		if cfg.BookingsHandler != nil {
			public.Post("/api/voice/parse", cfg.BookingsHandler.ParseCommand)
		}
	})

	// Customer routes (JWT required)
	if cfg.BookingsHandler != nil {
		r.Group(func(user chi.Router) {
			user.Use(httpmiddleware.UserJWT(cfg.JWTSecret))

			user.Route("/api/bookings", func(r chi.Router) {
				r.Post("/", cfg.BookingsHandler.CreateBooking)
				r.Get("/", cfg.BookingsHandler.ListBookings)
				r.Get("/{id}", cfg.BookingsHandler.GetBooking)
				r.Post("/{id}/cancel", cfg.BookingsHandler.CancelBooking)
			})
			user.Post("/api/voice/command", cfg.BookingsHandler.ExecuteCommand)
		})
	}

	// Admin routes (JWT with admin role)
	r.Route("/api/admin", func(admin chi.Router) {
		admin.Use(httpmiddleware.AdminJWT(cfg.JWTSecret))

		if cfg.BookingsHandler != nil {
			admin.Get("/bookings", cfg.BookingsHandler.AdminListBookings)
			admin.Patch("/bookings/{id}/status", cfg.BookingsHandler.AdminTransitionBooking)
		}
		if cfg.CatalogHandler != nil {
			admin.Route("/services", func(r chi.Router) {
				r.Post("/", cfg.CatalogHandler.CreateService)
				r.Put("/{id}", cfg.CatalogHandler.UpdateService)
				r.Delete("/{id}", cfg.CatalogHandler.DeleteService)
			})
		}
	})

	return r
}

func healthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
