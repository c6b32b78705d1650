package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// SetupRoutes configures all API routes.
func SetupRoutes(h *Handlers) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)

	// CORS - the dashboard frontend runs on a separate origin in dev
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"https://fluvi.cl", "http://localhost:5173", "http://localhost:8080"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	// Health check
	r.Get("/health", h.HandleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/summary", h.HandleSummary)

		r.Get("/customers", h.HandleCustomers)
		r.Get("/customers/at-risk", h.HandleAtRisk)

		r.Route("/rankings", func(r chi.Router) {
			r.Get("/vip", h.HandleVIP)
			r.Get("/frequency", h.HandleFrequency)
			r.Get("/dual", h.HandleDualRanked)
			r.Get("/avg-ticket", h.HandleAvgTicket)
		})

		r.Get("/growth", h.HandleGrowth)
		r.Get("/reactivated", h.HandleReactivated)

		r.Post("/refresh", h.HandleRefresh)
	})

	return r
}
