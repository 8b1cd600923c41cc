/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the chi router, the middleware stack and the route table.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request, echoed in debug logs
  2. Logger:     Request logging
  3. Recoverer:  Panic recovery (500 instead of crash)
  4. CORS:       Origins from http.allowed_origins

ROUTE GROUPS:
  /api/tiers          Tier ladder
  /api/passengers/*   Passenger records
  /api/summary        Year summary
  /healthz            Liveness

SECURITY NOTE:
  No authentication. Only GET routes are mounted.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/mileage/serve.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a router with all routes configured.
func NewRouter(h *Handler, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/tiers", h.ListTiers)
		r.Get("/summary", h.GetSummary)

		r.Route("/passengers", func(r chi.Router) {
			r.Get("/", h.ListPassengers)
			r.Get("/{id}", h.GetPassenger)
		})
	})

	return r
}
