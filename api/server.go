/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the chi router, middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the frontend

SECURITY NOTE:
  No authentication middleware. Single-user, single-device model.

SEE ALSO:
  - handlers.go: handler implementations
  - cmd/server/main.go: server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Route("/settings", func(r chi.Router) {
			r.Get("/", h.GetSettings)
			r.Put("/", h.PutSettings)
		})

		r.Route("/payments", func(r chi.Router) {
			r.Get("/", h.ListPayments)
			r.Post("/", h.CreatePayment)
			r.Put("/{id}", h.EditPayment)
			r.Delete("/{id}", h.DeletePayment)
		})

		r.Get("/ledger", h.GetLedger)
		r.Get("/debt", h.GetDebt)
		r.Get("/missed", h.GetMissed)

		r.Route("/reports", func(r chi.Router) {
			r.Get("/total", h.GetTotalReport)
			r.Get("/monthly", h.GetMonthlyReport)
		})

		r.Route("/backup", func(r chi.Router) {
			r.Get("/export", h.ExportBackup)
			r.Post("/import", h.ImportBackup)
		})

		r.Post("/receipts/suggest", h.SuggestFromReceipt)

		r.Post("/reset", h.Reset)
		r.Get("/health", h.Health)
	})

	return r
}
