/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route
  definitions. This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. Logger:     Request logging
  3. Recoverer:  Panic recovery (500 instead of crash)
  4. CORS:       Cross-origin requests for a frontend

ROUTE GROUPS:
  /api/{kind}/*      Purchase and sale records ({kind} is purchases|sales)
  /api/stock/*       Derived stock snapshot
  /api/ledger/*      Party ledger
  /api/dashboard     Top-line aggregates

SECURITY NOTE:
  No authentication middleware. The API is meant for a single operator
  on a trusted network, matching the desktop workflow it replaces.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		// Record routes, shared by both kinds
		r.Route("/{kind:purchases|sales}", func(r chi.Router) {
			r.Get("/", h.ListRecords)
			r.Post("/", h.CreateRecord)
			r.Get("/{id}", h.GetRecord)
			r.Put("/{id}", h.UpdateRecord)
			r.Delete("/{id}", h.DeleteRecord)
			r.Post("/{id}/receipt", h.CreateReceipt)
			r.Post("/{id}/bill", h.CreateBill)
		})

		// Stock routes
		r.Route("/stock", func(r chi.Router) {
			r.Get("/", h.GetStock)
			r.Get("/export", h.ExportStock)
		})

		// Ledger routes
		r.Route("/ledger", func(r chi.Router) {
			r.Get("/", h.ListParties)
			r.Route("/{party}", func(r chi.Router) {
				r.Get("/", h.GetPartyLedger)
				r.Post("/entries", h.AddLedgerEntry)
				r.Delete("/entries/{index}", h.DeleteLedgerEntry)
			})
		})

		r.Get("/dashboard", h.GetDashboard)
	})

	return r
}
