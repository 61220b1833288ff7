package qb

import (
	"github.com/go-chi/chi/v5"

	"github.com/gridiron-labs/gridstats/internal/stats"
)

// SetupRoutes registers the quarterback feature routes.
func SetupRoutes(router chi.Router, svc *stats.Service) {
	handlers := NewHandlers(svc)

	router.Route("/api/qb", func(r chi.Router) {
		r.Get("/seasons", handlers.Seasons)
		r.Get("/trends", handlers.Trends)
		r.Get("/compare", handlers.Compare)
	})
}
