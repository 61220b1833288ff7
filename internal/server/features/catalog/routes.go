package catalog

import (
	"github.com/go-chi/chi/v5"

	"github.com/gridiron-labs/gridstats/internal/stats"
)

// SetupRoutes registers the catalog feature routes.
func SetupRoutes(router chi.Router, svc *stats.Service) {
	handlers := NewHandlers(svc)

	router.Route("/api/catalog", func(r chi.Router) {
		r.Get("/seasons", handlers.Seasons)
		r.Get("/teams", handlers.Teams)
		r.Get("/qbs", handlers.QBs)
		r.Get("/players", handlers.Players)
	})
}
