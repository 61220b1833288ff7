package system

import (
	"github.com/go-chi/chi/v5"

	"github.com/gridiron-labs/gridstats/internal/state"
	"github.com/gridiron-labs/gridstats/internal/warehouse"
)

// SetupRoutes registers the system feature routes.
func SetupRoutes(router chi.Router, wh *warehouse.Warehouse, store state.Store, version string) {
	handlers := NewHandlers(wh, store, version)

	router.Route("/api/system", func(r chi.Router) {
		r.Get("/health", handlers.Health)
		r.Get("/ready", handlers.Ready)
		r.Get("/loads", handlers.Loads)
	})
}
