// Package router wires the API feature packages onto a chi router.
package router

import (
	"github.com/go-chi/chi/v5"

	"github.com/gridiron-labs/gridstats/internal/metrics"
	"github.com/gridiron-labs/gridstats/internal/server/features/catalog"
	"github.com/gridiron-labs/gridstats/internal/server/features/qb"
	"github.com/gridiron-labs/gridstats/internal/server/features/skill"
	"github.com/gridiron-labs/gridstats/internal/server/features/system"
	"github.com/gridiron-labs/gridstats/internal/state"
	"github.com/gridiron-labs/gridstats/internal/stats"
	"github.com/gridiron-labs/gridstats/internal/warehouse"
)

// Deps carries everything the feature packages need.
type Deps struct {
	Stats     *stats.Service
	Warehouse *warehouse.Warehouse
	Store     state.Store
	Metrics   *metrics.Metrics
	Version   string
}

// SetupRoutes registers every feature on the router.
func SetupRoutes(r chi.Router, deps Deps) {
	qb.SetupRoutes(r, deps.Stats)
	skill.SetupRoutes(r, deps.Stats)
	catalog.SetupRoutes(r, deps.Stats)
	system.SetupRoutes(r, deps.Warehouse, deps.Store, deps.Version)

	if deps.Metrics != nil {
		r.Method("GET", "/metrics", deps.Metrics.Handler())
	}
}
