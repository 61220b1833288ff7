// Package system provides health and load-history endpoints.
package system

import (
	"net/http"

	"github.com/gridiron-labs/gridstats/internal/server/features/common"
	"github.com/gridiron-labs/gridstats/internal/state"
	"github.com/gridiron-labs/gridstats/internal/warehouse"
)

// Handlers serves the system endpoints.
type Handlers struct {
	wh      *warehouse.Warehouse
	store   state.Store
	version string
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(wh *warehouse.Warehouse, store state.Store, version string) *Handlers {
	return &Handlers{wh: wh, store: store, version: version}
}

// Health reports liveness plus whether any play data is queryable yet.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	common.JSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"version":   h.version,
		"warehouse": h.wh.DialectName(),
		"ready":     h.wh.HasPlays(r.Context()),
	})
}

// Ready reports readiness: the warehouse must answer a ping and the
// play-by-play table must exist. Returns 503 until both hold.
func (h *Handlers) Ready(w http.ResponseWriter, r *http.Request) {
	if !h.wh.HasPlays(r.Context()) {
		common.JSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not ready",
		})
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"status": "ready"})
}

// Loads lists recent dataset loads.
// GET /api/system/loads?limit=20
func (h *Handlers) Loads(w http.ResponseWriter, r *http.Request) {
	limit, err := common.ParseInt(r.URL.Query().Get("limit"), 0)
	if err != nil {
		common.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	loads, err := h.store.ListLoads(limit)
	if err != nil {
		common.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"loads": loads})
}
