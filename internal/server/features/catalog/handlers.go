// Package catalog provides lookup endpoints that feed dashboard filter
// dropdowns: loaded seasons, teams, quarterbacks and skill players.
package catalog

import (
	"net/http"

	"github.com/gridiron-labs/gridstats/internal/server/features/common"
	"github.com/gridiron-labs/gridstats/internal/stats"
)

// Handlers serves the catalog endpoints.
type Handlers struct {
	stats *stats.Service
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(svc *stats.Service) *Handlers {
	return &Handlers{stats: svc}
}

// Seasons lists the seasons present in the warehouse.
func (h *Handlers) Seasons(w http.ResponseWriter, r *http.Request) {
	seasons, err := h.stats.Seasons(r.Context())
	if err != nil {
		common.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"seasons": seasons})
}

// Teams lists every team seen on offense or defense.
func (h *Handlers) Teams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.stats.Teams(r.Context())
	if err != nil {
		common.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"teams": teams})
}

// QBs lists quarterbacks clearing an attempts threshold.
// GET /api/catalog/qbs?min_attempts=50
func (h *Handlers) QBs(w http.ResponseWriter, r *http.Request) {
	minAttempts, err := common.ParseInt(r.URL.Query().Get("min_attempts"), 0)
	if err != nil {
		common.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	qbs, err := h.stats.QBs(r.Context(), minAttempts)
	if err != nil {
		common.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"qbs": qbs})
}

// Players lists skill players clearing a touches threshold.
// GET /api/catalog/players?min_touches=25
func (h *Handlers) Players(w http.ResponseWriter, r *http.Request) {
	minTouches, err := common.ParseInt(r.URL.Query().Get("min_touches"), 0)
	if err != nil {
		common.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	players, err := h.stats.SkillPlayers(r.Context(), minTouches)
	if err != nil {
		common.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"players": players})
}
