// Package qb provides the quarterback statistics API.
package qb

import (
	"net/http"

	"github.com/gridiron-labs/gridstats/internal/server/features/common"
	"github.com/gridiron-labs/gridstats/internal/stats"
)

// Handlers serves the quarterback endpoints.
type Handlers struct {
	stats *stats.Service
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(svc *stats.Service) *Handlers {
	return &Handlers{stats: svc}
}

// Seasons returns per-season QB leaderboards.
// GET /api/qb/seasons?seasons=2020-2023&min_attempts=100&season_type=REG&teams=KC,BUF
func (h *Handlers) Seasons(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	seasons, err := common.ParseSeasons(q.Get("seasons"))
	if err != nil {
		common.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	minAttempts, err := common.ParseInt(q.Get("min_attempts"), 0)
	if err != nil {
		common.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	rows, err := h.stats.QBSeasons(r.Context(), stats.QBFilter{
		Seasons:     seasons,
		MinAttempts: minAttempts,
		SeasonType:  q.Get("season_type"),
		Teams:       common.ParseList(q.Get("teams")),
	})
	if err != nil {
		common.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	common.JSON(w, http.StatusOK, rows)
}

// Trends returns one QB's season-by-season line.
// GET /api/qb/trends?name=P.Mahomes&seasons=2018-2023&season_type=REG
func (h *Handlers) Trends(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	seasons, err := common.ParseSeasons(q.Get("seasons"))
	if err != nil {
		common.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	rows, err := h.stats.QBTrends(r.Context(), q.Get("name"), seasons, q.Get("season_type"))
	if err != nil {
		common.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	common.JSON(w, http.StatusOK, rows)
}

// Compare ranks the QBs of one season against each other.
// GET /api/qb/compare?season=2023&min_attempts=200&season_type=REG
func (h *Handlers) Compare(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	season, err := common.ParseSeason(q.Get("season"))
	if err != nil {
		common.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	minAttempts, err := common.ParseInt(q.Get("min_attempts"), 0)
	if err != nil {
		common.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	rows, err := h.stats.QBComparisons(r.Context(), season, minAttempts, q.Get("season_type"))
	if err != nil {
		common.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	common.JSON(w, http.StatusOK, rows)
}
