// Package skill provides the skill-position (WR/TE/RB) statistics API.
package skill

import (
	"net/http"

	"github.com/gridiron-labs/gridstats/internal/server/features/common"
	"github.com/gridiron-labs/gridstats/internal/stats"
)

// Handlers serves the skill-position endpoints.
type Handlers struct {
	stats *stats.Service
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(svc *stats.Service) *Handlers {
	return &Handlers{stats: svc}
}

// Seasons returns per-season combined receiving/rushing leaderboards.
// GET /api/skill/seasons?seasons=2023&positions=WR,RB&min_touches=50&season_type=REG&teams=KC
func (h *Handlers) Seasons(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	seasons, err := common.ParseSeasons(q.Get("seasons"))
	if err != nil {
		common.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	minTouches, err := common.ParseInt(q.Get("min_touches"), 0)
	if err != nil {
		common.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	rows, err := h.stats.SkillSeasons(r.Context(), stats.SkillFilter{
		Seasons:    seasons,
		Positions:  common.ParseList(q.Get("positions")),
		MinTouches: minTouches,
		SeasonType: q.Get("season_type"),
		Teams:      common.ParseList(q.Get("teams")),
	})
	if err != nil {
		common.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	common.JSON(w, http.StatusOK, rows)
}

// Trends returns one player's season-by-season combined line.
// GET /api/skill/trends?name=T.Kelce&seasons=2018-2023
func (h *Handlers) Trends(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	seasons, err := common.ParseSeasons(q.Get("seasons"))
	if err != nil {
		common.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	rows, err := h.stats.SkillTrends(r.Context(), q.Get("name"), seasons, q.Get("season_type"))
	if err != nil {
		common.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	common.JSON(w, http.StatusOK, rows)
}

// Compare ranks the skill players of one season against each other.
// GET /api/skill/compare?season=2023&positions=WR&min_touches=75
func (h *Handlers) Compare(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	season, err := common.ParseSeason(q.Get("season"))
	if err != nil {
		common.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	minTouches, err := common.ParseInt(q.Get("min_touches"), 0)
	if err != nil {
		common.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	rows, err := h.stats.SkillComparisons(r.Context(), season,
		common.ParseList(q.Get("positions")), minTouches, q.Get("season_type"))
	if err != nil {
		common.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	common.JSON(w, http.StatusOK, rows)
}
