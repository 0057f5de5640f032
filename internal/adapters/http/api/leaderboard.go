package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/okian/bakeoff/internal/domain/types"
)

// LeaderboardHandler handles leaderboard and season total requests.
type LeaderboardHandler struct {
	deps Dependencies
}

// NewLeaderboardHandler creates a new leaderboard handler.
func NewLeaderboardHandler(deps Dependencies) *LeaderboardHandler {
	return &LeaderboardHandler{deps: deps}
}

// HandleGetLeaderboard handles GET /leaderboard. With ?week=W the board is
// rebuilt from raw scores up to week W.
func (h *LeaderboardHandler) HandleGetLeaderboard(c *gin.Context) {
	week, present, ok := queryWeek(c)
	if !ok {
		return
	}
	var (
		entries []types.Entry
		err     error
	)
	if present {
		entries, err = h.deps.GetLeaderboardAsOfWeek(c.Request.Context(), week)
	} else {
		entries, err = h.deps.GetLeaderboard(c.Request.Context())
	}
	if err != nil {
		writeDomainError(c, err)
		return
	}
	if entries == nil {
		entries = []types.Entry{}
	}
	writeJSON(c, http.StatusOK, entries)
}

// HandleListSeasonTotals handles GET /season-totals.
func (h *LeaderboardHandler) HandleListSeasonTotals(c *gin.Context) {
	rows, err := h.deps.ListSeasonTotals(c.Request.Context())
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, rows)
}

type recalculateResponse struct {
	Status string `json:"status"`
	Rows   int    `json:"rows"`
}

// HandleRecalculate handles POST /season-totals/recalculate.
func (h *LeaderboardHandler) HandleRecalculate(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.deps.RecalculateSeasonTotals(ctx); err != nil {
		writeDomainError(c, err)
		return
	}
	rows, err := h.deps.ListSeasonTotals(ctx)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, recalculateResponse{Status: "recalculated", Rows: len(rows)})
}

// HandleBreakdown handles GET /players/{id}/breakdown.
func (h *LeaderboardHandler) HandleBreakdown(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	rows, err := h.deps.GetPlayerWeeklyBreakdown(c.Request.Context(), id)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, rows)
}
