package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// StatsProvider defines the interface for getting service statistics.
type StatsProvider interface {
	GetStats(ctx context.Context) (map[string]interface{}, error)
}

type resetter interface {
	Reset(ctx context.Context) error
}

// StatsHandler handles stats and league reset requests.
type StatsHandler struct {
	statsProvider StatsProvider
	resetter      resetter
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(deps Dependencies) *StatsHandler {
	return &StatsHandler{statsProvider: deps, resetter: deps}
}

// HandleStats handles GET /stats requests.
func (h *StatsHandler) HandleStats(c *gin.Context) {
	stats, err := h.statsProvider.GetStats(c.Request.Context())
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, stats)
}

// HandleReset handles DELETE /league requests.
func (h *StatsHandler) HandleReset(c *gin.Context) {
	if err := h.resetter.Reset(c.Request.Context()); err != nil {
		writeDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
