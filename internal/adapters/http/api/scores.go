package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/okian/bakeoff/internal/domain/model"
)

// scoreRequest is the body of POST /scores and PUT /scores/{id}.
type scoreRequest struct {
	Week         int            `json:"week" binding:"required"`
	ContestantID uint           `json:"contestant_id" binding:"required"`
	Category     model.Category `json:"category" binding:"required"`
}

// ScoresHandler handles weekly score requests.
type ScoresHandler struct {
	deps Dependencies
}

// NewScoresHandler creates a new scores handler.
func NewScoresHandler(deps Dependencies) *ScoresHandler {
	return &ScoresHandler{deps: deps}
}

// HandleCategories handles GET /categories.
func (h *ScoresHandler) HandleCategories(c *gin.Context) {
	writeJSON(c, http.StatusOK, h.deps.Categories())
}

// HandleList handles GET /scores?week=W. Without week every score is listed.
func (h *ScoresHandler) HandleList(c *gin.Context) {
	week, _, ok := queryWeek(c)
	if !ok {
		return
	}
	scores, err := h.deps.ListScores(c.Request.Context(), week)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, scores)
}

// HandleAdmit handles POST /scores. A repeated Idempotency-Key answers 200
// with the original score and the Idempotent-Replayed header.
func (h *ScoresHandler) HandleAdmit(c *gin.Context) {
	var req scoreRequest
	if !bindJSON(c, &req) {
		return
	}
	key := strings.TrimSpace(c.GetHeader(headerIdempotencyKey))
	score, replayed, err := h.deps.AdmitScoreIdempotent(c.Request.Context(), key, req.Week, req.ContestantID, req.Category)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	if replayed {
		c.Header(headerIdempotentReplay, "true")
		writeJSON(c, http.StatusOK, score)
		return
	}
	writeJSON(c, http.StatusCreated, score)
}

// HandleGet handles GET /scores/{id}.
func (h *ScoresHandler) HandleGet(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	score, err := h.deps.GetScore(c.Request.Context(), id)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, score)
}

// HandleUpdate handles PUT /scores/{id}.
func (h *ScoresHandler) HandleUpdate(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req scoreRequest
	if !bindJSON(c, &req) {
		return
	}
	score, err := h.deps.UpdateScore(c.Request.Context(), id, req.Week, req.ContestantID, req.Category)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, score)
}

// HandleDelete handles DELETE /scores/{id}.
func (h *ScoresHandler) HandleDelete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.deps.DeleteScore(c.Request.Context(), id); err != nil {
		writeDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
