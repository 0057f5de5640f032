package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// contestantRequest carries an optional elimination week; null or absent
// means the contestant is still in the competition.
type contestantRequest struct {
	Name           string `json:"name" binding:"required"`
	EliminatedWeek *int   `json:"eliminated_week"`
}

// ContestantsHandler handles contestant requests.
type ContestantsHandler struct {
	deps Dependencies
}

// NewContestantsHandler creates a new contestants handler.
func NewContestantsHandler(deps Dependencies) *ContestantsHandler {
	return &ContestantsHandler{deps: deps}
}

// HandleList handles GET /contestants.
func (h *ContestantsHandler) HandleList(c *gin.Context) {
	out, err := h.deps.ListContestants(c.Request.Context())
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, out)
}

// HandleCreate handles POST /contestants.
func (h *ContestantsHandler) HandleCreate(c *gin.Context) {
	var req contestantRequest
	if !bindJSON(c, &req) {
		return
	}
	created, err := h.deps.CreateContestant(c.Request.Context(), req.Name, req.EliminatedWeek)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, created)
}

// HandleGet handles GET /contestants/{id}.
func (h *ContestantsHandler) HandleGet(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	got, err := h.deps.GetContestant(c.Request.Context(), id)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, got)
}

// HandleUpdate handles PUT /contestants/{id}.
func (h *ContestantsHandler) HandleUpdate(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req contestantRequest
	if !bindJSON(c, &req) {
		return
	}
	updated, err := h.deps.UpdateContestant(c.Request.Context(), id, req.Name, req.EliminatedWeek)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, updated)
}

// HandleDelete handles DELETE /contestants/{id}.
func (h *ContestantsHandler) HandleDelete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.deps.DeleteContestant(c.Request.Context(), id); err != nil {
		writeDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
