package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type playerRequest struct {
	Name     string `json:"name" binding:"required"`
	TeamName string `json:"team_name" binding:"required"`
}

type rosterRequest struct {
	ContestantIDs []uint `json:"contestant_ids" binding:"required"`
}

// PlayersHandler handles player and roster requests.
type PlayersHandler struct {
	deps Dependencies
}

// NewPlayersHandler creates a new players handler.
func NewPlayersHandler(deps Dependencies) *PlayersHandler {
	return &PlayersHandler{deps: deps}
}

// HandleList handles GET /players.
func (h *PlayersHandler) HandleList(c *gin.Context) {
	players, err := h.deps.ListPlayers(c.Request.Context())
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, players)
}

// HandleCreate handles POST /players.
func (h *PlayersHandler) HandleCreate(c *gin.Context) {
	var req playerRequest
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.deps.CreatePlayer(c.Request.Context(), req.Name, req.TeamName)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, p)
}

// HandleGet handles GET /players/{id}.
func (h *PlayersHandler) HandleGet(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	p, err := h.deps.GetPlayer(c.Request.Context(), id)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, p)
}

// HandleUpdate handles PUT /players/{id}.
func (h *PlayersHandler) HandleUpdate(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req playerRequest
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.deps.UpdatePlayer(c.Request.Context(), id, req.Name, req.TeamName)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, p)
}

// HandleDelete handles DELETE /players/{id}.
func (h *PlayersHandler) HandleDelete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.deps.DeletePlayer(c.Request.Context(), id); err != nil {
		writeDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// HandleGetRoster handles GET /players/{id}/roster.
func (h *PlayersHandler) HandleGetRoster(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	roster, err := h.deps.GetRoster(c.Request.Context(), id)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, roster)
}

// HandleSetRoster handles PUT /players/{id}/roster.
func (h *PlayersHandler) HandleSetRoster(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req rosterRequest
	if !bindJSON(c, &req) {
		return
	}
	teams, err := h.deps.SetRoster(c.Request.Context(), id, req.ContestantIDs)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, teams)
}
