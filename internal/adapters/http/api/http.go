// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/okian/bakeoff/internal/domain/model"
	"github.com/okian/bakeoff/internal/domain/types"
	"github.com/okian/bakeoff/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the service implementation.
type Dependencies interface {
	StatsProvider

	// Scores
	AdmitScoreIdempotent(ctx context.Context, key string, week int, contestantID uint, category model.Category) (model.WeeklyScore, bool, error)
	UpdateScore(ctx context.Context, scoreID uint, week int, contestantID uint, category model.Category) (model.WeeklyScore, error)
	DeleteScore(ctx context.Context, scoreID uint) error
	GetScore(ctx context.Context, scoreID uint) (model.WeeklyScore, error)
	ListScores(ctx context.Context, week int) ([]model.WeeklyScore, error)
	Categories() []types.CategoryInfo

	// Season
	RecalculateSeasonTotals(ctx context.Context) error
	ListSeasonTotals(ctx context.Context) ([]model.SeasonTotal, error)
	GetLeaderboard(ctx context.Context) ([]types.Entry, error)
	GetLeaderboardAsOfWeek(ctx context.Context, week int) ([]types.Entry, error)
	GetPlayerWeeklyBreakdown(ctx context.Context, playerID uint) ([]types.BreakdownRow, error)

	// Players and rosters
	CreatePlayer(ctx context.Context, name, teamName string) (model.Player, error)
	GetPlayer(ctx context.Context, id uint) (model.Player, error)
	ListPlayers(ctx context.Context) ([]model.Player, error)
	UpdatePlayer(ctx context.Context, id uint, name, teamName string) (model.Player, error)
	DeletePlayer(ctx context.Context, id uint) error
	GetRoster(ctx context.Context, playerID uint) ([]model.Contestant, error)
	SetRoster(ctx context.Context, playerID uint, contestantIDs []uint) ([]model.Team, error)

	// Contestants
	CreateContestant(ctx context.Context, name string, eliminatedWeek *int) (model.Contestant, error)
	GetContestant(ctx context.Context, id uint) (model.Contestant, error)
	ListContestants(ctx context.Context) ([]model.Contestant, error)
	UpdateContestant(ctx context.Context, id uint, name string, eliminatedWeek *int) (model.Contestant, error)
	DeleteContestant(ctx context.Context, id uint) error

	// Reset empties the league.
	Reset(ctx context.Context) error
}

// Server wires HTTP routes for the league API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	scoresHandler      *ScoresHandler
	leaderboardHandler *LeaderboardHandler
	playersHandler     *PlayersHandler
	contestantsHandler *ContestantsHandler
	log                logger.Logger
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, log logger.Logger) *Server {
	if log == nil {
		log = logger.Get()
	}
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(deps),
		scoresHandler:      NewScoresHandler(deps),
		leaderboardHandler: NewLeaderboardHandler(deps),
		playersHandler:     NewPlayersHandler(deps),
		contestantsHandler: NewContestantsHandler(deps),
		log:                log.Named("http"),
	}
}

// Register attaches all HTTP routes to r.
func (s *Server) Register(_ context.Context, r gin.IRouter) {
	r.GET("/healthz", s.healthHandler.HandleHealth)
	r.GET("/stats", s.statsHandler.HandleStats)
	r.GET("/categories", s.scoresHandler.HandleCategories)

	r.GET("/leaderboard", s.leaderboardHandler.HandleGetLeaderboard)
	r.GET("/season-totals", s.leaderboardHandler.HandleListSeasonTotals)
	r.POST("/season-totals/recalculate", s.leaderboardHandler.HandleRecalculate)

	scores := r.Group("/scores")
	scores.GET("", s.scoresHandler.HandleList)
	scores.POST("", s.scoresHandler.HandleAdmit)
	scores.GET("/:id", s.scoresHandler.HandleGet)
	scores.PUT("/:id", s.scoresHandler.HandleUpdate)
	scores.DELETE("/:id", s.scoresHandler.HandleDelete)

	players := r.Group("/players")
	players.GET("", s.playersHandler.HandleList)
	players.POST("", s.playersHandler.HandleCreate)
	players.GET("/:id", s.playersHandler.HandleGet)
	players.PUT("/:id", s.playersHandler.HandleUpdate)
	players.DELETE("/:id", s.playersHandler.HandleDelete)
	players.GET("/:id/roster", s.playersHandler.HandleGetRoster)
	players.PUT("/:id/roster", s.playersHandler.HandleSetRoster)
	players.GET("/:id/breakdown", s.leaderboardHandler.HandleBreakdown)

	contestants := r.Group("/contestants")
	contestants.GET("", s.contestantsHandler.HandleList)
	contestants.POST("", s.contestantsHandler.HandleCreate)
	contestants.GET("/:id", s.contestantsHandler.HandleGet)
	contestants.PUT("/:id", s.contestantsHandler.HandleUpdate)
	contestants.DELETE("/:id", s.contestantsHandler.HandleDelete)

	r.DELETE("/league", s.statsHandler.HandleReset)
}

// NewRouter builds a gin engine with recovery, request ids, access logging,
// metrics and CORS for origins, then registers every route. An empty origin
// list disables CORS; "*" allows any origin.
func (s *Server) NewRouter(ctx context.Context, origins []string) *gin.Engine {
	r := gin.New()
	r.Use(
		gin.CustomRecovery(s.recover),
		RequestIDMiddleware(),
		AccessLogMiddleware(s.log),
		MetricsMiddleware(),
	)
	if len(origins) > 0 {
		r.Use(cors.New(corsConfig(origins)))
	}
	r.NoRoute(func(c *gin.Context) {
		writeError(c, http.StatusNotFound, codeNotFound, nil)
	})
	s.Register(ctx, r)
	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", headerIdempotencyKey, headerRequestID},
		ExposeHeaders: []string{headerRequestID, headerIdempotentReplay},
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	return cfg
}

func (s *Server) recover(c *gin.Context, rec any) {
	s.log.Error(c.Request.Context(), "panic while serving request",
		logger.String("path", c.Request.URL.Path),
		logger.Any("panic", rec),
	)
	writeError(c, http.StatusInternalServerError, codeInternal, nil)
	c.Abort()
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

// pathID parses the :id parameter. It writes a 400 and returns false when the
// parameter is not a positive integer.
func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 32)
	if err != nil || id == 0 {
		writeError(c, http.StatusBadRequest, codeBadRequest, errInvalidID)
		return 0, false
	}
	return uint(id), true
}

// queryWeek parses an optional ?week= parameter. ok is false after a 400 was written.
func queryWeek(c *gin.Context) (week int, present, ok bool) {
	raw := strings.TrimSpace(c.Query("week"))
	if raw == "" {
		return 0, false, true
	}
	w, err := strconv.Atoi(raw)
	if err != nil {
		writeError(c, http.StatusBadRequest, codeBadRequest, errInvalidWeek)
		return 0, false, false
	}
	return w, true, true
}
