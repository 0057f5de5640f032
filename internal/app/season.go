package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	repository "github.com/okian/bakeoff/internal/adapters/repository"
	"github.com/okian/bakeoff/internal/domain/errs"
	"github.com/okian/bakeoff/internal/domain/model"
	"github.com/okian/bakeoff/internal/domain/scoring"
	"github.com/okian/bakeoff/internal/domain/season"
	"github.com/okian/bakeoff/internal/domain/types"
	"github.com/okian/bakeoff/pkg/logger"
	"github.com/okian/bakeoff/pkg/metrics"
)

// RecalculateSeasonTotals rebuilds the season total table from the current
// scores and rosters. A failure leaves the previous table in place.
func (s *Service) RecalculateSeasonTotals(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	_, err := s.recalculateLocked(ctx)
	return err
}

// recalculateLocked must be called with writeMu held.
func (s *Service) recalculateLocked(ctx context.Context) (int, error) {
	const op = "service.recalculate_season_totals"
	runID := uuid.NewString()
	start := time.Now()

	rows, err := s.aggregate(ctx)
	if err == nil {
		err = s.store.ReplaceSeasonTotals(ctx, rows)
	}
	elapsed := time.Since(start)
	metrics.RecordRecalculation(float64(elapsed.Microseconds())/1000, len(rows), err)
	if err != nil {
		s.logger.Error(ctx, "season recalculation failed",
			logger.String("runID", runID), logger.Error(err))
		return 0, errs.Wrap(op, errs.ErrStorage, err)
	}

	s.mu.Lock()
	s.recalc = recalcStats{at: time.Now(), duration: elapsed, rows: len(rows), runID: runID}
	s.mu.Unlock()

	if counts, err := s.store.Counts(ctx); err == nil {
		metrics.UpdateLeagueSize(counts.Players, counts.Contestants, counts.WeeklyScores)
	}
	s.logger.Debug(ctx, "season recalculated",
		logger.String("runID", runID),
		logger.Int("rows", len(rows)),
		logger.Duration("elapsed", elapsed),
	)
	return len(rows), nil
}

func (s *Service) aggregate(ctx context.Context) ([]model.SeasonTotal, error) {
	players, err := s.store.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}
	teams, err := s.store.ListTeams(ctx)
	if err != nil {
		return nil, err
	}
	scores, err := s.store.ListScores(ctx, repository.ScoreFilter{})
	if err != nil {
		return nil, err
	}
	return season.Aggregate(players, teams, scores, s.seasonWeeks), nil
}

// ListSeasonTotals returns the derived season total rows in rebuild order.
func (s *Service) ListSeasonTotals(ctx context.Context) ([]model.SeasonTotal, error) {
	rows, err := s.store.ListSeasonTotals(ctx)
	if err != nil {
		return nil, s.fail(ctx, "service.list_season_totals", err)
	}
	return rows, nil
}

// GetLeaderboard ranks every player by their latest running total.
func (s *Service) GetLeaderboard(ctx context.Context) ([]types.Entry, error) {
	const op = "service.get_leaderboard"
	players, err := s.store.ListPlayers(ctx)
	if err != nil {
		return nil, s.fail(ctx, op, err)
	}
	totals, err := s.store.ListSeasonTotals(ctx)
	if err != nil {
		return nil, s.fail(ctx, op, err)
	}
	return season.Leaderboard(players, totals), nil
}

// GetLeaderboardAsOfWeek ranks players by raw scores up to and including week,
// using current rosters. Players with a zero total are omitted.
func (s *Service) GetLeaderboardAsOfWeek(ctx context.Context, week int) ([]types.Entry, error) {
	const op = "service.get_leaderboard_as_of_week"
	if week < 1 {
		return nil, s.fail(ctx, op, errs.Newf(op, errs.ErrValidation, "week must be positive, got %d", week))
	}
	players, err := s.store.ListPlayers(ctx)
	if err != nil {
		return nil, s.fail(ctx, op, err)
	}
	teams, err := s.store.ListTeams(ctx)
	if err != nil {
		return nil, s.fail(ctx, op, err)
	}
	scores, err := s.store.ListScores(ctx, repository.ScoreFilter{})
	if err != nil {
		return nil, s.fail(ctx, op, err)
	}
	return season.LeaderboardAsOfWeek(players, teams, scores, week), nil
}

// GetPlayerWeeklyBreakdown lists every score earned by the player's current roster.
func (s *Service) GetPlayerWeeklyBreakdown(ctx context.Context, playerID uint) ([]types.BreakdownRow, error) {
	const op = "service.get_player_weekly_breakdown"
	if _, err := s.store.GetPlayer(ctx, playerID); err != nil {
		return nil, s.fail(ctx, op, err)
	}
	teams, err := s.store.ListTeamsByPlayer(ctx, playerID)
	if err != nil {
		return nil, s.fail(ctx, op, err)
	}
	contestants, err := s.store.ListContestants(ctx)
	if err != nil {
		return nil, s.fail(ctx, op, err)
	}
	scores, err := s.store.ListScores(ctx, repository.ScoreFilter{})
	if err != nil {
		return nil, s.fail(ctx, op, err)
	}
	return season.Breakdown(season.Rosters(teams)[playerID], contestants, scores), nil
}

// Categories lists the scoring table.
func (s *Service) Categories() []types.CategoryInfo {
	rules := scoring.Categories()
	out := make([]types.CategoryInfo, len(rules))
	for i, r := range rules {
		out[i] = types.CategoryInfo{Name: r.Category, Points: r.Points, SingleWinner: r.SingleWinner}
	}
	return out
}
