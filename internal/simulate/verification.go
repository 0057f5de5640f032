package simulate

import (
	"context"
	"fmt"
	"net/http"

	"github.com/okian/bakeoff/internal/domain/types"
	"github.com/okian/bakeoff/pkg/logger"
)

// verifyLeaderboard checks board against the plan's totals for our players.
// With includeZero false a zero total must be absent from the board.
func verifyLeaderboard(board []types.Entry, playerIDs []uint, want []int, includeZero bool) error {
	for i := 1; i < len(board); i++ {
		if board[i].TotalPoints > board[i-1].TotalPoints {
			return fmt.Errorf("leaderboard not sorted: entry %d has more points than entry %d", i, i-1)
		}
	}

	got := make(map[uint]int, len(board))
	for _, e := range board {
		got[e.PlayerID] = e.TotalPoints
	}
	for i, id := range playerIDs {
		total, listed := got[id]
		switch {
		case want[i] == 0 && !includeZero:
			if listed {
				return fmt.Errorf("player %d listed with total %d, want absent", id, total)
			}
		case !listed:
			return fmt.Errorf("player %d missing from leaderboard", id)
		case total != want[i]:
			return fmt.Errorf("player %d has %d points, want %d", id, total, want[i])
		}
	}
	return nil
}

// verifyResults compares the final and a mid-season leaderboard with the plan.
func verifyResults(ctx context.Context, c *client, plan *Plan, ids *leagueIDs) error {
	var board []types.Entry
	if err := c.expect(ctx, http.StatusOK, http.MethodGet, "/leaderboard", nil, &board); err != nil {
		return err
	}
	if err := verifyLeaderboard(board, ids.players, expectedTotals(plan, plan.Weeks), true); err != nil {
		return fmt.Errorf("final leaderboard: %w", err)
	}

	mid := (plan.Weeks + 1) / 2
	var asOf []types.Entry
	if err := c.expect(ctx, http.StatusOK, http.MethodGet, fmt.Sprintf("/leaderboard?week=%d", mid), nil, &asOf); err != nil {
		return err
	}
	if err := verifyLeaderboard(asOf, ids.players, expectedTotals(plan, mid), false); err != nil {
		return fmt.Errorf("week %d leaderboard: %w", mid, err)
	}

	if len(board) > 0 {
		logger.Get().Info(ctx, "leaderboard verified",
			logger.String("leader", board[0].TeamName),
			logger.Int("points", board[0].TotalPoints),
			logger.Int("midSeasonWeek", mid))
	}
	return nil
}
