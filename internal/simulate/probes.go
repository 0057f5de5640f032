package simulate

import (
	"context"
	"fmt"
	"net/http"

	"github.com/okian/bakeoff/internal/domain/model"
	"github.com/okian/bakeoff/internal/domain/scoring"
)

// probeDuplicateWinner re-awards the week's star baker and expects a 409.
func probeDuplicateWinner(ctx context.Context, c *client, ids *leagueIDs, week []PlannedScore) error {
	for _, s := range week {
		if s.Category != scoring.StarBaker {
			continue
		}
		status, err := c.do(ctx, http.MethodPost, "/scores", map[string]any{
			"week": s.Week, "contestant_id": ids.contestants[s.Contestant], "category": s.Category,
		}, nil, nil)
		if err != nil {
			return err
		}
		if status != http.StatusConflict {
			return fmt.Errorf("second star baker in week %d: status %d, want %d", s.Week, status, http.StatusConflict)
		}
		return nil
	}
	return nil
}

// probeReplay resubmits a score under its original key and expects the
// original id back.
func probeReplay(ctx context.Context, c *client, ids *leagueIDs, sub submission, wantID uint) error {
	var got model.WeeklyScore
	status, err := c.do(ctx, http.MethodPost, "/scores", map[string]any{
		"week":          sub.score.Week,
		"contestant_id": ids.contestants[sub.score.Contestant],
		"category":      sub.score.Category,
	}, map[string]string{"Idempotency-Key": sub.key}, &got)
	if err != nil {
		return err
	}
	if status != http.StatusOK || got.ID != wantID {
		return fmt.Errorf("replay of %s: status %d id %d, want %d id %d", sub.key, status, got.ID, http.StatusOK, wantID)
	}
	return nil
}

// probeEliminated scores each contestant leaving in week one week later and
// expects a 422.
func probeEliminated(ctx context.Context, c *client, plan *Plan, ids *leagueIDs, week int) (int, error) {
	passed := 0
	for _, ci := range plan.EliminatedIn(week) {
		status, err := c.do(ctx, http.MethodPost, "/scores", map[string]any{
			"week": week + 1, "contestant_id": ids.contestants[ci], "category": scoring.Handshake,
		}, nil, nil)
		if err != nil {
			return passed, err
		}
		if status != http.StatusUnprocessableEntity {
			return passed, fmt.Errorf("%s scored after leaving in week %d: status %d, want %d",
				plan.Contestants[ci].Name, week, status, http.StatusUnprocessableEntity)
		}
		passed++
	}
	return passed, nil
}
