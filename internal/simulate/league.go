package simulate

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/okian/bakeoff/internal/domain/model"
	"github.com/okian/bakeoff/pkg/logger"
)

// leagueIDs maps plan indices to server ids.
type leagueIDs struct {
	contestants []uint
	players     []uint
}

// seedLeague registers the plan's contestants and players and drafts rosters.
// Every contestant starts active; eliminations are applied week by week.
func seedLeague(ctx context.Context, c *client, plan *Plan) (*leagueIDs, error) {
	ids := &leagueIDs{}
	for _, pc := range plan.Contestants {
		var created model.Contestant
		if err := c.expect(ctx, http.StatusCreated, http.MethodPost, "/contestants",
			map[string]any{"name": pc.Name}, &created); err != nil {
			return nil, err
		}
		ids.contestants = append(ids.contestants, created.ID)
	}
	for _, pp := range plan.Players {
		var created model.Player
		if err := c.expect(ctx, http.StatusCreated, http.MethodPost, "/players",
			map[string]any{"name": pp.Name, "team_name": pp.TeamName}, &created); err != nil {
			return nil, err
		}
		roster := make([]uint, len(pp.Roster))
		for i, ci := range pp.Roster {
			roster[i] = ids.contestants[ci]
		}
		if err := c.expect(ctx, http.StatusOK, http.MethodPut, fmt.Sprintf("/players/%d/roster", created.ID),
			map[string]any{"contestant_ids": roster}, nil); err != nil {
			return nil, err
		}
		ids.players = append(ids.players, created.ID)
	}
	logger.Get().Info(ctx, "league seeded",
		logger.Int("contestants", len(ids.contestants)),
		logger.Int("players", len(ids.players)))
	return ids, nil
}

type submission struct {
	key   string
	score PlannedScore
}

// submitScores posts scores concurrently with one Idempotency-Key each and
// returns the admitted score ids in input order.
func submitScores(ctx context.Context, cfg *Config, c *client, ids *leagueIDs, subs []submission, stats *Stats) ([]uint, error) {
	var (
		admitted int64
		replayed int64
		rejected int64
		failed   int64
	)
	scoreIDs := make([]uint, len(subs))

	work := make(chan int, cfg.Workers*2)
	var wg sync.WaitGroup
	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range work {
				sub := subs[idx]
				var got model.WeeklyScore
				status, err := c.do(ctx, http.MethodPost, "/scores", map[string]any{
					"week":          sub.score.Week,
					"contestant_id": ids.contestants[sub.score.Contestant],
					"category":      sub.score.Category,
				}, map[string]string{"Idempotency-Key": sub.key}, &got)

				switch {
				case err != nil:
					atomic.AddInt64(&failed, 1)
				case status == http.StatusCreated:
					atomic.AddInt64(&admitted, 1)
					scoreIDs[idx] = got.ID
				case status == http.StatusOK:
					atomic.AddInt64(&replayed, 1)
					scoreIDs[idx] = got.ID
				case status < http.StatusInternalServerError:
					atomic.AddInt64(&rejected, 1)
				default:
					atomic.AddInt64(&failed, 1)
				}
				if cfg.Verbose {
					logger.Get().Debug(ctx, "score submitted",
						logger.Int("week", sub.score.Week),
						logger.String("category", string(sub.score.Category)),
						logger.Int("status", status))
				}
			}
		}()
	}

	go func() {
		defer close(work)
		for i := range subs {
			select {
			case <-ctx.Done():
				return
			case work <- i:
			}
		}
	}()
	wg.Wait()

	stats.ScoresAdmitted += int(admitted)
	stats.ScoresReplayed += int(replayed)
	stats.ScoresRejected += int(rejected)
	stats.ScoresFailed += int(failed)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if rejected > 0 || failed > 0 {
		return nil, fmt.Errorf("%d scores rejected and %d failed", rejected, failed)
	}
	return scoreIDs, nil
}

// eliminate records week as the elimination week of each listed contestant.
func eliminate(ctx context.Context, c *client, plan *Plan, ids *leagueIDs, week int, stats *Stats) error {
	for _, ci := range plan.EliminatedIn(week) {
		if err := c.expect(ctx, http.StatusOK, http.MethodPut, fmt.Sprintf("/contestants/%d", ids.contestants[ci]),
			map[string]any{"name": plan.Contestants[ci].Name, "eliminated_week": week}, nil); err != nil {
			return err
		}
		stats.Eliminations++
	}
	return nil
}
