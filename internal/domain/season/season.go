// Package season rebuilds season totals and projects leaderboards.
//
// Everything here is a pure function over entity snapshots; persistence and
// locking belong to the caller.
package season

import (
	"github.com/okian/bakeoff/internal/domain/model"
)

// DefaultWeeks is the length of a season when none is configured.
const DefaultWeeks = 10

type contestantWeek struct {
	contestantID uint
	week         int
}

// Rosters groups team links by player, keeping insertion order.
func Rosters(teams []model.Team) map[uint][]uint {
	out := make(map[uint][]uint)
	for _, t := range teams {
		out[t.PlayerID] = append(out[t.PlayerID], t.ContestantID)
	}
	return out
}

func weeklySums(scores []model.WeeklyScore) map[contestantWeek]int {
	sums := make(map[contestantWeek]int, len(scores))
	for _, s := range scores {
		sums[contestantWeek{s.ContestantID, s.Week}] += s.Points
	}
	return sums
}

// Aggregate computes the season total rows for weeks 1..weeks.
//
// Rows are emitted player-major (in the order of players), then by week
// ascending, then in roster order. A contestant-week summing to zero emits no
// row, so "scored zero" and "not scored" look the same downstream.
// RunningTotal accumulates over the emitted rows of one player.
// Returned rows carry no IDs.
func Aggregate(players []model.Player, teams []model.Team, scores []model.WeeklyScore, weeks int) []model.SeasonTotal {
	if weeks < 1 {
		weeks = DefaultWeeks
	}
	rosters := Rosters(teams)
	sums := weeklySums(scores)

	var rows []model.SeasonTotal
	for _, p := range players {
		roster := rosters[p.ID]
		if len(roster) == 0 {
			continue
		}
		running := 0
		for week := 1; week <= weeks; week++ {
			for _, cid := range roster {
				points := sums[contestantWeek{cid, week}]
				if points == 0 {
					continue
				}
				running += points
				rows = append(rows, model.SeasonTotal{
					PlayerID:     p.ID,
					Week:         week,
					ContestantID: cid,
					Points:       points,
					RunningTotal: running,
				})
			}
		}
	}
	return rows
}
