package season

import (
	"sort"

	"github.com/okian/bakeoff/internal/domain/model"
	"github.com/okian/bakeoff/internal/domain/types"
)

func entry(p model.Player, total int) types.Entry {
	return types.Entry{
		PlayerID:    p.ID,
		PlayerName:  p.Name,
		TeamName:    p.TeamName,
		TotalPoints: total,
	}
}

func rank(entries []types.Entry) []types.Entry {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].TotalPoints > entries[j].TotalPoints
	})
	return entries
}

// Leaderboard ranks every player by the running total of their latest season
// total row. Players without rows score 0. Ties keep the order of players.
func Leaderboard(players []model.Player, totals []model.SeasonTotal) []types.Entry {
	latest := make(map[uint]int, len(players))
	for _, t := range totals {
		latest[t.PlayerID] = t.RunningTotal
	}
	entries := make([]types.Entry, 0, len(players))
	for _, p := range players {
		entries = append(entries, entry(p, latest[p.ID]))
	}
	return rank(entries)
}

// LeaderboardAsOfWeek ranks players by the raw weekly points of their current
// roster up to and including week. Roster history is not tracked: a roster
// change after week still changes this result. Players totalling zero are left out.
func LeaderboardAsOfWeek(players []model.Player, teams []model.Team, scores []model.WeeklyScore, week int) []types.Entry {
	rosters := Rosters(teams)
	byContestant := make(map[uint]int)
	for _, s := range scores {
		if s.Week <= week {
			byContestant[s.ContestantID] += s.Points
		}
	}
	var entries []types.Entry
	for _, p := range players {
		total := 0
		for _, cid := range rosters[p.ID] {
			total += byContestant[cid]
		}
		if total != 0 {
			entries = append(entries, entry(p, total))
		}
	}
	if entries == nil {
		entries = []types.Entry{}
	}
	return rank(entries)
}

// Breakdown lists every weekly score earned by roster, ordered by week then
// by score id.
func Breakdown(roster []uint, contestants []model.Contestant, scores []model.WeeklyScore) []types.BreakdownRow {
	names := make(map[uint]string, len(contestants))
	for _, c := range contestants {
		names[c.ID] = c.Name
	}
	onRoster := make(map[uint]bool, len(roster))
	for _, cid := range roster {
		onRoster[cid] = true
	}

	picked := make([]model.WeeklyScore, 0, len(scores))
	for _, s := range scores {
		if onRoster[s.ContestantID] {
			picked = append(picked, s)
		}
	}
	sort.SliceStable(picked, func(i, j int) bool {
		if picked[i].Week != picked[j].Week {
			return picked[i].Week < picked[j].Week
		}
		return picked[i].ID < picked[j].ID
	})

	rows := make([]types.BreakdownRow, len(picked))
	for i, s := range picked {
		rows[i] = types.BreakdownRow{
			Week:           s.Week,
			ContestantName: names[s.ContestantID],
			Category:       s.Category,
			Points:         s.Points,
		}
	}
	return rows
}
