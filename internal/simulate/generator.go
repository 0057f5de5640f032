package simulate

import (
	"fmt"
	"math/rand/v2"

	"github.com/okian/bakeoff/internal/domain/model"
	"github.com/okian/bakeoff/internal/domain/scoring"
)

var bakerNames = []string{ //nolint:gochecknoglobals // name pool
	"Abbi", "Saku", "Dylan", "Pui Man", "Josh", "Tasha",
	"Matty", "Nelly", "Rowan", "Cristy", "Andy", "Keith",
}

var teamNames = []string{ //nolint:gochecknoglobals // name pool
	"Proving Drawers", "Crumb Together", "Knead for Speed", "Rolling Scones",
	"Yeast Mode", "Bready or Not", "Whisk Takers", "Tart Attack",
}

// optional categories may be awarded to any number of contestants per week.
var optional = []model.Category{ //nolint:gochecknoglobals // category pool
	scoring.Handshake, scoring.Raw, scoring.Overbaked, scoring.CriesTestimonial,
}

// PlannedContestant is a contestant in a plan. EliminatedWeek 0 means they
// survive the simulated weeks.
type PlannedContestant struct {
	Name           string `json:"name"`
	EliminatedWeek int    `json:"eliminated_week,omitempty"`
}

// PlannedPlayer is a player with roster indices into Plan.Contestants.
type PlannedPlayer struct {
	Name     string `json:"name"`
	TeamName string `json:"team_name"`
	Roster   []int  `json:"roster"`
}

// PlannedScore awards Category to Plan.Contestants[Contestant] in Week.
type PlannedScore struct {
	Week       int            `json:"week"`
	Contestant int            `json:"contestant"`
	Category   model.Category `json:"category"`
}

// Plan is a full season that respects the admission rules: one winner per
// single-winner category per week and no scores for a contestant after the
// week they leave.
type Plan struct {
	Weeks       int                 `json:"weeks"`
	Contestants []PlannedContestant `json:"contestants"`
	Players     []PlannedPlayer     `json:"players"`
	Scores      []PlannedScore      `json:"scores"`
}

// ScoresForWeek returns the planned scores of week w in plan order.
func (p *Plan) ScoresForWeek(w int) []PlannedScore {
	var out []PlannedScore
	for _, s := range p.Scores {
		if s.Week == w {
			out = append(out, s)
		}
	}
	return out
}

// EliminatedIn returns the contestant indices leaving in week w.
func (p *Plan) EliminatedIn(w int) []int {
	var out []int
	for i, c := range p.Contestants {
		if c.EliminatedWeek == w {
			out = append(out, i)
		}
	}
	return out
}

func uniqueName(pool []string, i int) string {
	name := pool[i%len(pool)]
	if i >= len(pool) {
		name = fmt.Sprintf("%s %d", name, i/len(pool)+1)
	}
	return name
}

// generatePlan builds a deterministic season for cfg.Seed. One contestant
// leaves each week while more than a roster's worth remain.
func generatePlan(cfg *Config) *Plan {
	r := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)) //nolint:gosec // simulation, not crypto

	plan := &Plan{Weeks: cfg.Weeks}
	for i := 0; i < cfg.Contestants; i++ {
		plan.Contestants = append(plan.Contestants, PlannedContestant{Name: uniqueName(bakerNames, i)})
	}
	for i := 0; i < cfg.Players; i++ {
		plan.Players = append(plan.Players, PlannedPlayer{
			Name:     fmt.Sprintf("Player %02d", i+1),
			TeamName: uniqueName(teamNames, i),
			Roster:   r.Perm(cfg.Contestants)[:rosterSize],
		})
	}

	active := make([]int, cfg.Contestants)
	for i := range active {
		active[i] = i
	}
	for w := 1; w <= cfg.Weeks; w++ {
		pick := func() int { return active[r.IntN(len(active))] }
		plan.Scores = append(plan.Scores,
			PlannedScore{Week: w, Contestant: pick(), Category: scoring.StarBaker},
			PlannedScore{Week: w, Contestant: pick(), Category: scoring.TechnicalWin},
			PlannedScore{Week: w, Contestant: pick(), Category: scoring.LastTechnical},
		)
		for _, ci := range active {
			if r.IntN(4) == 0 {
				plan.Scores = append(plan.Scores, PlannedScore{
					Week: w, Contestant: ci, Category: optional[r.IntN(len(optional))],
				})
			}
		}
		if len(active) > rosterSize && w < cfg.Weeks {
			idx := r.IntN(len(active))
			plan.Contestants[active[idx]].EliminatedWeek = w
			active = append(active[:idx], active[idx+1:]...)
		}
	}
	return plan
}

// expectedTotals sums each player's roster points over weeks 1..upTo.
func expectedTotals(plan *Plan, upTo int) []int {
	points := make([]int, len(plan.Contestants))
	for _, s := range plan.Scores {
		if s.Week > upTo {
			continue
		}
		p, err := scoring.PointsFor(s.Category)
		if err != nil {
			continue
		}
		points[s.Contestant] += p
	}
	totals := make([]int, len(plan.Players))
	for i, p := range plan.Players {
		for _, ci := range p.Roster {
			totals[i] += points[ci]
		}
	}
	return totals
}
