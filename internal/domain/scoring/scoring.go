// Package scoring holds the fixed category table and the elimination guard.
package scoring

import (
	"github.com/okian/bakeoff/internal/domain/errs"
	"github.com/okian/bakeoff/internal/domain/model"
)

// Scoring categories.
const (
	StarBaker        model.Category = "star_baker"
	TechnicalWin     model.Category = "technical_win"
	Handshake        model.Category = "handshake"
	Raw              model.Category = "raw"
	Overbaked        model.Category = "overbaked"
	LastTechnical    model.Category = "last_technical"
	CriesTestimonial model.Category = "cries_testimonial"
)

type rule struct {
	category     model.Category
	points       int
	singleWinner bool
}

// rules is the process-wide table. Order is the order Categories reports.
var rules = [...]rule{ //nolint:gochecknoglobals // constant table
	{StarBaker, 4, true},
	{TechnicalWin, 3, true},
	{Handshake, 4, false},
	{Raw, -1, false},
	{Overbaked, -1, false},
	{LastTechnical, -1, true},
	{CriesTestimonial, 1, false},
}

func lookup(c model.Category) (rule, bool) {
	for _, r := range rules {
		if r.category == c {
			return r, true
		}
	}
	return rule{}, false
}

// PointsFor returns the signed point value of category.
func PointsFor(category model.Category) (int, error) {
	r, ok := lookup(category)
	if !ok {
		return 0, errs.Newf("scoring.points_for", errs.ErrUnknownCategory, "%q", category)
	}
	return r.points, nil
}

// IsSingleWinner reports whether at most one contestant may hold category per week.
func IsSingleWinner(category model.Category) bool {
	r, ok := lookup(category)
	return ok && r.singleWinner
}

// Valid reports whether category is in the table.
func Valid(category model.Category) bool {
	_, ok := lookup(category)
	return ok
}

// Rule is the public view of one table entry.
type Rule struct {
	Category     model.Category
	Points       int
	SingleWinner bool
}

// Categories lists the table in its fixed order.
func Categories() []Rule {
	out := make([]Rule, len(rules))
	for i, r := range rules {
		out[i] = Rule{Category: r.category, Points: r.points, SingleWinner: r.singleWinner}
	}
	return out
}

// CanScore reports whether c may receive points in week. An eliminated
// contestant is still scored in the week they leave, never before or after.
func CanScore(c model.Contestant, week int) bool {
	if c.EliminatedWeek == nil {
		return true
	}
	return week == *c.EliminatedWeek
}
