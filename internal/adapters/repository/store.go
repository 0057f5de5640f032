// Package repository defines the league entity store and its implementations.
package repository

import (
	"context"

	"github.com/okian/bakeoff/internal/domain/model"
)

// ScoreFilter narrows ListScores. Zero values match everything.
type ScoreFilter struct {
	Week     int
	Category model.Category
}

// Counts reports the number of rows per table.
type Counts struct {
	Players      int
	Contestants  int
	Teams        int
	WeeklyScores int
	SeasonTotals int
}

// Store persists league entities. IDs are assigned by the store.
//
// Lists are returned in insertion (id) order. Missing rows yield an error of
// kind errs.ErrNotFound, any other failure errs.ErrStorage.
type Store interface {
	CreatePlayer(ctx context.Context, p *model.Player) error
	GetPlayer(ctx context.Context, id uint) (model.Player, error)
	ListPlayers(ctx context.Context) ([]model.Player, error)
	UpdatePlayer(ctx context.Context, p *model.Player) error
	// DeletePlayer removes the player with its team links and season totals.
	DeletePlayer(ctx context.Context, id uint) error

	// CreateContestant fails with errs.ErrValidation when the name is taken.
	CreateContestant(ctx context.Context, c *model.Contestant) error
	GetContestant(ctx context.Context, id uint) (model.Contestant, error)
	ListContestants(ctx context.Context) ([]model.Contestant, error)
	UpdateContestant(ctx context.Context, c *model.Contestant) error
	// DeleteContestant removes the contestant with its team links and weekly scores.
	DeleteContestant(ctx context.Context, id uint) error

	ListTeams(ctx context.Context) ([]model.Team, error)
	ListTeamsByPlayer(ctx context.Context, playerID uint) ([]model.Team, error)
	// ReplaceRoster deletes the player's links and inserts contestantIDs in order, atomically.
	ReplaceRoster(ctx context.Context, playerID uint, contestantIDs []uint) ([]model.Team, error)

	CreateScore(ctx context.Context, s *model.WeeklyScore) error
	GetScore(ctx context.Context, id uint) (model.WeeklyScore, error)
	ListScores(ctx context.Context, f ScoreFilter) ([]model.WeeklyScore, error)
	UpdateScore(ctx context.Context, s *model.WeeklyScore) error
	DeleteScore(ctx context.Context, id uint) error

	ListSeasonTotals(ctx context.Context) ([]model.SeasonTotal, error)
	// ReplaceSeasonTotals swaps the whole table for rows, numbering them 1..n.
	ReplaceSeasonTotals(ctx context.Context, rows []model.SeasonTotal) error

	Counts(ctx context.Context) (Counts, error)
	// Clear removes every row of every table.
	Clear(ctx context.Context) error
	Close() error
}
