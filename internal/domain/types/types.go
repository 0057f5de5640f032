// Package types contains the read shapes returned by league queries.
package types

import "github.com/okian/bakeoff/internal/domain/model"

// Entry is one leaderboard row.
type Entry struct {
	PlayerID    uint   `json:"player_id"`
	PlayerName  string `json:"player_name"`
	TeamName    string `json:"team_name"`
	TotalPoints int    `json:"total_points"`
}

// BreakdownRow is one scored event on a player's roster.
type BreakdownRow struct {
	Week           int            `json:"week"`
	ContestantName string         `json:"contestant_name"`
	Category       model.Category `json:"category"`
	Points         int            `json:"points"`
}

// CategoryInfo describes one scoring category.
type CategoryInfo struct {
	Name         model.Category `json:"name"`
	Points       int            `json:"points"`
	SingleWinner bool           `json:"single_winner"`
}
