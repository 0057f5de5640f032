// Package model contains the league entities passed between layers.
//
// The struct tags serve both the GORM store and the JSON API.
package model

import "time"

// Category names one of the fixed weekly scoring events.
type Category string

// Player is a fantasy-league participant owning a roster of contestants.
type Player struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	TeamName  string    `gorm:"size:255;not null" json:"team_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Player) TableName() string {
	return "players"
}

// Contestant is a competitor on the show. A nil EliminatedWeek means still active.
type Contestant struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name           string    `gorm:"size:255;not null;uniqueIndex" json:"name"`
	EliminatedWeek *int      `json:"eliminated_week"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (Contestant) TableName() string {
	return "contestants"
}

// Team links one player to one contestant. A player's roster is the set of
// their Team rows in insertion order.
type Team struct {
	ID           uint `gorm:"primaryKey;autoIncrement" json:"id"`
	PlayerID     uint `gorm:"not null;index" json:"player_id"`
	ContestantID uint `gorm:"not null;index" json:"contestant_id"`
}

func (Team) TableName() string {
	return "teams"
}

// WeeklyScore awards a category's fixed points to a contestant for one week.
type WeeklyScore struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Week         int       `gorm:"not null;index" json:"week"`
	ContestantID uint      `gorm:"not null;index" json:"contestant_id"`
	Category     Category  `gorm:"size:32;not null" json:"category"`
	Points       int       `gorm:"not null" json:"points"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (WeeklyScore) TableName() string {
	return "weekly_scores"
}

// SeasonTotal is one derived row of a player's running total. The table is
// rebuilt from WeeklyScore and Team rows on every recalculation.
type SeasonTotal struct {
	ID           uint `gorm:"primaryKey;autoIncrement" json:"id"`
	PlayerID     uint `gorm:"not null;index" json:"player_id"`
	Week         int  `gorm:"not null" json:"week"`
	ContestantID uint `gorm:"not null" json:"contestant_id"`
	Points       int  `gorm:"not null" json:"points"`
	RunningTotal int  `gorm:"not null" json:"running_total"`
}

func (SeasonTotal) TableName() string {
	return "season_totals"
}
